package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should return defaults for an empty path", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "https://www.pixiv.net/ajax", cfg.BaseURL)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, 30, cfg.TimeoutSeconds)
		assert.False(t, cfg.Proxy.Enabled)
	})

	t.Run("Should overlay file values on the defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "server:\n  port: 9000\nauth:\n  cookie: PHPSESSID=abc\nproxy:\n  enabled: true\n  url: http://127.0.0.1:8080\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "PHPSESSID=abc", cfg.Auth.Cookie)
		assert.True(t, cfg.Proxy.Enabled)
		assert.Equal(t, "http://127.0.0.1:8080", cfg.Proxy.URL)
		// untouched keys keep their defaults
		assert.Equal(t, "https://www.pixiv.net/ajax", cfg.BaseURL)
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
