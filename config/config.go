package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

const Version = "0.1.0"

type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type AuthConfig struct {
	Cookie string `yaml:"cookie" json:"-"`
}

type ProxyConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	URL     string `yaml:"url" json:"url"`
}

type Config struct {
	Server         ServerConfig `yaml:"server" json:"server"`
	BaseURL        string       `yaml:"base_url" json:"baseUrl"`
	UserAgent      string       `yaml:"user_agent" json:"userAgent"`
	Referer        string       `yaml:"referer" json:"referer"`
	AcceptLanguage string       `yaml:"accept_language" json:"acceptLanguage"`
	TimeoutSeconds int          `yaml:"timeout_seconds" json:"timeoutSeconds"`
	Auth           AuthConfig   `yaml:"auth" json:"-"`
	Proxy          ProxyConfig  `yaml:"proxy" json:"proxy"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		BaseURL:        "https://www.pixiv.net/ajax",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Referer:        "https://www.pixiv.net/",
		AcceptLanguage: "zh-CN,zh;q=0.9,en;q=0.8",
		TimeoutSeconds: 30,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
