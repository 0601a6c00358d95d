package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	t.Run("Should drop tags and keep text", func(t *testing.T) {
		assert.Equal(t, "hello world", StripHTML(`<p>hello <strong>world</strong></p>`))
	})

	t.Run("Should turn br tags into newlines", func(t *testing.T) {
		assert.Equal(t, "one\ntwo", StripHTML("one<br>two"))
	})

	t.Run("Should pass plain text through", func(t *testing.T) {
		assert.Equal(t, "no markup here", StripHTML("  no markup here "))
	})
}
