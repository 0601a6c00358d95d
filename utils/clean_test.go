package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFileName(t *testing.T) {
	t.Run("Should replace filesystem-unsafe characters", func(t *testing.T) {
		assert.Equal(t, "a_b_c", CleanFileName(`a/b\c`))
		assert.Equal(t, "what_ why_", CleanFileName(`what? why*`))
	})

	t.Run("Should trim surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "title", CleanFileName("  title  "))
	})

	t.Run("Should pass safe names through", func(t *testing.T) {
		assert.Equal(t, "001_A.txt", CleanFileName("001_A.txt"))
	})
}

func TestSanitizeHeaderFilename(t *testing.T) {
	t.Run("Should strip quotes and line breaks", func(t *testing.T) {
		assert.Equal(t, "a.txt", SanitizeHeaderFilename("\"a\r\n.txt\""))
	})

	t.Run("Should keep unicode intact", func(t *testing.T) {
		assert.Equal(t, "連載_第1話.txt", SanitizeHeaderFilename("連載_第1話.txt"))
	})
}
