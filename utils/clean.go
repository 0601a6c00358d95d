package utils

import (
	"regexp"
	"strings"
)

var unsafePathChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// CleanFileName replaces characters that are unsafe in filesystem paths.
func CleanFileName(input string) string {
	cleaned := unsafePathChars.ReplaceAllString(input, "_")
	return strings.TrimSpace(cleaned)
}

// SanitizeHeaderFilename strips quote and line-break characters so a logical
// filename can be placed in a Content-Disposition header without injection.
func SanitizeHeaderFilename(input string) string {
	return strings.NewReplacer("\"", "", "\r", "", "\n", "").Replace(input)
}
