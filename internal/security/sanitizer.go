package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims and bounds user-entered text
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 1000 {
		input = input[:1000]
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// CleanText is what every user-entered free-text field goes through before
// it reaches the store: tag stripping, trimming and length bounding.
func CleanText(input string) string {
	return SanitizeString(SanitizeHTML(input))
}
