package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richText  = bluemonday.UGCPolicy()
	plainText = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks, keeping safe formatting.
func Sanitize(input string) string {
	return strings.TrimSpace(richText.Sanitize(input))
}

// SanitizePlain strips every tag, for single-line fields such as titles.
func SanitizePlain(input string) string {
	return strings.TrimSpace(plainText.Sanitize(input))
}
