// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// whitespaceRegex matches runs of whitespace, including newlines
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Address sanitizes a postal address: HTML is stripped and whitespace runs
// collapse to a single space so addresses render on one line.
func Address(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(StripHTML(s), " "))
}
