// Package textutil provides text normalization helpers for field matching.
package textutil

import (
	"regexp"
	"strings"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts word tokens from text (Unicode-aware).
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines and multiple whitespace with a single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// Normalize lowercases text, collapses whitespace and trims the ends.
func Normalize(text string) string {
	return strings.TrimSpace(NormalizeWhitespaces(strings.ToLower(text)))
}

// Words splits text on whitespace. Punctuation stays attached to its word,
// so "email_address_field" remains a single word.
func Words(text string) []string {
	return strings.Fields(text)
}
