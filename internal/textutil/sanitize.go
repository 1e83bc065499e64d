// Package textutil holds text normalization helpers shared by the extraction
// and embedding paths.
package textutil

import (
	"strings"
	"unicode"
)

// Flatten replaces newline sequences with single spaces. Embedding providers
// score flattened text more consistently, and the stored knowledge base
// metadata is kept in the same flattened form.
func Flatten(s string) string {
	replacer := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	return replacer.Replace(s)
}

// StripControl removes control characters except tab, newline and carriage
// return. PDF extraction in particular tends to leak null bytes and stray
// control codes into the text.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Normalize flattens newlines and strips control characters. Applying it
// twice yields the same result as applying it once.
func Normalize(s string) string {
	return StripControl(Flatten(s))
}
