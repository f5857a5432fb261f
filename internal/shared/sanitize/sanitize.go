// Package sanitize turns provider-supplied strings into plain text safe to
// store and render.
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all markup, collapses surrounding whitespace and truncates the
// result to at most maxRunes runes. maxRunes <= 0 disables truncation.
func Text(s string, maxRunes int) string {
	if s == "" {
		return ""
	}
	clean := strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
	if maxRunes > 0 && utf8.RuneCountInString(clean) > maxRunes {
		clean = string([]rune(clean)[:maxRunes])
	}
	return clean
}
