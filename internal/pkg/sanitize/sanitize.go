// Package sanitize strips markup from user-submitted text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML tag and trims surrounding whitespace.
// Entities produced by the policy are unescaped again because templates escape on output.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Multiline is Text with line endings normalized to \n.
func Multiline(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return Text(s)
}
