// Package content resolves the target text for a practice session.
package content

import "strings"

// sanitizer maps typographic variants onto characters a keyboard produces.
// CRLF must be replaced before the lone CR rule.
var sanitizer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\t", "  ",
	"\u00a0", " ",
	"‘", "'",
	"’", "'",
	"‚", "'",
	"‛", "'",
	"“", "\"",
	"”", "\"",
	"„", "\"",
	"‟", "\"",
	"–", "-",
	"—", "-",
	"…", "...",
)

// Sanitize normalizes punctuation and whitespace so every character of the
// result can be produced by a single keystroke. It is idempotent.
func Sanitize(text string) string {
	return sanitizer.Replace(text)
}
