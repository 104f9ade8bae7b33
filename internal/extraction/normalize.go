// Package extraction implements the pattern-based invoice extraction
// engine: ordered per-field regular expressions over normalized PDF
// text, typed amount/date parsing, and table-to-line-item mapping.
package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	spaceAroundLine = regexp.MustCompile(` *\n *`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText cleans raw PDF text before pattern matching: line
// breaks are unified, non-printable control characters are stripped
// (currency symbols and punctuation survive), and runs of horizontal
// whitespace collapse to a single space. Applying it twice yields the
// same result as applying it once.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t' || r == ' ':
			b.WriteRune(r)
		case unicode.IsControl(r) || r == '\uFEFF' || r == '\u200B':
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	cleaned := horizontalSpace.ReplaceAllString(b.String(), " ")
	cleaned = spaceAroundLine.ReplaceAllString(cleaned, "\n")
	cleaned = blankLines.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}
