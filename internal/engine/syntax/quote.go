package syntax

import (
	"fmt"
	"strings"
)

// QuoteString renders a string value as a double-quoted JavaScript string
// literal. Only the quote, the backslash and control characters are
// escaped; everything else, non-ASCII included, is written as is.
func QuoteString(s string) string {
	return quote(s, '"')
}

// QuoteSingle is QuoteString with single quotes, used for module names.
func QuoteSingle(s string) string {
	return quote(s, '\'')
}

func quote(s string, q rune) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteRune(q)
	for _, r := range s {
		switch r {
		case q:
			b.WriteRune('\\')
			b.WriteRune(q)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}
