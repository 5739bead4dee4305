package tsparse

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// unquote strips the quotes of a string or template token and decodes its
// escape sequences, so node text holds the literal's value. Text that is
// not quoted is returned as is.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first != '"' && first != '\'' && first != '`') || first != last {
		return s
	}
	return decodeEscapes(s[1 : len(s)-1])
}

// decodeEscapes resolves ECMAScript string escapes. Unknown escapes stand
// for the escaped character itself; a backslash before a line break is a
// line continuation and disappears.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		i++
		switch c := s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if r, ok := hexRune(s, i+1, 2); ok {
				b.WriteRune(r)
				i += 2
			} else {
				b.WriteByte('x')
			}
		case 'u':
			r, n := unicodeEscape(s, i+1)
			if n == 0 {
				b.WriteByte('u')
				break
			}
			i += n
			// A high surrogate followed by an escaped low surrogate is one
			// code point.
			if utf16.IsSurrogate(r) && i+2 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if low, m := unicodeEscape(s, i+3); m > 0 {
					if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
						r = pair
						i += 2 + m
					}
				}
			}
			b.WriteRune(r)
		default:
			// Copy the whole escaped character, which may be multi-byte.
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size - 1
		}
		i++
	}
	return b.String()
}

// unicodeEscape reads the digits after `\u` at s[start:], either four hex
// digits or a braced code point. It returns the rune and the number of
// bytes consumed, 0 when malformed.
func unicodeEscape(s string, start int) (rune, int) {
	if start < len(s) && s[start] == '{' {
		end := strings.IndexByte(s[start:], '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[start+1:start+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if r, ok := hexRune(s, start, 4); ok {
		return r, 4
	}
	return 0, 0
}

func hexRune(s string, start, digits int) (rune, bool) {
	if start+digits > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+digits], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
