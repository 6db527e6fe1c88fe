package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/grammar"
	"github.com/mcncl/ionlit/internal/models"
)

var simpleEscapes = map[byte]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'?':  '?',
	'a':  '\a',
	'b':  '\b',
	't':  '\t',
	'n':  '\n',
	'f':  '\f',
	'r':  '\r',
	'v':  '\v',
	'0':  0,
}

// decodeString strips the quotes from a string lexeme and unescapes it.
func decodeString(rule grammar.Rule, lexeme string) (models.Value, error) {
	if rule == grammar.RuleNullString {
		return models.Null(models.KindString), nil
	}
	s, err := Unescape(lexeme[1 : len(lexeme)-1])
	if err != nil {
		return models.Value{}, err
	}
	return models.NewString(s), nil
}

// Unescape replaces every escape sequence the string rule accepts.
// Line continuations (\NL or a backslash before a line break) vanish.
func Unescape(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		n := grammar.EscapeLen(s[i:])
		if n < 0 {
			return "", errors.NewDecodeError(fmt.Sprintf("invalid escape at offset %d in %q", i, s), errors.ErrInvalidEscape)
		}
		esc := s[i : i+n]
		i += n

		switch esc[1] {
		case 'N', '\n', '\r':
		case 'x', 'u', 'U':
			r := hexRune(esc)
			if utf16.IsSurrogate(r) {
				// A \u high surrogate may pair with a following \u low surrogate.
				if m := grammar.EscapeLen(s[i:]); m == 6 && s[i+1] == 'u' {
					if pair := utf16.DecodeRune(r, hexRune(s[i:i+6])); pair != utf8.RuneError {
						r = pair
						i += 6
					}
				}
			}
			if !utf8.ValidRune(r) {
				return "", errors.NewDecodeError(
					fmt.Sprintf("escape %q does not name a unicode scalar value", esc),
					errors.ErrInvalidCodePoint,
				)
			}
			b.WriteRune(r)
		default:
			b.WriteByte(simpleEscapes[esc[1]])
		}
	}
	return b.String(), nil
}

// hexRune reads the hex digits of a \x, \u or \U escape. The grammar has
// already checked the digits, and eight hex digits always fit in 32 bits.
func hexRune(esc string) rune {
	n, _ := strconv.ParseUint(esc[2:], 16, 32)
	return rune(n)
}
