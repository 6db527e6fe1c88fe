package grammar

import "strings"

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
func isNZDigit(c byte) bool { return '1' <= c && c <= '9' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isOctDigit(c byte) bool { return '0' <= c && c <= '7' }

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// groupedTail consumes digits from s[i:], allowing a single underscore
// between two digits. It never fails; it returns the new index.
func groupedTail(s string, i int, digit func(byte) bool) int {
	for i < len(s) {
		switch {
		case digit(s[i]):
			i++
		case s[i] == '_' && i+1 < len(s) && digit(s[i+1]):
			i += 2
		default:
			return i
		}
	}
	return i
}

// digitsAt matches one or more (grouped) decimal digits at s[i:].
func digitsAt(s string, i int) int {
	if i >= len(s) || !isDigit(s[i]) {
		return -1
	}
	return groupedTail(s, i+1, isDigit)
}

// plainDigitsAt matches one or more decimal digits without underscores.
func plainDigitsAt(s string, i int) int {
	if i >= len(s) || !isDigit(s[i]) {
		return -1
	}
	for i++; i < len(s) && isDigit(s[i]); i++ {
	}
	return i
}

func signAt(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		return i + 1
	}
	return i
}

func literal(words ...string) func(string) int {
	return func(s string) int {
		for _, w := range words {
			if strings.HasPrefix(s, w) {
				return len(w)
			}
		}
		return -1
	}
}

// matchInt: '-'? (nz_digit ('_'? digit)* | '0')
func matchInt(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i >= len(s):
		return -1
	case s[i] == '0':
		return i + 1
	case isNZDigit(s[i]):
		return groupedTail(s, i+1, isDigit)
	}
	return -1
}

// radixInt builds the hex/oct/bin rule: sign? '0' marker digit ('_'? digit)*
func radixInt(lower, upper byte, digit func(byte) bool) func(string) int {
	return func(s string) int {
		i := signAt(s, 0)
		if i+2 >= len(s) || s[i] != '0' || (s[i+1] != lower && s[i+1] != upper) {
			return -1
		}
		i += 2
		if !digit(s[i]) {
			return -1
		}
		return groupedTail(s, i+1, digit)
	}
}

// realBody matches the unsigned part of real_num at s[i:]:
//
//	nz_digit digit* '.' digit* | '.' digits | '0.' digit*
func realBody(s string, i int) int {
	if i >= len(s) {
		return -1
	}
	if isNZDigit(s[i]) {
		j := groupedTail(s, i+1, isDigit)
		if j < len(s) && s[j] == '.' {
			return optionalDigits(s, j+1)
		}
	}
	if s[i] == '.' {
		return digitsAt(s, i+1)
	}
	if s[i] == '0' && i+1 < len(s) && s[i+1] == '.' {
		return optionalDigits(s, i+2)
	}
	return -1
}

func optionalDigits(s string, i int) int {
	if j := digitsAt(s, i); j >= 0 {
		return j
	}
	return i
}

// mantissa matches sign? (real_num | digits) and returns the index after it.
func mantissa(s string) int {
	i := signAt(s, 0)
	if j := realBody(s, i); j >= 0 {
		return j
	}
	return digitsAt(s, i)
}

// exponent matches marker sign? digits at s[i:].
func exponent(s string, i int, lower, upper byte) int {
	if i >= len(s) || (s[i] != lower && s[i] != upper) {
		return -1
	}
	return plainDigitsAt(s, signAt(s, i+1))
}

func matchRealNum(s string) int {
	return realBody(s, signAt(s, 0))
}

// matchFloat: sign? (real_num | digits) [eE] sign? digits
func matchFloat(s string) int {
	i := mantissa(s)
	if i < 0 {
		return -1
	}
	return exponent(s, i, 'e', 'E')
}

// matchDecimal: sign? (real_num | digits) [dD] sign? digits | real_num
func matchDecimal(s string) int {
	if i := mantissa(s); i >= 0 {
		if j := exponent(s, i, 'd', 'D'); j >= 0 {
			return j
		}
	}
	return matchRealNum(s)
}

// matchString: '"' (escape | !('"' | '\') any)* '"'
func matchString(s string) int {
	if len(s) == 0 || s[0] != '"' {
		return -1
	}
	for i := 1; i < len(s); {
		switch s[i] {
		case '"':
			return i + 1
		case '\\':
			n := EscapeLen(s[i:])
			if n < 0 {
				return -1
			}
			i += n
		default:
			i++
		}
	}
	return -1
}

// EscapeLen returns the length of the escape sequence at the start of s,
// which must begin with a backslash, or -1 if it is not a valid escape.
func EscapeLen(s string) int {
	if len(s) < 2 || s[0] != '\\' {
		return -1
	}
	switch s[1] {
	case '"', '\\', '/', '?', 'a', 'b', 't', 'n', 'f', 'r', 'v', '0', '\n':
		return 2
	case '\r':
		if len(s) > 2 && s[2] == '\n' {
			return 3
		}
		return 2
	case 'N':
		if len(s) > 2 && s[2] == 'L' {
			return 3
		}
	case 'x':
		return hexEscape(s, 2)
	case 'u':
		return hexEscape(s, 4)
	case 'U':
		return hexEscape(s, 8)
	}
	return -1
}

func hexEscape(s string, n int) int {
	if len(s) < 2+n {
		return -1
	}
	for i := 2; i < 2+n; i++ {
		if !isHexDigit(s[i]) {
			return -1
		}
	}
	return 2 + n
}
