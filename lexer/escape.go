package lexer

import (
	"strings"
	"unicode/utf8"
)

// MaxCodePoint is the largest Unicode code point accepted in escapes and
// unicode-range tokens.
const MaxCodePoint = 0x10FFFF

// validEscape reports whether a backslash at p starts an escape, i.e. it is
// followed by something other than a newline or end of input.
func (l *Lexer) validEscape(p int) bool {
	if l.at(p) != '\\' || p+1 >= len(l.input) {
		return false
	}
	return !isNewline(l.input[p+1])
}

// consumeEscape decodes the escape starting at the current backslash.
// "\" + 1-6 hex digits (plus one optional whitespace) names a code point;
// any other escaped character stands for itself.
func (l *Lexer) consumeEscape() (rune, error) {
	start := l.position
	l.position++

	if !isHexDigit(l.at(l.position)) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		l.position += size
		return r, nil
	}

	value, p := l.readHex(l.position)
	l.position = l.skipEscapeWhitespace(p)
	if value > MaxCodePoint {
		return 0, l.errorf(start, "unicode escape out of range")
	}
	return rune(value), nil
}

// readHex reads up to six hex digits starting at p.
func (l *Lexer) readHex(p int) (int, int) {
	value := 0
	for n := 0; n < 6 && isHexDigit(l.at(p)); n++ {
		value = value<<4 | hexValue(l.input[p])
		p++
	}
	return value, p
}

// skipEscapeWhitespace skips the single whitespace that may terminate a hex
// escape. CRLF counts as one.
func (l *Lexer) skipEscapeWhitespace(p int) int {
	switch l.at(p) {
	case ' ', '\t', '\n', '\f':
		return p + 1
	case '\r':
		if l.at(p+1) == '\n' {
			return p + 2
		}
		return p + 1
	}
	return p
}

// matchURL recognizes the unquoted url(...) form at the current position.
// Each letter of "url" may be written literally in any case, backslash
// escaped, or as a hex escape. The argument is returned trimmed of the
// surrounding whitespace.
func (l *Lexer) matchURL() (string, int, bool) {
	p := l.position
	for _, letter := range "url" {
		if p = l.matchLetter(p, byte(letter)); p < 0 {
			return "", 0, false
		}
	}
	if l.at(p) != '(' {
		return "", 0, false
	}
	p++
	for isWhitespace(l.at(p)) {
		p++
	}
	start := p
	for p < len(l.input) && isURLByte(l.input[p]) {
		p++
	}
	if p == start {
		return "", 0, false
	}
	end := p
	for isWhitespace(l.at(p)) {
		p++
	}
	if l.at(p) != ')' {
		return "", 0, false
	}
	return l.input[start:end], p + 1, true
}

// matchLetter matches one ASCII letter, case-insensitively, in literal,
// backslash-escaped or hex-escaped form. It returns the position after the
// letter or -1.
func (l *Lexer) matchLetter(p int, lower byte) int {
	upper := lower - 'a' + 'A'
	c := l.at(p)
	if c == lower || c == upper {
		return p + 1
	}
	if c != '\\' {
		return -1
	}
	c = l.at(p + 1)
	if c == lower || c == upper {
		return p + 2
	}
	if !isHexDigit(c) {
		return -1
	}
	value, q := l.readHex(p + 1)
	if value != int(lower) && value != int(upper) {
		return -1
	}
	return l.skipEscapeWhitespace(q)
}

// scanUnicodeRange consumes U+ followed by 1-6 hex digits or '?' wildcards,
// optionally followed by '-' and a second hex endpoint.
func (l *Lexer) scanUnicodeRange() (Token, error) {
	start := l.position
	p := start + 2

	digits := p
	for p-digits < 6 && isHexDigit(l.at(p)) {
		p++
	}
	hex := l.input[digits:p]
	for p-digits < 6 && l.at(p) == '?' {
		p++
	}
	first := l.input[digits:p]
	if c := l.at(p); isHexDigit(c) || c == '?' {
		return Token{}, l.errorf(start, "unicode-range endpoint has more than 6 digits")
	}

	if len(first) > len(hex) {
		if l.at(p) == '-' && isHexDigit(l.at(p+1)) {
			return Token{}, l.errorf(start, "unicode-range wildcard cannot be combined with an explicit range")
		}
		from := parseHex(strings.ReplaceAll(first, "?", "0"))
		to := parseHex(strings.ReplaceAll(first, "?", "f"))
		if from > MaxCodePoint {
			return Token{}, l.errorf(start, "unicode-range endpoint out of range")
		}
		if to > MaxCodePoint {
			to = MaxCodePoint
		}
		l.position = p
		return Token{Type: TokenUnicodeRange, From: rune(from), To: rune(to)}, nil
	}

	from := parseHex(first)
	to := from
	if l.at(p) == '-' && isHexDigit(l.at(p+1)) {
		p++
		second := p
		for p-second < 6 && isHexDigit(l.at(p)) {
			p++
		}
		if c := l.at(p); isHexDigit(c) || c == '?' {
			return Token{}, l.errorf(start, "unicode-range endpoint has more than 6 digits")
		}
		to = parseHex(l.input[second:p])
	}
	if from > MaxCodePoint || to > MaxCodePoint {
		return Token{}, l.errorf(start, "unicode-range endpoint out of range")
	}
	if to < from {
		return Token{}, l.errorf(start, "inverted unicode-range")
	}
	l.position = p
	return Token{Type: TokenUnicodeRange, From: rune(from), To: rune(to)}, nil
}

func parseHex(s string) int {
	value := 0
	for i := 0; i < len(s); i++ {
		value = value<<4 | hexValue(s[i])
	}
	return value
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// isURLByte reports whether c may appear in an unquoted url argument.
func isURLByte(c byte) bool {
	switch {
	case c == '"' || c == '\'' || c == '(' || c == ')' || c == '\\':
		return false
	case isWhitespace(c):
		return false
	case c <= 0x08 || (c >= 0x0E && c <= 0x1F) || c == 0x7F:
		return false
	}
	return true
}
