package lexer

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer scans CSS-like source text into tokens in a single forward pass.
// It never looks back at tokens it has already returned.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
}

// New returns a new Lexer for input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Lex tokenizes the whole input.
func Lex(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token, or io.EOF once the input is exhausted.
// Any other error is a *SyntaxError and is fatal for the whole input.
func (l *Lexer) Next() (Token, error) {
	if l.position >= len(l.input) {
		return Token{}, io.EOF
	}
	start := l.position
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	tok.Pos = start
	tok.Raw = l.input[start:l.position]
	return tok, nil
}

func (l *Lexer) scan() (Token, error) {
	c := l.input[l.position]
	switch {
	case c == '/' && l.at(l.position+1) == '*':
		return l.scanComment()
	case isWhitespace(c):
		return l.scanWhitespace(), nil
	case c == '"' || c == '\'':
		return l.scanString(c)
	case c == '#':
		return l.scanHash()
	case c == '@':
		return l.scanAtIdent()
	case (c == 'u' || c == 'U') && l.startsUnicodeRange():
		return l.scanUnicodeRange()
	}

	if content, end, ok := l.matchURL(); ok {
		l.position = end
		return Token{Type: TokenURL, Content: content}, nil
	}
	if l.startsIdent(l.position) {
		return l.scanIdentLike()
	}
	if l.startsNumber(l.position) {
		return l.scanNumber()
	}
	if c == '\\' {
		return Token{}, l.errorf(l.position, "invalid escape")
	}

	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	l.position += size
	return Token{Type: TokenSymbol, Content: string(r)}, nil
}

// scanComment consumes "/*" up to and including the first "*/".
// Comments do not nest.
func (l *Lexer) scanComment() (Token, error) {
	start := l.position
	end := strings.Index(l.input[start+2:], "*/")
	if end < 0 {
		return Token{}, l.errorf(start, "unterminated comment")
	}
	content := l.input[start+2 : start+2+end]
	l.position = start + 2 + end + 2
	return Token{Type: TokenComment, Content: content}, nil
}

// scanWhitespace collapses a whitespace run into one token.
func (l *Lexer) scanWhitespace() Token {
	start := l.position
	for l.position < len(l.input) && isWhitespace(l.input[l.position]) {
		l.position++
	}
	return Token{Type: TokenWhitespace, Content: l.input[start:l.position]}
}

func (l *Lexer) scanString(quote byte) (Token, error) {
	start := l.position
	l.position++

	var sb strings.Builder
	for {
		if l.position >= len(l.input) {
			return Token{}, l.errorf(start, "unterminated string")
		}
		c := l.input[l.position]
		switch {
		case c == quote:
			l.position++
			return Token{Type: TokenString, Content: sb.String()}, nil
		case isNewline(c):
			return Token{}, l.errorf(start, "unterminated string")
		case c == '\\':
			next := l.at(l.position + 1)
			if l.position+1 >= len(l.input) {
				return Token{}, l.errorf(start, "unterminated string")
			}
			if isNewline(next) {
				// escaped newlines are omitted, not preserved
				l.position += 2
				if next == '\r' && l.at(l.position) == '\n' {
					l.position++
				}
				continue
			}
			r, err := l.consumeEscape()
			if err != nil {
				return Token{}, err
			}
			sb.WriteRune(r)
		default:
			r, size := utf8.DecodeRuneInString(l.input[l.position:])
			sb.WriteRune(r)
			l.position += size
		}
	}
}

func (l *Lexer) scanHash() (Token, error) {
	p := l.position + 1
	if !isNameByte(l.at(p)) && !l.validEscape(p) {
		l.position++
		return Token{Type: TokenSymbol, Content: "#"}, nil
	}
	l.position = p
	name, err := l.consumeName()
	if err != nil {
		return Token{}, err
	}
	return Token{Type: TokenHash, Content: name}, nil
}

func (l *Lexer) scanAtIdent() (Token, error) {
	if !l.startsIdent(l.position + 1) {
		l.position++
		return Token{Type: TokenSymbol, Content: "@"}, nil
	}
	l.position++
	name, err := l.consumeName()
	if err != nil {
		return Token{}, err
	}
	return Token{Type: TokenAtIdent, Content: name}, nil
}

// scanIdentLike consumes an identifier, turning it into a call-open token
// when '(' follows with no whitespace in between.
func (l *Lexer) scanIdentLike() (Token, error) {
	name, err := l.consumeName()
	if err != nil {
		return Token{}, err
	}
	if l.at(l.position) == '(' {
		l.position++
		return Token{Type: TokenCallOpen, Content: name}, nil
	}
	return Token{Type: TokenIdent, Content: name}, nil
}

// scanNumber consumes [+-]?(\.[0-9]+|[0-9]+(\.[0-9]+)?)([eE][+-]?[0-9]+)?
// followed by an optional '%' or identifier-shaped unit.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.position
	p := start
	if c := l.at(p); c == '+' || c == '-' {
		p++
	}
	if l.at(p) == '.' {
		p = l.skipDigits(p + 1)
	} else {
		p = l.skipDigits(p)
		if l.at(p) == '.' && isDigit(l.at(p+1)) {
			p = l.skipDigits(p + 1)
		}
	}
	if c := l.at(p); c == 'e' || c == 'E' {
		q := p + 1
		if s := l.at(q); s == '+' || s == '-' {
			q++
		}
		if isDigit(l.at(q)) {
			p = l.skipDigits(q)
		}
	}

	value, err := strconv.ParseFloat(l.input[start:p], 64)
	if err != nil {
		// only reachable for out-of-range exponents
		return Token{}, l.errorf(start, "invalid number %q", l.input[start:p])
	}
	l.position = p

	tok := Token{Type: TokenNumber, Value: value}
	switch {
	case l.at(p) == '%':
		l.position++
		tok.Unit = "%"
	case l.startsIdent(p):
		unit, err := l.consumeName()
		if err != nil {
			return Token{}, err
		}
		tok.Unit = unit
	}
	return tok, nil
}

// consumeName consumes name code points and escapes starting at the current
// position and returns the decoded text.
func (l *Lexer) consumeName() (string, error) {
	var sb strings.Builder
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case c == '\\':
			if !l.validEscape(l.position) {
				return sb.String(), nil
			}
			r, err := l.consumeEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(l.input[l.position:])
			sb.WriteRune(r)
			l.position += size
		case isNameByte(c):
			sb.WriteByte(c)
			l.position++
		default:
			return sb.String(), nil
		}
	}
	return sb.String(), nil
}

func (l *Lexer) skipDigits(p int) int {
	for isDigit(l.at(p)) {
		p++
	}
	return p
}

// startsIdent reports whether an identifier begins at p:
// "--", or an optional '-' followed by a name-start code point or escape.
func (l *Lexer) startsIdent(p int) bool {
	if l.at(p) == '-' {
		if l.at(p+1) == '-' {
			return true
		}
		p++
	}
	c := l.at(p)
	return isNameStart(c) || l.validEscape(p)
}

// startsNumber reports whether a number begins at p.
func (l *Lexer) startsNumber(p int) bool {
	if c := l.at(p); c == '+' || c == '-' {
		p++
	}
	if isDigit(l.at(p)) {
		return true
	}
	return l.at(p) == '.' && isDigit(l.at(p+1))
}

func (l *Lexer) startsUnicodeRange() bool {
	if l.at(l.position+1) != '+' {
		return false
	}
	c := l.at(l.position + 2)
	return isHexDigit(c) || c == '?'
}

// at returns the byte at p, or 0 past the end of input.
func (l *Lexer) at(p int) byte {
	if p < 0 || p >= len(l.input) {
		return 0
	}
	return l.input[p]
}

func (l *Lexer) errorf(offset int, format string, args ...any) *SyntaxError {
	return NewSyntaxError(l.input, offset, format, args...)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

func isNewline(c byte) bool {
	return c == '\r' || c == '\n' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isNameStart reports whether c can start an identifier. Bytes of
// multi-byte UTF-8 sequences count as high code points.
func isNameStart(c byte) bool {
	return isLetter(c) || c == '_' || c >= utf8.RuneSelf
}

func isNameByte(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}
