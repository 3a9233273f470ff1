package lexer

import (
	"fmt"
	"strconv"
)

// TokenType defines the type of a token
type TokenType int

const (
	TokenComment      TokenType = iota // /* ... */
	TokenWhitespace                    // run of space, tab, CR, LF, FF
	TokenString                        // "..." or '...'
	TokenIdent                         // CSS identifier
	TokenAtIdent                       // @ident
	TokenHash                          // #name
	TokenSymbol                        // any other single character
	TokenCallOpen                      // ident immediately followed by '('
	TokenURL                           // unquoted url(...)
	TokenNumber                        // number, percentage or dimension
	TokenUnicodeRange                  // U+XXXX, U+X??, U+XXXX-YYYY
)

func (t TokenType) String() string {
	switch t {
	case TokenComment:
		return "comment"
	case TokenWhitespace:
		return "whitespace"
	case TokenString:
		return "string"
	case TokenIdent:
		return "identifier"
	case TokenAtIdent:
		return "at-identifier"
	case TokenHash:
		return "hash"
	case TokenSymbol:
		return "symbol"
	case TokenCallOpen:
		return "call-open"
	case TokenURL:
		return "url"
	case TokenNumber:
		return "number"
	case TokenUnicodeRange:
		return "unicode-range"
	default:
		return "unknown"
	}
}

// Token represents a single lexical token.
//
// Content holds the decoded text of content tokens: comments without their
// delimiters, strings without quotes, hashes and at-identifiers without
// their sigil, call-open tokens without the trailing '('.
// Number tokens use Value and Unit instead ("" is a unitless number, "%" a
// percentage). Unicode-range tokens use From and To, both inclusive.
type Token struct {
	Type    TokenType
	Content string
	Value   float64
	Unit    string
	From    rune
	To      rune
	Raw     string // exact source text of the token
	Pos     int    // byte offset of the token in the input
}

func (t Token) String() string {
	switch t.Type {
	case TokenNumber:
		if t.Unit != "" {
			return fmt.Sprintf("%s(%s %q)", t.Type, FormatNumber(t.Value), t.Unit)
		}
		return fmt.Sprintf("%s(%s)", t.Type, FormatNumber(t.Value))
	case TokenUnicodeRange:
		return fmt.Sprintf("%s(%U-%U)", t.Type, t.From, t.To)
	default:
		return fmt.Sprintf("%s(%q)", t.Type, t.Content)
	}
}

// FormatNumber renders a number token value in its shortest form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
