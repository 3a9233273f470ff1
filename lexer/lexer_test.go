package lexer

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strip drops source bookkeeping so expectations stay readable.
func strip(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		tok.Raw = ""
		tok.Pos = 0
		out[i] = tok
	}
	return out
}

func ident(s string) Token { return Token{Type: TokenIdent, Content: s} }
func ws(s string) Token { return Token{Type: TokenWhitespace, Content: s} }
func sym(s string) Token { return Token{Type: TokenSymbol, Content: s} }
func call(s string) Token { return Token{Type: TokenCallOpen, Content: s} }
func str(s string) Token { return Token{Type: TokenString, Content: s} }
func num(v float64) Token { return Token{Type: TokenNumber, Value: v} }
func dim(v float64, u string) Token {
	return Token{Type: TokenNumber, Value: v, Unit: u}
}

func TestLex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "whitespace run",
			input:    " \r\n \t \f \r \n ",
			expected: []Token{ws(" \r\n \t \f \r \n ")},
		},
		{
			name:     "simple comment",
			input:    "/* bla bla */",
			expected: []Token{{Type: TokenComment, Content: " bla bla "}},
		},
		{
			name:  "comments do not nest",
			input: "/* nested /* comments are */ not supported */",
			expected: []Token{
				{Type: TokenComment, Content: " nested /* comments are "},
				ws(" "), ident("not"), ws(" "), ident("supported"), ws(" "),
				sym("*"), sym("/"),
			},
		},
		{
			name:     "simple identifier",
			input:    "an_identifier-123e9",
			expected: []Token{ident("an_identifier-123e9")},
		},
		{
			name:     "single dash identifier",
			input:    "-single-dash-identifier",
			expected: []Token{ident("-single-dash-identifier")},
		},
		{
			name:     "double dash identifier",
			input:    "--1-double-dash-identifier",
			expected: []Token{ident("--1-double-dash-identifier")},
		},
		{
			name:     "escaped space identifier",
			input:    ` \  `,
			expected: []Token{ws(" "), ident(" "), ws(" ")},
		},
		{
			name:     "hex escapes",
			input:    `\4F \00004B3`,
			expected: []Token{ident("OK3")},
		},
		{
			name:     "high code points",
			input:    "héllo",
			expected: []Token{ident("héllo")},
		},
		{
			name:     "call open",
			input:    "an_identifier-123e9()",
			expected: []Token{call("an_identifier-123e9"), sym(")")},
		},
		{
			name:     "escaped call open",
			input:    `\4F \00004B3()`,
			expected: []Token{call("OK3"), sym(")")},
		},
		{
			name:     "identifier then space is not a call",
			input:    "a (",
			expected: []Token{ident("a"), ws(" "), sym("(")},
		},
		{
			name:     "at identifier",
			input:    "@--1-double-dash-identifier",
			expected: []Token{{Type: TokenAtIdent, Content: "--1-double-dash-identifier"}},
		},
		{
			name:     "escaped at identifier",
			input:    `@\4F \00004B3`,
			expected: []Token{{Type: TokenAtIdent, Content: "OK3"}},
		},
		{
			name:     "lone at sign",
			input:    "@ 1",
			expected: []Token{sym("@"), ws(" "), num(1)},
		},
		{
			name:     "hash may begin with a digit",
			input:    "#1-digit-begins",
			expected: []Token{{Type: TokenHash, Content: "1-digit-begins"}},
		},
		{
			name:     "lone hash",
			input:    "# x",
			expected: []Token{sym("#"), ws(" "), ident("x")},
		},
		{
			name:     "plain numbers",
			input:    "100 0.5 -.25",
			expected: []Token{num(100), ws(" "), num(0.5), ws(" "), num(-.25)},
		},
		{
			name:     "scientific notation",
			input:    "1e3 1E5 -1e+2 1E-5",
			expected: []Token{num(1e3), ws(" "), num(1e5), ws(" "), num(-1e2), ws(" "), num(1e-5)},
		},
		{
			name:  "dimensions and percentages",
			input: "3px -11% 2.5e 45deg 1e3e3",
			expected: []Token{
				dim(3, "px"), ws(" "), dim(-11, "%"), ws(" "), dim(2.5, "e"), ws(" "),
				dim(45, "deg"), ws(" "), dim(1e3, "e3"),
			},
		},
		{
			name:     "escaped unit",
			input:    `10p\78`,
			expected: []Token{dim(10, "px")},
		},
		{
			name:     "signs without digits are symbols",
			input:    "+ - .",
			expected: []Token{sym("+"), ws(" "), sym("-"), ws(" "), sym(".")},
		},
		{
			name:     "double quoted string",
			input:    `"blah"`,
			expected: []Token{str("blah")},
		},
		{
			name:     "double quoted escapes",
			input:    `"\"\\\4F \00004B3` + "\\\r\n" + `"`,
			expected: []Token{str(`"\OK3`)},
		},
		{
			name:     "single quoted escapes",
			input:    `'\'\\\4F \00004B3` + "\\\n" + `'`,
			expected: []Token{str(`'\OK3`)},
		},
		{
			name:     "unquoted url",
			input:    "url(  http://x.y/z?q=1  )",
			expected: []Token{{Type: TokenURL, Content: "http://x.y/z?q=1"}},
		},
		{
			name:     "escaped url letters",
			input:    `\55 R\l(a.png)`,
			expected: []Token{{Type: TokenURL, Content: "a.png"}},
		},
		{
			name:     "quoted url is a call",
			input:    `url("a.png")`,
			expected: []Token{call("url"), str("a.png"), sym(")")},
		},
		{
			name:     "unicode range",
			input:    "U+26 u+0-7F",
			expected: []Token{
				{Type: TokenUnicodeRange, From: 0x26, To: 0x26}, ws(" "),
				{Type: TokenUnicodeRange, From: 0, To: 0x7f},
			},
		},
		{
			name:     "unicode range wildcard",
			input:    "U+3??",
			expected: []Token{{Type: TokenUnicodeRange, From: 0x300, To: 0x3ff}},
		},
		{
			name:     "unicode range full wildcard",
			input:    "U+??????",
			expected: []Token{{Type: TokenUnicodeRange, From: 0, To: 0x10FFFF}},
		},
		{
			name:     "u without range is an identifier",
			input:    "u+x",
			expected: []Token{ident("u"), sym("+"), ident("x")},
		},
		{
			name:  "selector",
			input: `div.foo>#bar[data-x~="y" i]`,
			expected: []Token{
				ident("div"), sym("."), ident("foo"), sym(">"), {Type: TokenHash, Content: "bar"},
				sym("["), ident("data-x"), sym("~"), sym("="), str("y"), ws(" "), ident("i"), sym("]"),
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tokens, err := Lex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strip(tokens))
		})
	}
}

func TestLexErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unterminated comment", "/* open", "unterminated comment"},
		{"unterminated double string", `"`, "unterminated string"},
		{"unterminated single string", `'`, "unterminated string"},
		{"newline in string", "\"string\r\n\"", "unterminated string"},
		{"newline in single string", "'string\n'", "unterminated string"},
		{"backslash at end of string", `"abc\`, "unterminated string"},
		{"escape out of range", `\110000`, "unicode escape out of range"},
		{"escape out of range in string", `"\FFFFFF"`, "unicode escape out of range"},
		{"backslash at end", `a \`, "invalid escape"},
		{"backslash before newline", "\\\n", "invalid escape"},
		{"wildcard with range", "U+1?-2", "wildcard"},
		{"range endpoint too large", "U+110000", "out of range"},
		{"wildcard endpoint too large", "U+11????", "out of range"},
		{"inverted range", "U+20-10", "inverted"},
		{"too many digits", "U+1234567", "more than 6 digits"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Lex(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLexRawRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"a b\tc\n/* x */ d(e) [f] {g}",
		`\4F \00004B3 "str\"ing" 'x\
y' url( a.png ) @media #id 1.5e3px -3% U+4??`,
		"--custom-prop: calc(100% - 2 * var(--gap));",
	}
	for _, input := range inputs {
		tokens, err := Lex(input)
		require.NoError(t, err)

		var sb strings.Builder
		for _, tok := range tokens {
			sb.WriteString(tok.Raw)
		}
		assert.Equal(t, input, sb.String())
	}
}

func TestContentRoundTrip(t *testing.T) {
	t.Parallel()
	// whitespace, identifiers and symbols preserve their content verbatim
	input := "div > p + a ~ span , li:hover"
	tokens, err := Lex(input)
	require.NoError(t, err)

	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Content)
	}
	assert.Equal(t, input, sb.String())
}

func TestNextEOF(t *testing.T) {
	t.Parallel()
	l := New("a")
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenIdent, tok.Type)
	assert.Equal(t, 0, tok.Pos)

	_, err = l.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSyntaxErrorPosition(t *testing.T) {
	t.Parallel()
	_, err := Lex("a\nbc \"open")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, 4, se.Col)
	assert.Equal(t, "line 2 col 4: unterminated string", se.Error())
}
