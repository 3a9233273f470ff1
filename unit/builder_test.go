package unit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/cssrules/lexer"
)

func lit(kind Type, s string) *Literal { return &Literal{Kind: kind, Content: s} }

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		opts     Options
		expected []Unit
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:  "flat",
			input: "a 1px",
			expected: []Unit{
				lit(TypeIdent, "a"), lit(TypeWhitespace, " "), &Number{Value: 1, Unit: "px"},
			},
		},
		{
			name:  "nested containers",
			input: "([{x}])",
			expected: []Unit{
				&Container{Kind: TypeRound, Children: []Unit{
					&Container{Kind: TypeSquare, Children: []Unit{
						&Container{Kind: TypeCurly, Children: []Unit{lit(TypeIdent, "x")}},
					}},
				}},
			},
		},
		{
			name:  "call with params",
			input: "rgb(1,2)",
			expected: []Unit{
				&Call{Name: "rgb", Params: []Unit{
					&Number{Value: 1}, lit(TypeSymbol, ","), &Number{Value: 2},
				}},
			},
		},
		{
			name:     "empty call",
			input:    "f()",
			expected: []Unit{&Call{Name: "f"}},
		},
		{
			name:  "unquoted url becomes a call",
			input: "url(a.png)",
			expected: []Unit{
				&Call{Name: "url", Params: []Unit{lit(TypeString, "a.png")}},
			},
		},
		{
			name:  "quoted url is the same call",
			input: `url("a.png")`,
			expected: []Unit{
				&Call{Name: "url", Params: []Unit{lit(TypeString, "a.png")}},
			},
		},
		{
			name:  "comments and whitespace kept",
			input: "a /*c*/ b",
			expected: []Unit{
				lit(TypeIdent, "a"), lit(TypeWhitespace, " "), lit(TypeComment, "c"),
				lit(TypeWhitespace, " "), lit(TypeIdent, "b"),
			},
		},
		{
			name:  "whitespace dropped",
			input: "a /*c*/ b",
			opts:  Options{IgnoreWhitespace: true},
			expected: []Unit{
				lit(TypeIdent, "a"), lit(TypeComment, "c"), lit(TypeIdent, "b"),
			},
		},
		{
			name:  "comments dropped",
			input: "a /*c*/ b",
			opts:  Options{IgnoreComments: true},
			expected: []Unit{
				lit(TypeIdent, "a"), lit(TypeWhitespace, " "), lit(TypeWhitespace, " "), lit(TypeIdent, "b"),
			},
		},
		{
			name:  "unicode range",
			input: "U+4??",
			expected: []Unit{
				&Range{From: 0x400, To: 0x4ff},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			units, err := Parse(tt.input, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, units)
		})
	}
}

func TestParseUnbalanced(t *testing.T) {
	t.Parallel()
	inputs := []string{")", "(", "]", "[", "}", "{", "a(", "(]", "f(}", "[)", "{(})", "(()"}
	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			units, err := Parse(input, Options{})
			require.Error(t, err)
			assert.Nil(t, units)
			assert.True(t, errors.Is(err, lexer.ErrSyntax))
		})
	}
}

func TestBuildMatchesParse(t *testing.T) {
	t.Parallel()
	input := `div:not(.a, [b="c"]) > {x: url( y.png )}`
	tokens, err := lexer.Lex(input)
	require.NoError(t, err)

	built, err := Build(tokens, Options{IgnoreWhitespace: true})
	require.NoError(t, err)
	parsed, err := Parse(input, Options{IgnoreWhitespace: true})
	require.NoError(t, err)
	assert.Equal(t, parsed, built)
}

func TestBuildErrorPosition(t *testing.T) {
	t.Parallel()
	tokens, err := lexer.Lex("a\n  b)")
	require.NoError(t, err)

	_, err = Build(tokens, Options{})
	var se *lexer.SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, 4, se.Col)
}

func TestText(t *testing.T) {
	t.Parallel()
	units, err := Parse(`f(a "b" 2px) [c] U+26`, Options{})
	require.NoError(t, err)

	assert.Equal(t, `a b 2px`, Text(units[0]))
	assert.Equal(t, "c", Text(units[2]))
	assert.Equal(t, "U+26", Text(units[4]))
	assert.Equal(t, `a b 2px c U+26`, JoinText(units))
}

func TestString(t *testing.T) {
	t.Parallel()
	units, err := Parse("f(1 x)", Options{})
	require.NoError(t, err)
	expected := "call \"f\"(3 children):\n  0: number(1)\n  1: whitespace(\" \")\n  2: identifier(\"x\")"
	assert.Equal(t, expected, units[0].String())
}

func TestSource(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{":not(.x)", ":not(.x)"},
		{"(a b)", "(a b)"},
		{"[x]", "[x]"},
		{"{a: 1px}", "{a: 1px}"},
		{`f("a\"b", #c @d)`, `f("a\"b", #c @d)`},
		{"url( y.png )", `url("y.png")`},
		{"a/*c*/", "a/*c*/"},
		{"U+4??", "U+400-4FF"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			units, err := Parse(tt.input, Options{})
			require.NoError(t, err)
			var got string
			for _, u := range units {
				got += Source(u)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
