package formatter

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/gnoswap-labs/cssrules/lexer"
	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

// FormatTokens renders one token per line with its source position.
func FormatTokens(tokens []lexer.Token) string {
	var src strings.Builder
	for _, tok := range tokens {
		src.WriteString(tok.Raw)
	}
	input := src.String()

	var builder strings.Builder
	for _, tok := range tokens {
		line, col := lexer.LineCol(input, tok.Pos)
		builder.WriteString(lineStyle.Sprintf("%4d:%-4d", line, col))
		builder.WriteString(typeStyle.Sprintf("%-14s", tok.Type))
		builder.WriteString(valueStyle.Sprintf("%q", tok.Raw))
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatUnits renders the top-level units of a tree with their children
// indented below them.
func FormatUnits(units []unit.Unit) string {
	var builder strings.Builder
	for i, u := range units {
		builder.WriteString(lineStyle.Sprintf("%d: ", i))
		builder.WriteString(strings.ReplaceAll(u.String(), "\n", "\n   "))
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatValue renders a capture value as indented JSON.
func FormatValue(v any) string {
	out, err := json.MarshalIndent(Plain(v), "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}

// Plain converts a capture value into a form encoding/json accepts:
// units become their source form, undefined becomes nil, and non-finite
// numbers become strings.
func Plain(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case float64:
		switch {
		case math.IsNaN(v):
			return "NaN"
		case math.IsInf(v, 1):
			return "Infinity"
		case math.IsInf(v, -1):
			return "-Infinity"
		}
		return v
	case unit.Unit:
		return unit.Source(v)
	case []unit.Unit:
		out := make([]any, len(v))
		for i, u := range v {
			out[i] = unit.Source(u)
		}
		return out
	case matcher.Matcher:
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Plain(e)
		}
		return out
	}
	if v == matcher.Undefined {
		return nil
	}
	return v
}
