package batch

import (
	"github.com/gnoswap-labs/cssrules/lexer"
	"github.com/gnoswap-labs/cssrules/unit"
)

// span is the byte range of one top-level unit.
type span struct {
	start, end int
}

// unitSpans returns the source range of every top-level unit that
// unit.Parse builds from input with the same options.
func unitSpans(input string, opts unit.Options) ([]span, error) {
	tokens, err := lexer.Lex(input)
	if err != nil {
		return nil, err
	}

	var spans []span
	depth := 0
	for _, tok := range tokens {
		end := tok.Pos + len(tok.Raw)
		switch {
		case opens(tok):
			if depth == 0 {
				spans = append(spans, span{start: tok.Pos})
			}
			depth++
		case closes(tok):
			depth--
			if depth == 0 && len(spans) > 0 {
				spans[len(spans)-1].end = end
			}
		case depth > 0:
		case tok.Type == lexer.TokenWhitespace && opts.IgnoreWhitespace:
		case tok.Type == lexer.TokenComment && opts.IgnoreComments:
		default:
			spans = append(spans, span{start: tok.Pos, end: end})
		}
	}
	return spans, nil
}

func opens(tok lexer.Token) bool {
	if tok.Type == lexer.TokenCallOpen {
		return true
	}
	return tok.Type == lexer.TokenSymbol && (tok.Content == "(" || tok.Content == "[" || tok.Content == "{")
}

func closes(tok lexer.Token) bool {
	return tok.Type == lexer.TokenSymbol && (tok.Content == ")" || tok.Content == "]" || tok.Content == "}")
}
