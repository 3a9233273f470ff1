package rules

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

// ruleDef is one "name: pattern" declaration before resolution.
type ruleDef struct {
	name string
	body matcher.Matcher
}

// quantifier is a parsed postfix repetition suffix.
type quantifier struct {
	min, max int
}

// bootstrap is the rule-definition language written as a matcher tree.
// Matching it against rule source yields matcher fragments directly: the
// transform nodes below build them while the source is being parsed.
//
//	document   := (rule (';' rule)* ';'?)? end
//	rule       := identifier ':' pattern
//	pattern    := seq ('|' seq)*
//	seq        := term+
//	term       := atom (ZERO_WHITESPACE quantifier)*
//	atom       := identifier | string | '(' pattern? ')' | call
//	quantifier := '?' | '*' | '+' | '{' m (',' n?)? '}'
type bootstrapGrammar struct {
	set      *matcher.RuleSet
	document matcher.Matcher
	rule     matcher.Matcher
	pattern  matcher.Matcher
}

var bootstrap = newBootstrap()

func newBootstrap() *bootstrapGrammar {
	set := matcher.NewRuleSet("document", "rule", "pattern", "seq", "term", "atom", "quantifier")
	ref := func(name string) *matcher.Ref {
		r, _ := set.Ref(name)
		return r
	}
	define := func(name string, body matcher.Matcher) {
		i, _ := set.Lookup(name)
		set.Define(i, body)
	}
	star := func(inner matcher.Matcher) matcher.Matcher {
		return &matcher.Repeat{Inner: inner, Max: matcher.Unbounded}
	}
	seq := func(items ...matcher.Matcher) matcher.Matcher {
		return &matcher.Sequence{Items: items}
	}

	define("document", seq(
		&matcher.Repeat{Inner: seq(
			ref("rule"),
			star(seq(&matcher.Symbol{Char: ";"}, ref("rule"))),
			&matcher.Repeat{Inner: &matcher.Symbol{Char: ";"}, Max: 1},
		), Max: 1},
		&matcher.End{},
	))

	define("rule", &matcher.CaptureTransform{
		Inner: seq(&matcher.CaptureContent{Inner: &matcher.Ident{}}, &matcher.Symbol{Char: ":"}, ref("pattern")),
		Fn: func(vs []any) (any, error) {
			return ruleDef{name: vs[0].(string), body: vs[1].(matcher.Matcher)}, nil
		},
	})

	define("pattern", &matcher.CaptureTransform{
		Inner: seq(ref("seq"), star(seq(&matcher.Symbol{Char: "|"}, ref("seq")))),
		Fn: func(vs []any) (any, error) {
			if len(vs) == 1 {
				return vs[0], nil
			}
			return &matcher.Alternate{Options: matchers(vs)}, nil
		},
	})

	define("seq", &matcher.CaptureTransform{
		Inner: &matcher.Repeat{Inner: ref("term"), Min: 1, Max: matcher.Unbounded},
		Fn: func(vs []any) (any, error) {
			if len(vs) == 1 {
				return vs[0], nil
			}
			return &matcher.Sequence{Items: matchers(vs)}, nil
		},
	})

	define("term", &matcher.CaptureTransform{
		Inner: seq(ref("atom"), star(seq(&matcher.ZeroWhitespace{}, ref("quantifier")))),
		Fn: func(vs []any) (any, error) {
			result := vs[0].(matcher.Matcher)
			for _, v := range vs[1:] {
				q := v.(quantifier)
				result = &matcher.Repeat{Inner: result, Min: q.min, Max: q.max}
			}
			return result, nil
		},
	})

	define("atom", &matcher.Alternate{Options: []matcher.Matcher{
		&matcher.CaptureTransform{
			Inner: &matcher.CaptureContent{Inner: &matcher.Ident{}},
			Fn: func(vs []any) (any, error) {
				return &matcher.Placeholder{Name: vs[0].(string)}, nil
			},
		},
		&matcher.CaptureTransform{
			Inner: &matcher.CaptureUnit{Inner: &matcher.String{}},
			Fn: func(vs []any) (any, error) {
				return literal(vs[0].(*unit.Literal).Content)
			},
		},
		&matcher.Container{Type: unit.TypeRound, Contents: &matcher.Alternate{Options: []matcher.Matcher{
			ref("pattern"),
			&matcher.CaptureConst{Value: matcher.Matcher(&matcher.Success{})},
		}}},
		&matcher.CaptureTransform{
			Inner: seq(&matcher.CaptureContext{}, &matcher.CaptureUnit{Inner: &matcher.Call{Params: star(&matcher.Any{})}}),
			Fn: func(vs []any) (any, error) {
				return vs[0].(*Compiler).call(vs[1].(*unit.Call))
			},
		},
	}})

	define("quantifier", &matcher.Alternate{Options: []matcher.Matcher{
		&matcher.CaptureConst{Value: quantifier{0, 1}, Inner: &matcher.Symbol{Char: "?"}},
		&matcher.CaptureConst{Value: quantifier{0, matcher.Unbounded}, Inner: &matcher.Symbol{Char: "*"}},
		&matcher.CaptureConst{Value: quantifier{1, matcher.Unbounded}, Inner: &matcher.Symbol{Char: "+"}},
		&matcher.CaptureTransform{
			Inner: &matcher.CaptureUnit{Inner: &matcher.Container{Type: unit.TypeCurly, Contents: star(&matcher.Any{})}},
			Fn: func(vs []any) (any, error) {
				return parseBounds(vs[0].(*unit.Container).Children)
			},
		},
	}})

	return &bootstrapGrammar{
		set:      set,
		document: ref("document"),
		rule:     seq(ref("rule"), &matcher.End{}),
		pattern:  seq(ref("pattern"), &matcher.End{}),
	}
}

func matchers(vs []any) []matcher.Matcher {
	out := make([]matcher.Matcher, len(vs))
	for i, v := range vs {
		out[i] = v.(matcher.Matcher)
	}
	return out
}

// literal compiles a quoted literal: one symbol per character, adjacent.
func literal(s string) (matcher.Matcher, error) {
	chars := strings.Split(s, "")
	switch len(chars) {
	case 0:
		return nil, fmt.Errorf("%w: empty literal", ErrInvalidRule)
	case 1:
		return &matcher.Symbol{Char: chars[0]}, nil
	}
	items := make([]matcher.Matcher, 0, 2*len(chars)-1)
	for i, c := range chars {
		if i > 0 {
			items = append(items, &matcher.ZeroWhitespace{})
		}
		items = append(items, &matcher.Symbol{Char: c})
	}
	return &matcher.Sequence{Items: items}, nil
}

// parseBounds parses the content of a {m}, {m,} or {m,n} quantifier.
func parseBounds(children []unit.Unit) (quantifier, error) {
	var parts []unit.Unit
	for _, u := range children {
		if !unit.IsInsignificant(u) {
			parts = append(parts, u)
		}
	}
	bad := func() (quantifier, error) {
		return quantifier{}, fmt.Errorf("%w: {%s}", ErrMalformedQuantifier, unit.JoinText(children))
	}

	if len(parts) == 0 || len(parts) > 3 {
		return bad()
	}
	lo, ok := count(parts[0])
	if !ok {
		return bad()
	}
	if len(parts) == 1 {
		return quantifier{lo, lo}, nil
	}
	if sep, ok := parts[1].(*unit.Literal); !ok || sep.Kind != unit.TypeSymbol || sep.Content != "," {
		return bad()
	}
	if len(parts) == 2 {
		return quantifier{lo, matcher.Unbounded}, nil
	}
	hi, ok := count(parts[2])
	if !ok || hi < lo {
		return bad()
	}
	return quantifier{lo, hi}, nil
}

// count reads a non-negative integer without unit.
func count(u unit.Unit) (int, bool) {
	n, ok := u.(*unit.Number)
	if !ok || n.Unit != "" || n.Value < 0 || n.Value != float64(int(n.Value)) {
		return 0, false
	}
	return int(n.Value), true
}
