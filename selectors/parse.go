package selectors

import (
	"errors"
	"fmt"

	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

// ErrInvalidSelector is returned for text the selector grammar rejects.
var ErrInvalidSelector = errors.New("invalid selector")

// Parse parses a comma-separated selector list.
func Parse(text string) ([]Selector, error) {
	v, err := run("selectors", text)
	if err != nil {
		return nil, err
	}
	items, err := list(v)
	if err != nil {
		return nil, err
	}
	out := make([]Selector, 0, len(items))
	for _, item := range items {
		s, err := decodeSelector(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseRelative parses a comma-separated list of relative selectors, as
// used by :has(). A selector without a leading combinator starts with
// Descendant.
func ParseRelative(text string) ([][]Step, error) {
	v, err := run("relative-selectors", text)
	if err != nil {
		return nil, err
	}
	items, err := list(v)
	if err != nil {
		return nil, err
	}
	out := make([][]Step, 0, len(items))
	for _, item := range items {
		steps, err := decodeSteps(item)
		if err != nil {
			return nil, err
		}
		out = append(out, steps)
	}
	return out, nil
}

// run matches the whole of text against the named rule and returns its
// single capture.
func run(rule, text string) (any, error) {
	g, err := Grammar()
	if err != nil {
		return nil, err
	}
	units, err := unit.Parse(text, unit.Options{})
	if err != nil {
		return nil, err
	}
	ref, _ := g.Rule(rule)

	var result any
	end, err := matcher.Match(units, &matcher.Sequence{Items: []matcher.Matcher{ref, &matcher.End{}}}, func(c matcher.Capture) {
		result = c.Value
	}, 0)
	if err != nil {
		return nil, err
	}
	if end == matcher.NoMatch {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSelector, text)
	}
	return result, nil
}

func list(v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected capture %T, want list", v)
	}
	return items, nil
}

func object(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected capture %T, want object", v)
	}
	return obj, nil
}

func decodeSelector(v any) (Selector, error) {
	obj, err := object(v)
	if err != nil {
		return Selector{}, err
	}
	var s Selector
	if s.Initial, err = decodeClauses(obj["initial"]); err != nil {
		return Selector{}, err
	}
	if sub, ok := obj["subsequent"]; ok {
		if s.Subsequent, err = decodeSteps(sub); err != nil {
			return Selector{}, err
		}
	}
	return s, nil
}

func decodeSteps(v any) ([]Step, error) {
	items, err := list(v)
	if err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(items))
	for _, item := range items {
		obj, err := object(item)
		if err != nil {
			return nil, err
		}
		comb, _ := obj["combinator"].(string)
		clauses, err := decodeClauses(obj["clauses"])
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Combinator: Combinator(comb), Clauses: clauses})
	}
	return steps, nil
}

func decodeClauses(v any) ([]Clause, error) {
	items, err := list(v)
	if err != nil {
		return nil, err
	}
	clauses := make([]Clause, 0, len(items))
	for _, item := range items {
		obj, err := object(item)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, decodeClause(obj))
	}
	return clauses, nil
}

func decodeClause(obj map[string]any) Clause {
	c := Clause{Type: ClauseType(str(obj["type"]))}

	switch name := obj["name"].(type) {
	case string:
		c.Name = name
	case bool:
		c.Universal = name
	}
	switch ns := obj["namespace"].(type) {
	case string:
		c.Namespace = &Namespace{Name: ns}
	case bool:
		c.Namespace = &Namespace{Any: ns}
	}

	c.ID = str(obj["id"])
	c.ClassName = str(obj["className"])
	c.Operator = Operator(str(obj["operator"]))
	c.Value = str(obj["value"])
	if cs, ok := obj["caseSensitive"].(bool); ok {
		c.CaseSensitive = &cs
	}
	if fn, ok := obj["function"].(*unit.Call); ok {
		c.Function = fn
	}
	return c
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
