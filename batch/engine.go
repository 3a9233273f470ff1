package batch

import (
	"errors"
	"fmt"
	"os"

	"github.com/gnoswap-labs/cssrules/formatter"
	tt "github.com/gnoswap-labs/cssrules/internal/types"
	"github.com/gnoswap-labs/cssrules/lexer"
	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/rules"
	"github.com/gnoswap-labs/cssrules/unit"
)

// Matcher matches inputs against one grammar rule.
type Matcher interface {
	Run(filename string) (tt.Result, error)
	RunSource(name string, source []byte) (tt.Result, error)
}

var _ Matcher = (*Engine)(nil)

// Engine matches inputs against one rule of a compiled grammar. It is safe
// for concurrent use.
type Engine struct {
	grammar *rules.Grammar
	rule    string
	opts    unit.Options
}

// New returns an Engine for rule. An empty rule selects the grammar entry.
func New(grammar *rules.Grammar, rule string, opts unit.Options) (*Engine, error) {
	if rule == "" {
		rule = grammar.Entry
	}
	if _, ok := grammar.Rule(rule); !ok {
		return nil, fmt.Errorf("%w: no rule %q", rules.ErrUnresolved, rule)
	}
	return &Engine{grammar: grammar, rule: rule, opts: opts}, nil
}

// NewFromFile loads a grammar file and returns an Engine for rule.
func NewFromFile(path, rule string, opts unit.Options) (*Engine, error) {
	grammar, err := rules.LoadFile(path, rules.Options{})
	if err != nil {
		return nil, err
	}
	return New(grammar, rule, opts)
}

// Rule returns the name of the rule inputs are matched against.
func (e *Engine) Rule() string {
	return e.rule
}

// Run reads filename and matches its content.
func (e *Engine) Run(filename string) (tt.Result, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return tt.Result{Filename: filename, Rule: e.rule, End: matcher.NoMatch}, err
	}
	return e.RunSource(filename, source)
}

// RunSource matches source, reporting rejected input as issues. The
// returned error is reserved for failures of the grammar itself.
func (e *Engine) RunSource(name string, source []byte) (tt.Result, error) {
	input := string(source)
	res := tt.Result{Filename: name, Rule: e.rule, End: matcher.NoMatch}

	units, err := unit.Parse(input, e.opts)
	if err != nil {
		var se *lexer.SyntaxError
		if errors.As(err, &se) {
			res.Issues = append(res.Issues, e.issue(formatter.SyntaxError, name,
				tt.Position{Offset: se.Offset, Line: se.Line, Column: se.Col},
				position(input, se.Offset+1), se.Msg))
			return res, nil
		}
		return res, err
	}
	res.Units = len(units)

	var caps []tt.Capture
	sink := func(c matcher.Capture) {
		caps = append(caps, tt.Capture{Name: c.Name, Value: c.Value})
	}
	end, err := e.grammar.Match(e.rule, units, sink, 0)
	if err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}
	res.End = end

	spans, err := unitSpans(input, e.opts)
	if err != nil {
		return res, err
	}

	if end == matcher.NoMatch {
		s := firstSignificant(units, spans, 0, len(input))
		res.Issues = append(res.Issues, e.issue(formatter.NoMatch, name,
			position(input, s.start), position(input, s.end),
			fmt.Sprintf("input does not match rule %s", e.rule)))
		return res, nil
	}
	if significant(units[end:]) > 0 {
		s := firstSignificant(units, spans, end, len(input))
		res.Issues = append(res.Issues, e.issue(formatter.IncompleteMatch, name,
			position(input, s.start), position(input, s.end),
			fmt.Sprintf("rule %s matched %d of %d units", e.rule, end, len(units))))
		return res, nil
	}

	res.Captures = caps
	return res, nil
}

func (e *Engine) issue(kind, name string, start, end tt.Position, msg string) tt.Issue {
	return tt.Issue{
		Kind:     kind,
		Rule:     e.rule,
		Filename: name,
		Severity: tt.SeverityError,
		Start:    start,
		End:      end,
		Message:  msg,
	}
}

func significant(units []unit.Unit) int {
	n := 0
	for _, u := range units {
		if !unit.IsInsignificant(u) {
			n++
		}
	}
	return n
}

// firstSignificant returns the span of the first significant unit at or
// after index from, or an empty span at the end of the input.
func firstSignificant(units []unit.Unit, spans []span, from, size int) span {
	for i := from; i < len(units) && i < len(spans); i++ {
		if !unit.IsInsignificant(units[i]) {
			return spans[i]
		}
	}
	return span{start: size, end: size}
}

func position(input string, offset int) tt.Position {
	if offset > len(input) {
		offset = len(input)
	}
	line, col := lexer.LineCol(input, offset)
	return tt.Position{Offset: offset, Line: line, Column: col}
}
