package matcher

import (
	"errors"
	"strings"

	"github.com/gnoswap-labs/cssrules/unit"
)

var (
	// ErrZeroWidthRepeat is returned when a repetition matches without
	// consuming any unit, which would loop forever.
	ErrZeroWidthRepeat = errors.New("repetition matched without consuming input")

	// ErrPlaceholder is returned when an unresolved placeholder is matched.
	ErrPlaceholder = errors.New("unresolved placeholder")

	// ErrNoContext is returned when a context capture runs without a
	// context value.
	ErrNoContext = errors.New("no context value supplied")

	// ErrRecursionLimit is returned when rule references nest deeper than
	// MaxRuleDepth, as with a left-recursive rule.
	ErrRecursionLimit = errors.New("rule recursion too deep")
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the capture value for an absent value, distinct from nil.
var Undefined any = undefined{}

// Capture is one value emitted by a successful match. Name is empty for a
// positional value.
type Capture struct {
	Name  string
	Value any
}

// Sink receives the captures of a successful top-level match, in order.
type Sink func(Capture)

func values(caps []Capture) []any {
	out := make([]any, len(caps))
	for i, c := range caps {
		out[i] = c.Value
	}
	return out
}

func object(caps []Capture) map[string]any {
	out := make(map[string]any)
	for _, c := range caps {
		if c.Name != "" {
			out[c.Name] = c.Value
		}
	}
	return out
}

func rename(caps []Capture, name string) []Capture {
	out := make([]Capture, len(caps))
	for i, c := range caps {
		out[i] = Capture{Name: name, Value: c.Value}
	}
	return out
}

// spanUnit is the value of CaptureUnit for units[from:to].
func spanUnit(span []unit.Unit) any {
	switch len(span) {
	case 0:
		return nil
	case 1:
		return span[0]
	}
	return append([]unit.Unit(nil), span...)
}

// spanContent is the value of CaptureContent for a span. Comments inside
// the span do not contribute text.
func spanContent(span []unit.Unit) any {
	switch len(span) {
	case 0:
		return nil
	case 1:
		if n, ok := span[0].(*unit.Number); ok {
			return n.Value
		}
		return unit.Text(span[0])
	}
	var sb strings.Builder
	for _, u := range span {
		if u.Type() == unit.TypeComment {
			continue
		}
		sb.WriteString(unit.Text(u))
	}
	return sb.String()
}
