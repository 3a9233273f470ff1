package matcher

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/cssrules/unit"
)

// NoMatch is the offset returned when a matcher does not match.
const NoMatch = -1

// MaxRuleDepth bounds the nesting of rule references during one match.
const MaxRuleDepth = 10000

// Match matches m against units starting at offset start. On success it
// returns the offset after the match and delivers the captures to sink,
// which may be nil. When m does not match it returns NoMatch and sink is
// never called. A non-nil error is fatal: nothing was delivered.
func Match(units []unit.Unit, m Matcher, sink Sink, start int) (int, error) {
	e := &engine{}
	return e.run(units, m, sink, start)
}

// MatchContext is Match with a context value for CaptureContext nodes.
func MatchContext(units []unit.Unit, m Matcher, sink Sink, start int, ctx any) (int, error) {
	e := &engine{ctx: ctx, hasCtx: true}
	return e.run(units, m, sink, start)
}

type engine struct {
	ctx    any
	hasCtx bool
	depth  int // nested Ref evaluations
}

func (e *engine) run(units []unit.Unit, m Matcher, sink Sink, start int) (int, error) {
	if start < 0 || start > len(units) {
		return NoMatch, fmt.Errorf("start offset %d out of range [0, %d]", start, len(units))
	}
	end, caps, err := e.eval(units, m, start)
	if err != nil || end == NoMatch {
		return NoMatch, err
	}
	if sink != nil {
		for _, c := range caps {
			sink(c)
		}
	}
	return end, nil
}

// skip returns the offset of the first significant unit at or after pos.
func skip(units []unit.Unit, pos int) int {
	for pos < len(units) && unit.IsInsignificant(units[pos]) {
		pos++
	}
	return pos
}

// literalAt returns the literal of the given kind at the first significant
// position after pos.
func literalAt(units []unit.Unit, pos int, kind unit.Type) (*unit.Literal, int) {
	p := skip(units, pos)
	if p >= len(units) {
		return nil, p
	}
	l, ok := units[p].(*unit.Literal)
	if !ok || l.Kind != kind {
		return nil, p
	}
	return l, p
}

func (e *engine) text(units []unit.Unit, pos int, kind unit.Type, t TextMatch) (int, error) {
	l, p := literalAt(units, pos, kind)
	if l == nil {
		return NoMatch, nil
	}
	ok, err := t.Match(l.Content)
	if err != nil || !ok {
		return NoMatch, err
	}
	return p + 1, nil
}

// eval returns the offset after m matched at pos, or NoMatch, together
// with the captures m produced. Captures are only meaningful on success.
func (e *engine) eval(units []unit.Unit, m Matcher, pos int) (int, []Capture, error) {
	switch m := m.(type) {
	case *Any:
		p := skip(units, pos)
		if p >= len(units) {
			return NoMatch, nil, nil
		}
		return p + 1, nil, nil

	case *End:
		if p := skip(units, pos); p == len(units) {
			return p, nil, nil
		}
		return NoMatch, nil, nil

	case *Success:
		return pos, nil, nil

	case *Failure:
		return NoMatch, nil, nil

	case *ZeroWhitespace:
		if pos < len(units) && unit.IsInsignificant(units[pos]) {
			return NoMatch, nil, nil
		}
		return pos, nil, nil

	case *NonzeroWhitespace:
		if p := skip(units, pos); p > pos {
			return p, nil, nil
		}
		return NoMatch, nil, nil

	case *Symbol:
		l, p := literalAt(units, pos, unit.TypeSymbol)
		if l == nil || l.Content != m.Char {
			return NoMatch, nil, nil
		}
		return p + 1, nil, nil

	case *Ident:
		end, err := e.text(units, pos, unit.TypeIdent, m.Text)
		return end, nil, err

	case *Hash:
		end, err := e.text(units, pos, unit.TypeHash, m.Text)
		return end, nil, err

	case *AtIdent:
		end, err := e.text(units, pos, unit.TypeAtIdent, m.Text)
		return end, nil, err

	case *String:
		if l, p := literalAt(units, pos, unit.TypeString); l != nil {
			return p + 1, nil, nil
		}
		return NoMatch, nil, nil

	case *Number:
		p := skip(units, pos)
		if p >= len(units) {
			return NoMatch, nil, nil
		}
		n, ok := units[p].(*unit.Number)
		if !ok || !m.accepts(n.Unit) {
			return NoMatch, nil, nil
		}
		return p + 1, nil, nil

	case *UnicodeRange:
		p := skip(units, pos)
		if p >= len(units) || units[p].Type() != unit.TypeUnicodeRange {
			return NoMatch, nil, nil
		}
		return p + 1, nil, nil

	case *Sequence:
		var caps []Capture
		p := pos
		for _, item := range m.Items {
			end, c, err := e.eval(units, item, p)
			if err != nil || end == NoMatch {
				return NoMatch, nil, err
			}
			p = end
			caps = append(caps, c...)
		}
		return p, caps, nil

	case *Alternate:
		for _, opt := range m.Options {
			end, c, err := e.eval(units, opt, pos)
			if err != nil {
				return NoMatch, nil, err
			}
			if end != NoMatch {
				return end, c, nil
			}
		}
		return NoMatch, nil, nil

	case *Repeat:
		return e.repeat(units, m, pos)

	case *Subset:
		return e.subset(units, m, pos)

	case *Container:
		p := skip(units, pos)
		if p >= len(units) {
			return NoMatch, nil, nil
		}
		c, ok := units[p].(*unit.Container)
		if !ok || c.Kind != m.Type {
			return NoMatch, nil, nil
		}
		caps, ok, err := e.whole(c.Children, m.Contents)
		if err != nil || !ok {
			return NoMatch, nil, err
		}
		return p + 1, caps, nil

	case *Call:
		p := skip(units, pos)
		if p >= len(units) {
			return NoMatch, nil, nil
		}
		c, ok := units[p].(*unit.Call)
		if !ok {
			return NoMatch, nil, nil
		}
		if ok, err := m.Name.Match(c.Name); err != nil || !ok {
			return NoMatch, nil, err
		}
		caps, ok, err := e.whole(c.Params, m.Params)
		if err != nil || !ok {
			return NoMatch, nil, err
		}
		return p + 1, caps, nil

	case *CaptureConst:
		end, _, err := e.optional(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		return end, []Capture{{Value: m.Value}}, nil

	case *CaptureContext:
		if !e.hasCtx {
			return NoMatch, nil, ErrNoContext
		}
		end, _, err := e.optional(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		return end, []Capture{{Value: e.ctx}}, nil

	case *CaptureArray:
		end, caps, err := e.eval(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		return end, []Capture{{Value: values(caps)}}, nil

	case *CaptureObject:
		end, caps, err := e.eval(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		return end, []Capture{{Value: object(caps)}}, nil

	case *CaptureNamed:
		end, caps, err := e.eval(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		return end, rename(caps, m.Name), nil

	case *CaptureTransform:
		end, caps, err := e.eval(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		v, err := m.Fn(values(caps))
		if err != nil {
			return NoMatch, nil, err
		}
		return end, []Capture{{Value: v}}, nil

	case *CaptureReduce:
		end, caps, err := e.eval(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		acc := m.Seed
		for _, c := range caps {
			if acc, err = m.Fn(acc, c.Value); err != nil {
				return NoMatch, nil, err
			}
		}
		return end, []Capture{{Value: acc}}, nil

	case *CaptureUnit:
		end, _, err := e.eval(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		return end, []Capture{{Value: spanUnit(span(units, pos, end))}}, nil

	case *CaptureContent:
		end, _, err := e.eval(units, m.Inner, pos)
		if err != nil || end == NoMatch {
			return NoMatch, nil, err
		}
		return end, []Capture{{Value: spanContent(span(units, pos, end))}}, nil

	case *Placeholder:
		return NoMatch, nil, fmt.Errorf("%w: %s", ErrPlaceholder, m.Name)

	case *Ref:
		body, err := m.Set.body(m.Index)
		if err != nil {
			return NoMatch, nil, fmt.Errorf("rule %s: %w", m.Name, err)
		}
		if e.depth >= MaxRuleDepth {
			return NoMatch, nil, fmt.Errorf("%w: %s", ErrRecursionLimit, m.Name)
		}
		e.depth++
		end, caps, err := e.eval(units, body, pos)
		e.depth--
		return end, caps, err
	}
	return NoMatch, nil, fmt.Errorf("unknown matcher %T", m)
}

// optional evaluates inner, treating nil as a match of nothing.
func (e *engine) optional(units []unit.Unit, inner Matcher, pos int) (int, []Capture, error) {
	if inner == nil {
		return pos, nil, nil
	}
	return e.eval(units, inner, pos)
}

// whole matches m against the full child list of a container or call.
// Trailing whitespace after the match is allowed.
func (e *engine) whole(children []unit.Unit, m Matcher) ([]Capture, bool, error) {
	end, caps, err := e.eval(children, m, 0)
	if err != nil || end == NoMatch {
		return nil, false, err
	}
	return caps, skip(children, end) == len(children), nil
}

func (e *engine) repeat(units []unit.Unit, m *Repeat, pos int) (int, []Capture, error) {
	var caps []Capture
	p, count := pos, 0
	for m.Max == Unbounded || count < m.Max {
		end, c, err := e.eval(units, m.Inner, p)
		if err != nil {
			return NoMatch, nil, err
		}
		if end == NoMatch {
			break
		}
		if end == p {
			return NoMatch, nil, fmt.Errorf("%w: %s", ErrZeroWidthRepeat, m)
		}
		p = end
		caps = append(caps, c...)
		count++
	}
	if count < m.Min {
		return NoMatch, nil, nil
	}
	return p, caps, nil
}

// subset repeatedly takes the first remaining member that matches, until
// none does or Max members were taken.
func (e *engine) subset(units []unit.Unit, m *Subset, pos int) (int, []Capture, error) {
	remaining := append([]Matcher(nil), m.Set...)
	var caps []Capture
	p, count := pos, 0
	for len(remaining) > 0 && (m.Max == Unbounded || count < m.Max) {
		taken := -1
		for i, member := range remaining {
			end, c, err := e.eval(units, member, p)
			if err != nil {
				return NoMatch, nil, err
			}
			if end != NoMatch {
				p = end
				caps = append(caps, c...)
				taken = i
				break
			}
		}
		if taken < 0 {
			break
		}
		remaining = append(remaining[:taken], remaining[taken+1:]...)
		count++
	}
	if count < m.Min {
		return NoMatch, nil, nil
	}
	return p, caps, nil
}

// span returns the units consumed between pos and end, without the
// whitespace leading the match.
func span(units []unit.Unit, pos, end int) []unit.Unit {
	from := skip(units, pos)
	if from >= end {
		return nil
	}
	return units[from:end]
}

func (m *Number) accepts(u string) bool {
	if m.AnyUnit {
		return true
	}
	if m.Units == nil {
		return u == NoUnit
	}
	for _, want := range m.Units {
		if strings.EqualFold(want, u) {
			return true
		}
	}
	return false
}
