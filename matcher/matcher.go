package matcher

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/cssrules/unit"
)

// Unbounded is the Max of a Repeat or Subset without an upper limit.
const Unbounded = -1

// NoUnit stands for a unitless number in Number.Units.
const NoUnit = ""

// Matcher is one node of a pattern-description tree. The set of
// implementations is closed; Match dispatches over all of them.
// Matcher trees are immutable once built and may be shared freely.
type Matcher interface {
	String() string // rule-language-like rendering, for debugging
	matcher()
}

var (
	_ Matcher = (*Any)(nil)
	_ Matcher = (*End)(nil)
	_ Matcher = (*Success)(nil)
	_ Matcher = (*Failure)(nil)
	_ Matcher = (*ZeroWhitespace)(nil)
	_ Matcher = (*NonzeroWhitespace)(nil)
	_ Matcher = (*Symbol)(nil)
	_ Matcher = (*Ident)(nil)
	_ Matcher = (*Hash)(nil)
	_ Matcher = (*AtIdent)(nil)
	_ Matcher = (*String)(nil)
	_ Matcher = (*Number)(nil)
	_ Matcher = (*UnicodeRange)(nil)
	_ Matcher = (*Sequence)(nil)
	_ Matcher = (*Alternate)(nil)
	_ Matcher = (*Repeat)(nil)
	_ Matcher = (*Subset)(nil)
	_ Matcher = (*Container)(nil)
	_ Matcher = (*Call)(nil)
	_ Matcher = (*CaptureConst)(nil)
	_ Matcher = (*CaptureContext)(nil)
	_ Matcher = (*CaptureArray)(nil)
	_ Matcher = (*CaptureObject)(nil)
	_ Matcher = (*CaptureNamed)(nil)
	_ Matcher = (*CaptureTransform)(nil)
	_ Matcher = (*CaptureReduce)(nil)
	_ Matcher = (*CaptureUnit)(nil)
	_ Matcher = (*CaptureContent)(nil)
	_ Matcher = (*Placeholder)(nil)
	_ Matcher = (*Ref)(nil)
)

/***** predicates *****/

// Any matches any single unit.
type Any struct{}

// End matches the end of the unit list.
type End struct{}

// Success always matches without consuming anything.
type Success struct{}

// Failure never matches.
type Failure struct{}

// ZeroWhitespace fails when whitespace or a comment sits at the current
// position. It consumes nothing.
type ZeroWhitespace struct{}

// NonzeroWhitespace consumes a run of whitespace and comments and fails
// when there is none.
type NonzeroWhitespace struct{}

// Symbol matches a single symbol unit.
type Symbol struct {
	Char string
}

// Ident matches an identifier unit.
type Ident struct {
	Text TextMatch
}

// Hash matches a hash unit.
type Hash struct {
	Text TextMatch
}

// AtIdent matches an at-identifier unit.
type AtIdent struct {
	Text TextMatch
}

// String matches a string unit.
type String struct{}

// Number matches a number unit. A nil Units accepts unitless numbers only;
// otherwise the unit must be one of Units, where NoUnit accepts a unitless
// number. AnyUnit disables the unit check.
type Number struct {
	Units   []string
	AnyUnit bool
}

// UnicodeRange matches a unicode-range unit.
type UnicodeRange struct{}

/***** combinators *****/

// Sequence matches every item in order.
type Sequence struct {
	Items []Matcher
}

// Alternate matches the first option that succeeds.
type Alternate struct {
	Options []Matcher
}

// Repeat greedily matches Inner between Min and Max times.
type Repeat struct {
	Inner Matcher
	Min   int
	Max   int // Unbounded for no limit
}

// Subset matches members of Set in any order, each at most once.
type Subset struct {
	Set []Matcher
	Min int
	Max int // Unbounded for no limit
}

// Container matches a bracketed unit whose whole content matches Contents.
type Container struct {
	Type     unit.Type // unit.TypeRound, unit.TypeSquare or unit.TypeCurly
	Contents Matcher
}

// Call matches a call unit by name whose whole parameter list matches Params.
type Call struct {
	Name   TextMatch
	Params Matcher
}

/***** captures *****/

// CaptureConst emits Value when Inner matches. A nil Inner consumes nothing.
type CaptureConst struct {
	Value any
	Inner Matcher
}

// CaptureContext emits the context value passed to MatchContext.
// A nil Inner consumes nothing.
type CaptureContext struct {
	Inner Matcher
}

// CaptureArray collects every value emitted by Inner into a []any.
type CaptureArray struct {
	Inner Matcher
}

// CaptureObject collects the named values emitted by Inner into a
// map[string]any. Unnamed values are dropped.
type CaptureObject struct {
	Inner Matcher
}

// CaptureNamed gives every value emitted by Inner the name Name.
type CaptureNamed struct {
	Name  string
	Inner Matcher
}

// TransformFunc derives one value from the values captured by an inner
// matcher. It must not keep a reference to values.
type TransformFunc func(values []any) (any, error)

// ReduceFunc folds one captured value into the accumulator.
type ReduceFunc func(acc, value any) (any, error)

// CaptureTransform emits Fn applied to the values emitted by Inner.
type CaptureTransform struct {
	Inner Matcher
	Fn    TransformFunc
}

// CaptureReduce folds the values emitted by Inner, left to right, starting
// from Seed.
type CaptureReduce struct {
	Inner Matcher
	Seed  any
	Fn    ReduceFunc
}

// CaptureUnit emits the unit consumed by Inner: nil when nothing was
// consumed, the unit itself for one unit, a []unit.Unit for a longer span.
type CaptureUnit struct {
	Inner Matcher
}

// CaptureContent emits the content of the span consumed by Inner: the
// float64 value of a single number, the text of any other single unit, and
// the joined text of a longer span.
type CaptureContent struct {
	Inner Matcher
}

/***** references *****/

// Placeholder is a named forward reference. It must be resolved before the
// tree is matched.
type Placeholder struct {
	Name string
}

// Ref is a resolved rule reference: an index into a RuleSet.
type Ref struct {
	Name  string
	Index int
	Set   *RuleSet
}

func (*Any) matcher()               {}
func (*End) matcher()               {}
func (*Success) matcher()           {}
func (*Failure) matcher()           {}
func (*ZeroWhitespace) matcher()    {}
func (*NonzeroWhitespace) matcher() {}
func (*Symbol) matcher()            {}
func (*Ident) matcher()             {}
func (*Hash) matcher()              {}
func (*AtIdent) matcher()           {}
func (*String) matcher()            {}
func (*Number) matcher()            {}
func (*UnicodeRange) matcher()      {}
func (*Sequence) matcher()          {}
func (*Alternate) matcher()         {}
func (*Repeat) matcher()            {}
func (*Subset) matcher()            {}
func (*Container) matcher()         {}
func (*Call) matcher()              {}
func (*CaptureConst) matcher()      {}
func (*CaptureContext) matcher()    {}
func (*CaptureArray) matcher()      {}
func (*CaptureObject) matcher()     {}
func (*CaptureNamed) matcher()      {}
func (*CaptureTransform) matcher()  {}
func (*CaptureReduce) matcher()     {}
func (*CaptureUnit) matcher()       {}
func (*CaptureContent) matcher()    {}
func (*Placeholder) matcher()       {}
func (*Ref) matcher()               {}

func (*Any) String() string               { return "any" }
func (*End) String() string               { return "end" }
func (*Success) String() string           { return "SUCCESS" }
func (*Failure) String() string           { return "FAILURE" }
func (*ZeroWhitespace) String() string    { return "ZERO_WHITESPACE" }
func (*NonzeroWhitespace) String() string { return "NONZERO_WHITESPACE" }
func (m *Symbol) String() string          { return quote(m.Char) }
func (m *Ident) String() string           { return textCall("ID", "identifier", m.Text) }
func (m *Hash) String() string            { return textCall("HASH", "hash", m.Text) }
func (m *AtIdent) String() string         { return textCall("AT", "at-identifier", m.Text) }
func (*String) String() string            { return "string" }
func (*UnicodeRange) String() string      { return "unicode-range" }

func (m *Number) String() string {
	switch {
	case m.AnyUnit:
		return "dimension"
	case m.Units == nil:
		return "number"
	case len(m.Units) == 1 && m.Units[0] == "%":
		return "percentage"
	}
	units := make([]string, len(m.Units))
	for i, u := range m.Units {
		units[i] = u
		if u == NoUnit || u == "%" {
			units[i] = quote(u)
		}
	}
	return "NUMBER(" + strings.Join(units, "|") + ")"
}

func (m *Sequence) String() string {
	return joinMatchers(m.Items, " ")
}

func (m *Alternate) String() string {
	return "(" + joinMatchers(m.Options, " | ") + ")"
}

func (m *Repeat) String() string {
	inner := m.Inner.String()
	if _, ok := m.Inner.(*Sequence); ok {
		inner = "(" + inner + ")"
	}
	switch {
	case m.Min == 0 && m.Max == 1:
		return inner + "?"
	case m.Min == 0 && m.Max == Unbounded:
		return inner + "*"
	case m.Min == 1 && m.Max == Unbounded:
		return inner + "+"
	case m.Max == Unbounded:
		return fmt.Sprintf("%s{%d,}", inner, m.Min)
	case m.Min == m.Max:
		return fmt.Sprintf("%s{%d}", inner, m.Min)
	}
	return fmt.Sprintf("%s{%d,%d}", inner, m.Min, m.Max)
}

func (m *Subset) String() string {
	return fmt.Sprintf("SUBSET{%d,%d}(%s)", m.Min, m.Max, joinMatchers(m.Set, ", "))
}

func (m *Container) String() string {
	name := strings.ToUpper(m.Type.String())
	return name + "(" + m.Contents.String() + ")"
}

func (m *Call) String() string {
	return fmt.Sprintf("FN(%s(%s))", m.Name, m.Params)
}

func (m *CaptureConst) String() string {
	return fmt.Sprintf("CAP_CONST(%s)", formatValue(m.Value))
}

func (m *CaptureContext) String() string   { return "CAP_CONTEXT(" + optional(m.Inner) + ")" }
func (m *CaptureArray) String() string     { return "CAP_ARRAY(" + m.Inner.String() + ")" }
func (m *CaptureObject) String() string    { return "CAP_OBJECT(" + m.Inner.String() + ")" }
func (m *CaptureNamed) String() string     { return "CAP_NAMED(" + m.Name + ", " + m.Inner.String() + ")" }
func (m *CaptureTransform) String() string { return "CAP_TRANSFORM(" + m.Inner.String() + ")" }
func (m *CaptureReduce) String() string    { return "CAP_REDUCE(" + m.Inner.String() + ")" }
func (m *CaptureUnit) String() string      { return "CAP_UNIT(" + m.Inner.String() + ")" }
func (m *CaptureContent) String() string   { return "CAP(" + m.Inner.String() + ")" }
func (m *Placeholder) String() string      { return "<" + m.Name + ">" }
func (m *Ref) String() string              { return m.Name }

func joinMatchers(ms []Matcher, sep string) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, sep)
}

func optional(m Matcher) string {
	if m == nil {
		return ""
	}
	return m.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func textCall(fn, macro string, t TextMatch) string {
	if t.IsAny() {
		return macro
	}
	return fn + "(" + t.String() + ")"
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return quote(v)
	case nil:
		return "null"
	case undefined:
		return "undefined"
	default:
		return fmt.Sprint(v)
	}
}
