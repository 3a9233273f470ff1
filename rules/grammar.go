package rules

import (
	"fmt"

	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

// Grammar is a set of compiled, resolved rules. It is immutable and safe
// for concurrent use.
type Grammar struct {
	Name  string // set by LoadFile
	Entry string // default rule, set by LoadFile

	set *matcher.RuleSet
}

// Names returns the rule names in declaration order.
func (g *Grammar) Names() []string {
	return g.set.Names()
}

// Rule returns a matcher for the named rule.
func (g *Grammar) Rule(name string) (matcher.Matcher, bool) {
	ref, ok := g.set.Ref(name)
	if !ok {
		return nil, false
	}
	return ref, true
}

// Body returns the resolved body of the named rule, for inspection.
func (g *Grammar) Body(name string) (matcher.Matcher, bool) {
	i, ok := g.set.Lookup(name)
	if !ok {
		return nil, false
	}
	return g.set.Body(i), true
}

// Match matches the named rule against units from start. See matcher.Match.
func (g *Grammar) Match(name string, units []unit.Unit, sink matcher.Sink, start int) (int, error) {
	m, ok := g.Rule(name)
	if !ok {
		return matcher.NoMatch, fmt.Errorf("%w: no rule %s", ErrUnresolved, name)
	}
	return matcher.Match(units, m, sink, start)
}

// MatchContext is Match with a context value for CAP_CONTEXT captures.
func (g *Grammar) MatchContext(name string, units []unit.Unit, sink matcher.Sink, start int, ctx any) (int, error) {
	m, ok := g.Rule(name)
	if !ok {
		return matcher.NoMatch, fmt.Errorf("%w: no rule %s", ErrUnresolved, name)
	}
	return matcher.MatchContext(units, m, sink, start, ctx)
}
