package matcher

import "fmt"

// RuleSet is an arena of named rule bodies. Rules refer to each other
// through Ref handles holding an index into the set, which allows
// recursive grammars without cyclic pointers.
//
// A RuleSet is filled once with Define and then only read.
type RuleSet struct {
	names  []string
	bodies []Matcher
	index  map[string]int
}

// NewRuleSet reserves one empty slot per name. Names must be unique.
func NewRuleSet(names ...string) *RuleSet {
	s := &RuleSet{
		names:  append([]string(nil), names...),
		bodies: make([]Matcher, len(names)),
		index:  make(map[string]int, len(names)),
	}
	for i, name := range names {
		s.index[name] = i
	}
	return s
}

// Len returns the number of rules.
func (s *RuleSet) Len() int { return len(s.names) }

// Names returns the rule names in declaration order.
func (s *RuleSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Lookup returns the index of the named rule.
func (s *RuleSet) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Define sets the body of the rule at index.
func (s *RuleSet) Define(index int, body Matcher) {
	s.bodies[index] = body
}

// Body returns the body of the rule at index, nil if not yet defined.
func (s *RuleSet) Body(index int) Matcher {
	if index < 0 || index >= len(s.bodies) {
		return nil
	}
	return s.bodies[index]
}

// Ref returns a reference to the named rule.
func (s *RuleSet) Ref(name string) (*Ref, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &Ref{Name: name, Index: i, Set: s}, true
}

func (s *RuleSet) body(index int) (Matcher, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: reference without rule set", ErrPlaceholder)
	}
	if index < 0 || index >= len(s.bodies) {
		return nil, fmt.Errorf("rule index %d out of range", index)
	}
	if s.bodies[index] == nil {
		return nil, fmt.Errorf("%w: %s has no body", ErrPlaceholder, s.names[index])
	}
	return s.bodies[index], nil
}
