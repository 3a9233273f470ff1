package rules

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

// Compiler turns rule-definition source into matcher trees. Functions
// receive the active Compiler so they can compile nested patterns.
type Compiler struct {
	registry *Registry
}

// NewCompiler returns a compiler using the given registry.
func NewCompiler(registry *Registry) *Compiler {
	return &Compiler{registry: registry}
}

// Compile compiles a rule document with the builtins merged with opts.
func Compile(src string, opts Options) (*Grammar, error) {
	return NewCompiler(NewRegistry(opts)).Compile(src)
}

// Compile compiles a rule document. Every name reference is resolved, so
// the rules of the returned grammar can be matched right away.
func (c *Compiler) Compile(src string) (*Grammar, error) {
	units, err := unit.Parse(src, unit.Options{IgnoreComments: true})
	if err != nil {
		return nil, err
	}
	defs, err := c.document(units)
	if err != nil {
		return nil, err
	}
	return c.resolve(defs)
}

func (c *Compiler) document(units []unit.Unit) ([]ruleDef, error) {
	var defs []ruleDef
	end, err := matcher.MatchContext(units, bootstrap.document, func(cp matcher.Capture) {
		defs = append(defs, cp.Value.(ruleDef))
	}, 0, c)
	if err != nil {
		return nil, err
	}
	if end == matcher.NoMatch {
		return nil, c.diagnose(units)
	}
	return defs, nil
}

// diagnose finds the first declaration that does not parse on its own.
func (c *Compiler) diagnose(units []unit.Unit) error {
	decls := c.Split(units, ";")
	for i, decl := range decls {
		if isBlank(decl) {
			if i > 0 && i == len(decls)-1 {
				continue // trailing ';'
			}
			return fmt.Errorf("%w: empty declaration %d", ErrInvalidRule, i+1)
		}
		end, err := matcher.MatchContext(decl, bootstrap.rule, nil, 0, c)
		if err != nil {
			return err
		}
		if end == matcher.NoMatch {
			return fmt.Errorf("%w: declaration %d (%s): expected \"name: pattern\"", ErrInvalidRule, i+1, declName(decl))
		}
	}
	return fmt.Errorf("%w: cannot parse rule document", ErrInvalidRule)
}

func declName(decl []unit.Unit) string {
	for _, u := range decl {
		if l, ok := u.(*unit.Literal); ok && l.Kind == unit.TypeIdent {
			return l.Content
		}
		if !unit.IsInsignificant(u) {
			break
		}
	}
	return "?"
}

// resolve stores the rules in an arena and replaces every placeholder by a
// reference to a rule, or by a macro when no rule has that name.
func (c *Compiler) resolve(defs []ruleDef) (*Grammar, error) {
	names := make([]string, len(defs))
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if seen[d.name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, d.name)
		}
		seen[d.name] = true
		names[i] = d.name
	}
	set := matcher.NewRuleSet(names...)

	for i, d := range defs {
		// macros being expanded, innermost last
		var expanding []string
		var resolveNode func(node matcher.Matcher) (matcher.Matcher, error)
		resolveNode = func(node matcher.Matcher) (matcher.Matcher, error) {
			p, ok := node.(*matcher.Placeholder)
			if !ok {
				return node, nil
			}
			if _, ok := set.Lookup(p.Name); ok {
				target, err := aliasTarget(defs, set, p.Name)
				if err != nil {
					return nil, err
				}
				return &matcher.Ref{Name: p.Name, Index: target, Set: set}, nil
			}
			macro, ok := c.registry.Macro(p.Name)
			if !ok {
				return nil, fmt.Errorf("rule %s: %w: %s", d.name, ErrUnresolved, p.Name)
			}
			if slices.Contains(expanding, p.Name) {
				return nil, fmt.Errorf("rule %s: %w: macro cycle %s", d.name, ErrUnresolved,
					strings.Join(append(expanding, p.Name), " -> "))
			}
			// placeholders inside a macro resolve like those of the rule using it
			expanding = append(expanding, p.Name)
			body, err := matcher.Rewrite(macro, resolveNode)
			expanding = expanding[:len(expanding)-1]
			return body, err
		}
		body, err := matcher.Rewrite(d.body, resolveNode)
		if err != nil {
			return nil, err
		}
		set.Define(i, body)
	}
	return &Grammar{set: set}, nil
}

// aliasTarget follows a chain of rules whose whole body is another rule
// name and returns the index of the last rule in the chain.
func aliasTarget(defs []ruleDef, set *matcher.RuleSet, name string) (int, error) {
	var chain []string
	visited := make(map[string]bool)
	for {
		i, _ := set.Lookup(name)
		if visited[name] {
			return 0, fmt.Errorf("%w: %s", ErrAliasCycle, strings.Join(append(chain, name), " -> "))
		}
		visited[name] = true
		chain = append(chain, name)

		p, ok := defs[i].body.(*matcher.Placeholder)
		if !ok {
			return i, nil
		}
		if _, isRule := set.Lookup(p.Name); !isRule {
			return i, nil
		}
		name = p.Name
	}
}

// call runs the function named by a call unit of the rule source.
func (c *Compiler) call(u *unit.Call) (matcher.Matcher, error) {
	fn, ok := c.registry.Function(u.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, u.Name)
	}
	result, err := fn(c, u.Params)
	if err != nil {
		return nil, fmt.Errorf("%s(...): %w", u.Name, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%s(...): %w: no matcher returned", u.Name, ErrInvalidRule)
	}
	return result, nil
}

// Pattern compiles a parameter list as a pattern. A blank list compiles to
// a matcher that always succeeds.
func (c *Compiler) Pattern(units []unit.Unit) (matcher.Matcher, error) {
	if isBlank(units) {
		return &matcher.Success{}, nil
	}
	var result matcher.Matcher
	end, err := matcher.MatchContext(units, bootstrap.pattern, func(cp matcher.Capture) {
		result = cp.Value.(matcher.Matcher)
	}, 0, c)
	if err != nil {
		return nil, err
	}
	if end == matcher.NoMatch {
		return nil, fmt.Errorf("%w: cannot parse pattern %q", ErrInvalidRule, unit.JoinText(units))
	}
	return result, nil
}

// Split splits units on the top-level symbol sep.
func (c *Compiler) Split(units []unit.Unit, sep string) [][]unit.Unit {
	parts := [][]unit.Unit{nil}
	for _, u := range units {
		if l, ok := u.(*unit.Literal); ok && l.Kind == unit.TypeSymbol && l.Content == sep {
			parts = append(parts, nil)
			continue
		}
		parts[len(parts)-1] = append(parts[len(parts)-1], u)
	}
	return parts
}

// Literal reads a constant value: a string, a number, or one of the
// identifiers true, false, null, undefined, NaN, Infinity and -Infinity.
func (c *Compiler) Literal(units []unit.Unit) (any, error) {
	u, err := single(units)
	if err != nil {
		return nil, err
	}
	switch v := u.(type) {
	case *unit.Number:
		if v.Unit != "" {
			return nil, fmt.Errorf("%w: constant with unit %s", ErrInvalidArgument, v.Unit)
		}
		return v.Value, nil
	case *unit.Literal:
		switch v.Kind {
		case unit.TypeString:
			return v.Content, nil
		case unit.TypeIdent:
			switch v.Content {
			case "true":
				return true, nil
			case "false":
				return false, nil
			case "null":
				return nil, nil
			case "undefined":
				return matcher.Undefined, nil
			case "NaN":
				return math.NaN(), nil
			case "Infinity":
				return math.Inf(1), nil
			case "-Infinity":
				return math.Inf(-1), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s is not a constant", ErrInvalidArgument, unit.Text(u))
}

// single returns the only significant unit of units.
func single(units []unit.Unit) (unit.Unit, error) {
	var found unit.Unit
	for _, u := range units {
		if unit.IsInsignificant(u) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: expected a single value, got %q", ErrInvalidArgument, unit.JoinText(units))
		}
		found = u
	}
	if found == nil {
		return nil, fmt.Errorf("%w: missing value", ErrInvalidArgument)
	}
	return found, nil
}

func isBlank(units []unit.Unit) bool {
	for _, u := range units {
		if !unit.IsInsignificant(u) {
			return false
		}
	}
	return true
}
