package rules

import (
	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

// Func builds a matcher fragment from the raw parameter units of a
// call-style extension such as ID(a|b).
type Func func(c *Compiler, params []unit.Unit) (matcher.Matcher, error)

// Options carries caller extensions. Entries override builtins of the same
// name.
type Options struct {
	Functions map[string]Func
	Macros    map[string]matcher.Matcher
}

// Registry is the function and macro table used by one compilation.
type Registry struct {
	functions map[string]Func
	macros    map[string]matcher.Matcher
}

// NewRegistry merges the caller extensions in opts over the builtins.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		functions: make(map[string]Func, len(builtinFunctions)+len(opts.Functions)),
		macros:    make(map[string]matcher.Matcher, len(builtinMacros)+len(opts.Macros)),
	}
	for name, fn := range builtinFunctions {
		r.functions[name] = fn
	}
	for name, m := range builtinMacros {
		r.macros[name] = m
	}
	for name, fn := range opts.Functions {
		r.functions[name] = fn
	}
	for name, m := range opts.Macros {
		r.macros[name] = m
	}
	return r
}

// Function returns the named function.
func (r *Registry) Function(name string) (Func, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Macro returns the named macro.
func (r *Registry) Macro(name string) (matcher.Matcher, bool) {
	m, ok := r.macros[name]
	return m, ok
}

var builtinMacros = map[string]matcher.Matcher{
	"number":             &matcher.Number{},
	"percentage":         &matcher.Number{Units: []string{"%"}},
	"dimension":          &matcher.Number{AnyUnit: true},
	"string":             &matcher.String{},
	"identifier":         &matcher.Ident{},
	"at-identifier":      &matcher.AtIdent{},
	"hash":               &matcher.Hash{},
	"unicode-range":      &matcher.UnicodeRange{},
	"call":               &matcher.Call{Params: &matcher.Repeat{Inner: &matcher.Any{}, Max: matcher.Unbounded}},
	"any":                &matcher.Any{},
	"end":                &matcher.End{},
	"NONZERO_WHITESPACE": &matcher.NonzeroWhitespace{},
	"ZERO_WHITESPACE":    &matcher.ZeroWhitespace{},
}
