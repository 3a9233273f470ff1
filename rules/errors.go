package rules

import "errors"

var (
	ErrInvalidRule         = errors.New("invalid rule")
	ErrUnknownFunction     = errors.New("unknown function")
	ErrInvalidArgument     = errors.New("invalid function argument")
	ErrMalformedQuantifier = errors.New("malformed quantifier")
	ErrUnresolved          = errors.New("unresolved name")
	ErrDuplicateRule       = errors.New("duplicate rule")
	ErrAliasCycle          = errors.New("alias cycle")
)
