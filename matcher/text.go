package matcher

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// TextMatch restricts the text of an identifier, hash, at-identifier or
// call name. The zero value accepts any text.
type TextMatch struct {
	Literal string
	Pattern *regexp2.Regexp // searched, not anchored
}

// Exactly returns a TextMatch accepting only s.
func Exactly(s string) TextMatch {
	return TextMatch{Literal: s}
}

// Pattern compiles expr with ECMAScript semantics.
func Pattern(expr string) (TextMatch, error) {
	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return TextMatch{}, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return TextMatch{Pattern: re}, nil
}

// IsAny reports whether t accepts any text.
func (t TextMatch) IsAny() bool {
	return t.Literal == "" && t.Pattern == nil
}

// Match reports whether s is accepted.
func (t TextMatch) Match(s string) (bool, error) {
	if t.Pattern != nil {
		return t.Pattern.MatchString(s)
	}
	if t.Literal == "" {
		return true, nil
	}
	return s == t.Literal, nil
}

func (t TextMatch) String() string {
	switch {
	case t.Pattern != nil:
		return fmt.Sprintf("MATCH(%q)", t.Pattern.String())
	case t.Literal == "":
		return "any"
	}
	return t.Literal
}
