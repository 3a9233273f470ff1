package unit

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/cssrules/lexer"
)

// Type defines the kind of a Unit.
type Type int

const (
	TypeComment Type = iota
	TypeWhitespace
	TypeString
	TypeIdent
	TypeAtIdent
	TypeHash
	TypeSymbol
	TypeNumber
	TypeUnicodeRange
	TypeRound  // ( ... )
	TypeSquare // [ ... ]
	TypeCurly  // { ... }
	TypeCall   // name( ... )
)

func (t Type) String() string {
	switch t {
	case TypeComment:
		return "comment"
	case TypeWhitespace:
		return "whitespace"
	case TypeString:
		return "string"
	case TypeIdent:
		return "identifier"
	case TypeAtIdent:
		return "at-identifier"
	case TypeHash:
		return "hash"
	case TypeSymbol:
		return "symbol"
	case TypeNumber:
		return "number"
	case TypeUnicodeRange:
		return "unicode-range"
	case TypeRound:
		return "round"
	case TypeSquare:
		return "square"
	case TypeCurly:
		return "curly"
	case TypeCall:
		return "call"
	default:
		return "unknown"
	}
}

// Unit is a node of the tree built from a flat token stream.
// The set of implementations is closed.
type Unit interface {
	Type() Type     // returns the unit type
	String() string // debugging or printing purpose
	unit()
}

var (
	_ Unit = (*Literal)(nil)
	_ Unit = (*Number)(nil)
	_ Unit = (*Range)(nil)
	_ Unit = (*Container)(nil)
	_ Unit = (*Call)(nil)
)

// Literal is a comment, whitespace, string, identifier, at-identifier,
// hash or symbol unit.
type Literal struct {
	Kind    Type
	Content string
}

func (l *Literal) Type() Type { return l.Kind }
func (l *Literal) String() string {
	return fmt.Sprintf("%s(%q)", l.Kind, l.Content)
}
func (*Literal) unit() {}

// Number is a number, percentage or dimension. Unit is empty for a plain
// number and "%" for a percentage.
type Number struct {
	Value float64
	Unit  string
}

func (n *Number) Type() Type { return TypeNumber }
func (n *Number) String() string {
	if n.Unit != "" {
		return fmt.Sprintf("number(%s%s)", lexer.FormatNumber(n.Value), n.Unit)
	}
	return fmt.Sprintf("number(%s)", lexer.FormatNumber(n.Value))
}
func (*Number) unit() {}

// Range is an inclusive unicode-range.
type Range struct {
	From rune
	To   rune
}

func (r *Range) Type() Type { return TypeUnicodeRange }
func (r *Range) String() string {
	return fmt.Sprintf("unicode-range(%U-%U)", r.From, r.To)
}
func (*Range) unit() {}

// Container is a bracketed group of units.
type Container struct {
	Kind     Type // TypeRound, TypeSquare or TypeCurly
	Children []Unit
}

func (c *Container) Type() Type { return c.Kind }
func (c *Container) String() string {
	return formatChildren(c.Kind.String(), c.Children)
}
func (*Container) unit() {}

// Call is a function call: a name and its parameter units.
type Call struct {
	Name   string
	Params []Unit
}

func (c *Call) Type() Type { return TypeCall }
func (c *Call) String() string {
	return formatChildren(fmt.Sprintf("call %q", c.Name), c.Params)
}
func (*Call) unit() {}

func formatChildren(head string, children []Unit) string {
	result := fmt.Sprintf("%s(%d children):\n", head, len(children))
	for i, child := range children {
		// apply indentation for children node
		childStr := strings.ReplaceAll(child.String(), "\n", "\n  ")
		result += fmt.Sprintf("  %d: %s\n", i, childStr)
	}
	return strings.TrimRight(result, "\n")
}

// IsInsignificant reports whether u is whitespace or a comment.
func IsInsignificant(u Unit) bool {
	if l, ok := u.(*Literal); ok {
		return l.Kind == TypeWhitespace || l.Kind == TypeComment
	}
	return false
}
