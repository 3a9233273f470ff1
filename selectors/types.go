package selectors

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/cssrules/unit"
)

// Combinator relates two compound selectors.
type Combinator string

const (
	Descendant        Combinator = "descendant"
	Child             Combinator = "child"
	NextSibling       Combinator = "next-sibling"
	SubsequentSibling Combinator = "subsequent-sibling"
	Column            Combinator = "column"
)

// ClauseType is the kind of a simple selector.
type ClauseType string

const (
	Element           ClauseType = "element"
	ID                ClauseType = "id"
	Class             ClauseType = "class"
	Attribute         ClauseType = "attribute"
	PseudoClass       ClauseType = "pseudo-class"
	PseudoClassFunc   ClauseType = "pseudo-class-func"
	PseudoElement     ClauseType = "pseudo-element"
	PseudoElementFunc ClauseType = "pseudo-element-func"
)

// Operator is an attribute selector operator.
type Operator string

const (
	Present              Operator = "present"
	Equals               Operator = "equals"
	WordListContains     Operator = "word-list-contains"
	EqualsOrDashedPrefix Operator = "equals-or-dashed-prefix"
	StartsWith           Operator = "starts-with"
	EndsWith             Operator = "ends-with"
	HasSubstring         Operator = "has-substring"
)

// Namespace is the prefix of a type or attribute selector. Any is set for
// the '*' namespace.
type Namespace struct {
	Name string
	Any  bool
}

// Clause is one simple selector.
type Clause struct {
	Type ClauseType

	// element, attribute, pseudo-class and pseudo-element
	Name      string
	Universal bool // element '*'
	Namespace *Namespace

	ID        string
	ClassName string

	Operator      Operator
	Value         string
	CaseSensitive *bool // nil without an i or s flag

	Function *unit.Call // functional pseudo-classes and pseudo-elements
}

// Step is a combinator followed by a compound selector.
type Step struct {
	Combinator Combinator
	Clauses    []Clause
}

// Selector is a complex selector.
type Selector struct {
	Initial    []Clause
	Subsequent []Step
}

func (n *Namespace) String() string {
	if n.Any {
		return "*"
	}
	return n.Name
}

func (c Clause) String() string {
	var sb strings.Builder
	switch c.Type {
	case Element:
		if c.Namespace != nil {
			sb.WriteString(c.Namespace.String() + "|")
		}
		if c.Universal {
			sb.WriteString("*")
		} else {
			sb.WriteString(c.Name)
		}
	case ID:
		sb.WriteString("#" + c.ID)
	case Class:
		sb.WriteString("." + c.ClassName)
	case Attribute:
		sb.WriteString("[")
		if c.Namespace != nil {
			sb.WriteString(c.Namespace.String() + "|")
		}
		sb.WriteString(c.Name)
		if c.Operator != Present {
			fmt.Fprintf(&sb, "%s%q", operatorText[c.Operator], c.Value)
			if c.CaseSensitive != nil {
				if *c.CaseSensitive {
					sb.WriteString(" s")
				} else {
					sb.WriteString(" i")
				}
			}
		}
		sb.WriteString("]")
	case PseudoClass:
		sb.WriteString(":" + c.Name)
	case PseudoElement:
		sb.WriteString("::" + c.Name)
	case PseudoClassFunc:
		sb.WriteString(":" + c.Function.Name + "(...)")
	case PseudoElementFunc:
		sb.WriteString("::" + c.Function.Name + "(...)")
	}
	return sb.String()
}

var operatorText = map[Operator]string{
	Equals:               "=",
	WordListContains:     "~=",
	EqualsOrDashedPrefix: "|=",
	StartsWith:           "^=",
	EndsWith:             "$=",
	HasSubstring:         "*=",
}

var combinatorText = map[Combinator]string{
	Descendant:        " ",
	Child:             " > ",
	NextSibling:       " + ",
	SubsequentSibling: " ~ ",
	Column:            " || ",
}

func compound(clauses []Clause) string {
	var sb strings.Builder
	for _, c := range clauses {
		sb.WriteString(c.String())
	}
	return sb.String()
}

// String renders s in a normalized form.
func (s Selector) String() string {
	var sb strings.Builder
	sb.WriteString(compound(s.Initial))
	for _, step := range s.Subsequent {
		sb.WriteString(combinatorText[step.Combinator])
		sb.WriteString(compound(step.Clauses))
	}
	return sb.String()
}
