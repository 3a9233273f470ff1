package unit

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/cssrules/lexer"
)

// Text returns the textual content of a unit. Containers and calls are
// flattened by joining the content of their children.
func Text(u Unit) string {
	var sb strings.Builder
	writeText(&sb, u)
	return sb.String()
}

// JoinText joins the textual content of a span of units.
func JoinText(units []Unit) string {
	var sb strings.Builder
	for _, u := range units {
		writeText(&sb, u)
	}
	return sb.String()
}

func writeText(sb *strings.Builder, u Unit) {
	switch v := u.(type) {
	case *Literal:
		sb.WriteString(v.Content)
	case *Number:
		sb.WriteString(lexer.FormatNumber(v.Value))
		sb.WriteString(v.Unit)
	case *Range:
		if v.From == v.To {
			fmt.Fprintf(sb, "U+%X", v.From)
		} else {
			fmt.Fprintf(sb, "U+%X-%X", v.From, v.To)
		}
	case *Container:
		for _, child := range v.Children {
			writeText(sb, child)
		}
	case *Call:
		for _, param := range v.Params {
			writeText(sb, param)
		}
	}
}

// Source renders a unit back into source form. Unlike Text it keeps call
// names, brackets, string quotes and hash and at-sign prefixes.
func Source(u Unit) string {
	var sb strings.Builder
	writeSource(&sb, u)
	return sb.String()
}

func writeSource(sb *strings.Builder, u Unit) {
	switch v := u.(type) {
	case *Literal:
		switch v.Kind {
		case TypeString:
			sb.WriteByte('"')
			sb.WriteString(stringEscaper.Replace(v.Content))
			sb.WriteByte('"')
		case TypeComment:
			sb.WriteString("/*")
			sb.WriteString(v.Content)
			sb.WriteString("*/")
		case TypeHash:
			sb.WriteByte('#')
			sb.WriteString(v.Content)
		case TypeAtIdent:
			sb.WriteByte('@')
			sb.WriteString(v.Content)
		default:
			sb.WriteString(v.Content)
		}
	case *Container:
		open, close := brackets(v.Kind)
		sb.WriteString(open)
		for _, child := range v.Children {
			writeSource(sb, child)
		}
		sb.WriteString(close)
	case *Call:
		sb.WriteString(v.Name)
		sb.WriteByte('(')
		for _, param := range v.Params {
			writeSource(sb, param)
		}
		sb.WriteByte(')')
	default:
		writeText(sb, u)
	}
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)

func brackets(kind Type) (string, string) {
	switch kind {
	case TypeSquare:
		return "[", "]"
	case TypeCurly:
		return "{", "}"
	default:
		return "(", ")"
	}
}
