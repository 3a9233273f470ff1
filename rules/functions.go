package rules

import (
	"fmt"

	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

var builtinFunctions = map[string]Func{
	"ID":   textFunc(func(t matcher.TextMatch) matcher.Matcher { return &matcher.Ident{Text: t} }),
	"AT":   textFunc(func(t matcher.TextMatch) matcher.Matcher { return &matcher.AtIdent{Text: t} }),
	"HASH": textFunc(func(t matcher.TextMatch) matcher.Matcher { return &matcher.Hash{Text: t} }),
	"FN":   fnCall,

	"ONE_OR_MORE_ANY_ORDER":  anyOrder(1),
	"ZERO_OR_MORE_ANY_ORDER": anyOrder(0),

	"ROUND":  container(unit.TypeRound),
	"SQUARE": container(unit.TypeSquare),
	"CURLY":  container(unit.TypeCurly),

	"CAP_ARRAY":   wrap(func(inner matcher.Matcher) matcher.Matcher { return &matcher.CaptureArray{Inner: inner} }),
	"CAP_OBJECT":  wrap(func(inner matcher.Matcher) matcher.Matcher { return &matcher.CaptureObject{Inner: inner} }),
	"CAP_UNIT":    wrap(func(inner matcher.Matcher) matcher.Matcher { return &matcher.CaptureUnit{Inner: inner} }),
	"CAP":         wrap(func(inner matcher.Matcher) matcher.Matcher { return &matcher.CaptureContent{Inner: inner} }),
	"CAP_NAMED":   capNamed,
	"CAP_CONST":   capConst,
	"CAP_CONTEXT": capContext,

	"NUMBER": number,
}

// textFunc builds ID, AT and HASH: either literals separated by '|' or a
// single MATCH("regex").
func textFunc(build func(matcher.TextMatch) matcher.Matcher) Func {
	return func(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
		if u, err := single(params); err == nil {
			if call, ok := u.(*unit.Call); ok {
				if call.Name != "MATCH" {
					return nil, fmt.Errorf("%w: expected MATCH(...), got %s(...)", ErrInvalidArgument, call.Name)
				}
				expr, err := single(call.Params)
				if err != nil {
					return nil, err
				}
				s, ok := expr.(*unit.Literal)
				if !ok || s.Kind != unit.TypeString {
					return nil, fmt.Errorf("%w: MATCH expects a string", ErrInvalidArgument)
				}
				t, err := matcher.Pattern(s.Content)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
				}
				return build(t), nil
			}
		}

		var options []matcher.Matcher
		for _, part := range c.Split(params, "|") {
			name, err := argName(part)
			if err != nil {
				return nil, err
			}
			options = append(options, build(matcher.Exactly(name)))
		}
		if len(options) == 1 {
			return options[0], nil
		}
		return &matcher.Alternate{Options: options}, nil
	}
}

func fnCall(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
	u, err := single(params)
	if err != nil {
		return nil, err
	}
	call, ok := u.(*unit.Call)
	if !ok {
		return nil, fmt.Errorf("%w: FN expects name(...)", ErrInvalidArgument)
	}
	inner, err := c.Pattern(call.Params)
	if err != nil {
		return nil, err
	}
	return &matcher.Call{Name: matcher.Exactly(call.Name), Params: inner}, nil
}

func anyOrder(min int) Func {
	return func(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
		var set []matcher.Matcher
		for _, part := range c.Split(params, ",") {
			member, err := c.Pattern(part)
			if err != nil {
				return nil, err
			}
			set = append(set, member)
		}
		return &matcher.Subset{Set: set, Min: min, Max: matcher.Unbounded}, nil
	}
}

func container(kind unit.Type) Func {
	return func(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
		contents, err := c.Pattern(params)
		if err != nil {
			return nil, err
		}
		return &matcher.Container{Type: kind, Contents: contents}, nil
	}
}

func wrap(build func(matcher.Matcher) matcher.Matcher) Func {
	return func(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
		inner, err := c.Pattern(params)
		if err != nil {
			return nil, err
		}
		return build(inner), nil
	}
}

// capNamed handles CAP_NAMED(name, pattern). Only the first comma
// separates the arguments.
func capNamed(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
	parts := c.Split(params, ",")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: CAP_NAMED expects a name and a pattern", ErrInvalidArgument)
	}
	name, err := argName(parts[0])
	if err != nil {
		return nil, err
	}
	inner, err := c.Pattern(params[len(parts[0])+1:])
	if err != nil {
		return nil, err
	}
	return &matcher.CaptureNamed{Name: name, Inner: inner}, nil
}

func capConst(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
	v, err := c.Literal(params)
	if err != nil {
		return nil, err
	}
	return &matcher.CaptureConst{Value: v}, nil
}

func capContext(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
	if isBlank(params) {
		return &matcher.CaptureContext{}, nil
	}
	inner, err := c.Pattern(params)
	if err != nil {
		return nil, err
	}
	return &matcher.CaptureContext{Inner: inner}, nil
}

// number handles NUMBER(px|%|''), where '' accepts a unitless number.
func number(c *Compiler, params []unit.Unit) (matcher.Matcher, error) {
	units := []string{}
	for _, part := range c.Split(params, "|") {
		u, err := single(part)
		if err != nil {
			return nil, err
		}
		l, ok := u.(*unit.Literal)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a unit", ErrInvalidArgument, unit.Text(u))
		}
		switch {
		case l.Kind == unit.TypeIdent, l.Kind == unit.TypeString:
		case l.Kind == unit.TypeSymbol && l.Content == "%":
		default:
			return nil, fmt.Errorf("%w: %s is not a unit", ErrInvalidArgument, l.Content)
		}
		units = append(units, l.Content)
	}
	return &matcher.Number{Units: units}, nil
}

// argName reads an identifier or string argument.
func argName(units []unit.Unit) (string, error) {
	u, err := single(units)
	if err != nil {
		return "", err
	}
	if l, ok := u.(*unit.Literal); ok && (l.Kind == unit.TypeIdent || l.Kind == unit.TypeString) {
		return l.Content, nil
	}
	return "", fmt.Errorf("%w: %s is not a name", ErrInvalidArgument, unit.Text(u))
}
