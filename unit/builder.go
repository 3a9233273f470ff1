package unit

import (
	"io"
	"strings"

	"github.com/gnoswap-labs/cssrules/lexer"
)

// Options controls which insignificant tokens are kept as units.
type Options struct {
	IgnoreWhitespace bool
	IgnoreComments   bool
}

// frame is one open container or call whose children are being collected.
type frame struct {
	opener   Unit
	children []Unit
	pos      int
}

// builder turns a token sequence into a unit tree using an explicit stack
// of open child lists.
type builder struct {
	input string // used for error positions only
	opts  Options
	stack []frame
	top   []Unit
}

// Parse lexes src and builds its unit tree. Tokens are consumed as the
// lexer produces them.
func Parse(src string, opts Options) ([]Unit, error) {
	b := &builder{input: src, opts: opts}
	l := lexer.New(src)
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return b.finish()
		}
		if err != nil {
			return nil, err
		}
		if err := b.push(tok); err != nil {
			return nil, err
		}
	}
}

// Build builds the unit tree of an already lexed token sequence.
func Build(tokens []lexer.Token, opts Options) ([]Unit, error) {
	var src strings.Builder
	for _, tok := range tokens {
		src.WriteString(tok.Raw)
	}
	b := &builder{input: src.String(), opts: opts}
	for _, tok := range tokens {
		if err := b.push(tok); err != nil {
			return nil, err
		}
	}
	return b.finish()
}

func (b *builder) push(tok lexer.Token) error {
	switch tok.Type {
	case lexer.TokenCallOpen:
		b.open(&Call{Name: tok.Content}, tok.Pos)
	case lexer.TokenURL:
		b.add(&Call{
			Name:   "url",
			Params: []Unit{&Literal{Kind: TypeString, Content: tok.Content}},
		})
	case lexer.TokenSymbol:
		switch tok.Content {
		case "(":
			b.open(&Container{Kind: TypeRound}, tok.Pos)
		case "[":
			b.open(&Container{Kind: TypeSquare}, tok.Pos)
		case "{":
			b.open(&Container{Kind: TypeCurly}, tok.Pos)
		case ")":
			return b.close(tok, TypeRound)
		case "]":
			return b.close(tok, TypeSquare)
		case "}":
			return b.close(tok, TypeCurly)
		default:
			b.add(&Literal{Kind: TypeSymbol, Content: tok.Content})
		}
	case lexer.TokenWhitespace:
		if !b.opts.IgnoreWhitespace {
			b.add(&Literal{Kind: TypeWhitespace, Content: tok.Content})
		}
	case lexer.TokenComment:
		if !b.opts.IgnoreComments {
			b.add(&Literal{Kind: TypeComment, Content: tok.Content})
		}
	case lexer.TokenNumber:
		b.add(&Number{Value: tok.Value, Unit: tok.Unit})
	case lexer.TokenUnicodeRange:
		b.add(&Range{From: tok.From, To: tok.To})
	case lexer.TokenString:
		b.add(&Literal{Kind: TypeString, Content: tok.Content})
	case lexer.TokenIdent:
		b.add(&Literal{Kind: TypeIdent, Content: tok.Content})
	case lexer.TokenAtIdent:
		b.add(&Literal{Kind: TypeAtIdent, Content: tok.Content})
	case lexer.TokenHash:
		b.add(&Literal{Kind: TypeHash, Content: tok.Content})
	default:
		return b.errorf(tok.Pos, "unexpected token %s", tok.Type)
	}
	return nil
}

// current returns the child list new units are appended to.
func (b *builder) current() *[]Unit {
	if n := len(b.stack); n > 0 {
		return &b.stack[n-1].children
	}
	return &b.top
}

func (b *builder) add(u Unit) {
	list := b.current()
	*list = append(*list, u)
}

func (b *builder) open(opener Unit, pos int) {
	b.stack = append(b.stack, frame{opener: opener, pos: pos})
}

// close pops the innermost frame, attaching its children to the opener.
// A round bracket closes either a round container or a call.
func (b *builder) close(tok lexer.Token, kind Type) error {
	n := len(b.stack)
	if n == 0 {
		return b.errorf(tok.Pos, "mismatched brackets: unexpected %q", tok.Content)
	}
	f := b.stack[n-1]
	switch opener := f.opener.(type) {
	case *Call:
		if kind != TypeRound {
			return b.errorf(tok.Pos, "mismatched brackets: %q closes a call", tok.Content)
		}
		opener.Params = f.children
	case *Container:
		if opener.Kind != kind {
			return b.errorf(tok.Pos, "mismatched brackets: %q closes %s", tok.Content, opener.Kind)
		}
		opener.Children = f.children
	}
	b.stack = b.stack[:n-1]
	b.add(f.opener)
	return nil
}

func (b *builder) finish() ([]Unit, error) {
	if n := len(b.stack); n > 0 {
		return nil, b.errorf(b.stack[n-1].pos, "unbalanced brackets: %d left open", n)
	}
	return b.top, nil
}

func (b *builder) errorf(pos int, format string, args ...any) error {
	return lexer.NewSyntaxError(b.input, pos, format, args...)
}
