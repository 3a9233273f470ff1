package lexer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by every structural error raised while lexing or
// building unit trees.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports a fatal structural problem in source text.
// Callers must discard the whole source when one is returned.
type SyntaxError struct {
	Offset int
	Line   int
	Col    int
	Msg    string
}

// NewSyntaxError builds a SyntaxError for the given byte offset of input,
// computing the 1-based line and column.
func NewSyntaxError(input string, offset int, format string, args ...any) *SyntaxError {
	if offset > len(input) {
		offset = len(input)
	}
	line, col := LineCol(input, offset)
	return &SyntaxError{
		Offset: offset,
		Line:   line,
		Col:    col,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// LineCol returns the 1-based line and byte column of offset in input.
// Offsets past the end are clamped.
func LineCol(input string, offset int) (line, col int) {
	if offset > len(input) {
		offset = len(input)
	}
	if offset < 0 {
		offset = 0
	}
	line = 1 + strings.Count(input[:offset], "\n")
	col = offset + 1
	if i := strings.LastIndexByte(input[:offset], '\n'); i >= 0 {
		col = offset - i
	}
	return line, col
}
