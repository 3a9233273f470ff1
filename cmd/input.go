package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gnoswap-labs/cssrules/formatter"
	tt "github.com/gnoswap-labs/cssrules/internal/types"
	"github.com/gnoswap-labs/cssrules/lexer"
)

const stdinName = "-"

var errSyntax = errors.New("input has syntax errors")

// readInput reads the named file, or standard input for "-" or no name.
func readInput(args []string, stdin io.Reader) (string, []byte, error) {
	name := stdinName
	if len(args) > 0 {
		name = args[0]
	}
	if name == stdinName {
		src, err := io.ReadAll(stdin)
		return "<stdin>", src, err
	}
	src, err := os.ReadFile(name)
	return name, src, err
}

// writeSyntaxError renders err with a caret when it is a lexer syntax
// error and reports whether it was one.
func writeSyntaxError(w io.Writer, name string, src []byte, err error) bool {
	var se *lexer.SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	issue := tt.Issue{
		Kind:     formatter.SyntaxError,
		Filename: name,
		Start:    tt.Position{Offset: se.Offset, Line: se.Line, Column: se.Col},
		End:      tt.Position{Offset: se.Offset + 1, Line: se.Line, Column: se.Col + 1},
		Message:  se.Msg,
	}
	fmt.Fprint(w, formatter.GenerateFormattedIssue([]tt.Issue{issue}, formatter.NewSourceCode(src)))
	return true
}
