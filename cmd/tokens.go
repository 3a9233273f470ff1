package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/cssrules/formatter"
	"github.com/gnoswap-labs/cssrules/lexer"
	"github.com/gnoswap-labs/cssrules/unit"
)

var (
	noWhitespace bool
	noComments   bool
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file|-]",
	Short: "Print the tokens of an input",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTokens(os.Stdout, os.Stdin, args); err != nil {
			logger.Error("Failed to tokenize input", zap.Error(err))
			os.Exit(1)
		}
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units [file|-]",
	Short: "Print the unit tree of an input",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := unit.Options{IgnoreWhitespace: noWhitespace, IgnoreComments: noComments}
		if err := runUnits(os.Stdout, os.Stdin, args, opts); err != nil {
			logger.Error("Failed to build unit tree", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	unitsCmd.Flags().BoolVar(&noWhitespace, "no-ws", false, "Drop whitespace units")
	unitsCmd.Flags().BoolVar(&noComments, "no-comments", false, "Drop comment units")
}

func runTokens(w io.Writer, stdin io.Reader, args []string) error {
	name, src, err := readInput(args, stdin)
	if err != nil {
		return err
	}
	tokens, err := lexer.Lex(string(src))
	if err != nil {
		if writeSyntaxError(w, name, src, err) {
			return errSyntax
		}
		return err
	}
	fmt.Fprint(w, formatter.FormatTokens(tokens))
	return nil
}

func runUnits(w io.Writer, stdin io.Reader, args []string, opts unit.Options) error {
	name, src, err := readInput(args, stdin)
	if err != nil {
		return err
	}
	units, err := unit.Parse(string(src), opts)
	if err != nil {
		if writeSyntaxError(w, name, src, err) {
			return errSyntax
		}
		return err
	}
	fmt.Fprint(w, formatter.FormatUnits(units))
	return nil
}
