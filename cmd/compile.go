package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/cssrules/rules"
)

var compileRule string

var compileCmd = &cobra.Command{
	Use:   "compile [grammar.yaml]",
	Short: "Compile a grammar file and print its rules",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if len(args) > 0 {
			path = args[0]
		}
		if err := runCompile(os.Stdout, path, compileRule); err != nil {
			logger.Error("Failed to compile grammar", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileRule, "rule", "r", "", "Print only this rule")
}

func runCompile(w io.Writer, path, rule string) error {
	g, err := rules.LoadFile(path, rules.Options{})
	if err != nil {
		return err
	}

	names := g.Names()
	if rule != "" {
		if _, ok := g.Rule(rule); !ok {
			return fmt.Errorf("%w: no rule %s", rules.ErrUnresolved, rule)
		}
		names = []string{rule}
	}

	fmt.Fprintf(w, "grammar %s (entry %s, %d rules)\n", g.Name, g.Entry, len(g.Names()))
	for _, name := range names {
		body, _ := g.Body(name)
		fmt.Fprintf(w, "%s: %s\n", name, body)
	}
	return nil
}
