package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/cssrules/rules"
	"github.com/gnoswap-labs/cssrules/selectors"
)

var forceInit bool

// initCmd: cssrules init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter grammar file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initGrammarFile(cfgFile, forceInit); err != nil {
			logger.Error("Error initializing grammar file", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Grammar file created: %s\n", cfgFile)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

// initGrammarFile writes the selector grammar as a starting point.
func initGrammarFile(path string, force bool) error {
	if path == "" {
		path = defaultConfig
	}

	grammar := rules.File{
		Name:  "selectors",
		Entry: "selectors",
		Rules: selectors.Source,
	}
	d, err := yaml.Marshal(grammar)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
