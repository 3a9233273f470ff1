package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/cssrules/selectors"
)

var (
	selectorRelative bool
	selectorJSON     bool
)

var selectorCmd = &cobra.Command{
	Use:   "selector <text>",
	Short: "Parse a CSS selector list with the built-in selector grammar",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text := strings.Join(args, " ")
		if err := runSelector(os.Stdout, text, selectorRelative, selectorJSON); err != nil {
			logger.Error("Failed to parse selector", zap.String("selector", text), zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	selectorCmd.Flags().BoolVar(&selectorRelative, "relative", false, "Parse a relative selector list")
	selectorCmd.Flags().BoolVar(&selectorJSON, "json", false, "Output the parsed selectors in JSON format")
}

func runSelector(w io.Writer, text string, relative, asJSON bool) error {
	var (
		parsed any
		lines  []string
	)
	if relative {
		list, err := selectors.ParseRelative(text)
		if err != nil {
			return err
		}
		for _, steps := range list {
			lines = append(lines, strings.TrimSpace(selectors.Selector{Subsequent: steps}.String()))
		}
		parsed = list
	} else {
		list, err := selectors.Parse(text)
		if err != nil {
			return err
		}
		for _, s := range list {
			lines = append(lines, s.String())
		}
		parsed = list
	}

	if asJSON {
		d, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}
