package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/cssrules/batch"
	"github.com/gnoswap-labs/cssrules/formatter"
	tt "github.com/gnoswap-labs/cssrules/internal/types"
	"github.com/gnoswap-labs/cssrules/unit"
)

var (
	matchRule       string
	matchJSONOutput bool
	matchCaptures   bool
	outPath         string
	cacheDir        string
)

var matchCmd = &cobra.Command{
	Use:   "match [paths...|-]",
	Short: "Match input files against a grammar rule",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		opts := unit.Options{IgnoreWhitespace: noWhitespace, IgnoreComments: noComments}
		engine, err := batch.NewFromFile(cfgFile, matchRule, opts)
		if err != nil {
			logger.Fatal("Failed to initialize match engine", zap.String("grammar", cfgFile), zap.Error(err))
		}

		var m batch.Matcher = engine
		var cache *batch.Cache
		if cacheDir != "" {
			cache, err = openCache(cacheDir, cfgFile, engine.Rule(), opts)
			if err != nil {
				logger.Fatal("Failed to open result cache", zap.String("dir", cacheDir), zap.Error(err))
			}
			m = batch.NewCachedMatcher(engine, cache)
		}

		out := output{json: matchJSONOutput, path: outPath, captures: matchCaptures}
		failed, err := runMatch(ctx, logger, os.Stdout, os.Stdin, m, args, out)
		if cache != nil {
			if err := cache.Save(); err != nil {
				logger.Error("Failed to save result cache", zap.Error(err))
			}
		}
		if err != nil {
			logger.Error("Error processing inputs", zap.Error(err))
			os.Exit(1)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchRule, "rule", "r", "", "Rule to match (default: the grammar entry)")
	matchCmd.Flags().BoolVar(&matchJSONOutput, "json", false, "Output results in JSON format")
	matchCmd.Flags().BoolVar(&matchCaptures, "captures", false, "Print the captures of matching inputs")
	matchCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	matchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory of the result cache (disabled when empty)")
	matchCmd.Flags().BoolVar(&noWhitespace, "no-ws", false, "Drop whitespace units before matching")
	matchCmd.Flags().BoolVar(&noComments, "no-comments", false, "Drop comment units before matching")
}

func openCache(dir, grammarPath, rule string, opts unit.Options) (*batch.Cache, error) {
	key, err := batch.GrammarKey(grammarPath, rule, opts)
	if err != nil {
		return nil, err
	}
	return batch.NewCache(dir, key)
}

type output struct {
	json     bool
	path     string
	captures bool
}

// runMatch matches every path, "-" being standard input, prints the results
// and returns the number of rejected inputs.
func runMatch(
	ctx context.Context,
	logger *zap.Logger,
	w io.Writer,
	stdin io.Reader,
	engine batch.Matcher,
	paths []string,
	out output,
) (int, error) {
	var (
		results []tt.Result
		files   []string
		sources = make(map[string][]byte)
	)
	for _, path := range paths {
		if path != stdinName {
			files = append(files, path)
			continue
		}
		name, src, err := readInput(nil, stdin)
		if err != nil {
			return 0, err
		}
		res, err := batch.ProcessSource(engine, name, src)
		if err != nil {
			return 0, err
		}
		sources[name] = src
		results = append(results, res)
	}

	if len(files) > 0 {
		var progress io.Writer
		if !out.json {
			progress = os.Stderr
		}
		fileResults, err := batch.ProcessFiles(ctx, logger, engine, files, batch.ProcessFile, progress)
		if err != nil {
			return 0, err
		}
		results = append(results, fileResults...)
	}

	if err := printResults(logger, w, results, sources, out); err != nil {
		return 0, err
	}
	return batch.Failed(results), nil
}

func printResults(logger *zap.Logger, w io.Writer, results []tt.Result, sources map[string][]byte, out output) error {
	if out.json {
		return writeJSON(w, results, out.path)
	}

	for _, res := range results {
		if res.OK() {
			if out.captures {
				fmt.Fprintf(w, "ok %s\n", res.Filename)
				for _, c := range res.Captures {
					writeCapture(w, c)
				}
			}
			continue
		}

		var source *formatter.SourceCode
		if src, ok := sources[res.Filename]; ok {
			source = formatter.NewSourceCode(src)
		} else if sc, err := formatter.ReadSourceCode(res.Filename); err == nil {
			source = sc
		} else {
			logger.Error("Error reading source file", zap.String("file", res.Filename), zap.Error(err))
		}
		fmt.Fprint(w, formatter.GenerateFormattedIssue(res.Issues, source))
	}
	fmt.Fprintf(w, "%d inputs, %d failed\n", len(results), batch.Failed(results))
	return nil
}

func writeCapture(w io.Writer, c tt.Capture) {
	if c.Name != "" {
		fmt.Fprintf(w, "  %s = %s\n", c.Name, formatter.FormatValue(c.Value))
		return
	}
	fmt.Fprintf(w, "  %s\n", formatter.FormatValue(c.Value))
}

func writeJSON(w io.Writer, results []tt.Result, path string) error {
	plain := make([]tt.Result, len(results))
	for i, res := range results {
		plain[i] = res
		plain[i].Captures = make([]tt.Capture, len(res.Captures))
		for j, c := range res.Captures {
			plain[i].Captures[j] = tt.Capture{Name: c.Name, Value: formatter.Plain(c.Value)}
		}
	}

	d, err := json.Marshal(plain)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
