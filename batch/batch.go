// Package batch matches many inputs against one compiled grammar rule.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/cssrules/formatter"
	tt "github.com/gnoswap-labs/cssrules/internal/types"
	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/scanner"
)

// Processor runs one file through a Matcher.
type Processor func(Matcher, string) (tt.Result, error)

// SourceProcessor runs one named in-memory source through a Matcher.
type SourceProcessor func(Matcher, string, []byte) (tt.Result, error)

// ProcessFile is the default Processor.
func ProcessFile(engine Matcher, filePath string) (tt.Result, error) {
	return engine.Run(filePath)
}

// ProcessSource is the default SourceProcessor.
func ProcessSource(engine Matcher, name string, source []byte) (tt.Result, error) {
	return engine.RunSource(name, source)
}

// ProcessSources matches sources in order. Source i is named "<source i>".
// The first processor error stops the run.
func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Matcher,
	sources [][]byte,
	processor SourceProcessor,
) ([]tt.Result, error) {
	results := make([]tt.Result, 0, len(sources))
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := processor(engine, fmt.Sprintf("<source %d>", i), source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ProcessFiles processes every path in turn. Directories are expanded to
// their input files; see ProcessPath.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Matcher,
	paths []string,
	processor Processor,
	progress io.Writer,
) ([]tt.Result, error) {
	var results []tt.Result
	for _, path := range paths {
		res, err := ProcessPath(ctx, logger, engine, path, processor, progress)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		results = append(results, res...)
	}
	return results, nil
}

// ProcessPath processes a single file, or every input file below a
// directory using up to runtime.NumCPU() workers. Results are sorted by
// filename. A file that cannot be processed yields a result carrying a
// run-error issue. A nil progress writer disables the progress bar.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Matcher,
	path string,
	processor Processor,
	progress io.Writer,
) ([]tt.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return []tt.Result{processOne(logger, engine, path, processor)}, nil
	}

	files, err := scanner.New(path).Scan(ctx)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	resultChan := make(chan tt.Result, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	started := 0
	for _, file := range files {
		select {
		case <-ctx.Done():
			for i := 0; i < started; i++ {
				<-resultChan
			}
			return nil, ctx.Err()
		case sem <- struct{}{}:
			started++
			go func(fp string) {
				defer func() { <-sem }()
				res := processOne(logger, engine, fp, processor)
				bar.Add(1)
				resultChan <- res
			}(file.Path)
		}
	}

	results := make([]tt.Result, 0, len(files))
	for range files {
		results = append(results, <-resultChan)
	}
	bar.Finish()
	fmt.Fprintln(progress)

	sort.Slice(results, func(i, j int) bool { return results[i].Filename < results[j].Filename })
	return results, nil
}

func processOne(logger *zap.Logger, engine Matcher, path string, processor Processor) tt.Result {
	res, err := processor(engine, path)
	if err == nil {
		return res
	}
	if logger != nil {
		logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
	}
	return tt.Result{
		Filename: path,
		Rule:     res.Rule,
		End:      matcher.NoMatch,
		Issues: []tt.Issue{{
			Kind:     formatter.RunError,
			Rule:     res.Rule,
			Filename: path,
			Severity: tt.SeverityError,
			Message:  err.Error(),
		}},
	}
}

// Failed counts the results carrying issues.
func Failed(results []tt.Result) int {
	n := 0
	for _, res := range results {
		if !res.OK() {
			n++
		}
	}
	return n
}
