package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/cssrules/formatter"
	tt "github.com/gnoswap-labs/cssrules/internal/types"
	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/rules"
	"github.com/gnoswap-labs/cssrules/unit"
)

type mockMatcher struct {
	mock.Mock
}

func (m *mockMatcher) Run(filename string) (tt.Result, error) {
	args := m.Called(filename)
	return args.Get(0).(tt.Result), args.Error(1)
}

func (m *mockMatcher) RunSource(name string, source []byte) (tt.Result, error) {
	args := m.Called(name, source)
	return args.Get(0).(tt.Result), args.Error(1)
}

const listGrammar = `list: CAP(identifier) (',' CAP(identifier))*`

func newListEngine(t *testing.T) *Engine {
	t.Helper()
	g, err := rules.Compile(listGrammar, rules.Options{})
	require.NoError(t, err)
	e, err := New(g, "list", unit.Options{})
	require.NoError(t, err)
	return e
}

func TestRunSource(t *testing.T) {
	t.Parallel()
	engine := newListEngine(t)

	tests := []struct {
		name     string
		input    string
		end      int
		captures []tt.Capture
		issue    *tt.Issue
	}{
		{
			name:     "whole input",
			input:    "a, b",
			end:      4,
			captures: []tt.Capture{{Value: "a"}, {Value: "b"}},
		},
		{
			name:     "trailing whitespace",
			input:    "a  ",
			end:      1,
			captures: []tt.Capture{{Value: "a"}},
		},
		{
			name:  "incomplete",
			input: "a b",
			end:   1,
			issue: &tt.Issue{
				Kind:    formatter.IncompleteMatch,
				Start:   tt.Position{Offset: 2, Line: 1, Column: 3},
				End:     tt.Position{Offset: 3, Line: 1, Column: 4},
				Message: "rule list matched 1 of 3 units",
			},
		},
		{
			name:  "no match",
			input: "\n, a",
			end:   matcher.NoMatch,
			issue: &tt.Issue{
				Kind:    formatter.NoMatch,
				Start:   tt.Position{Offset: 1, Line: 2, Column: 1},
				End:     tt.Position{Offset: 2, Line: 2, Column: 2},
				Message: "input does not match rule list",
			},
		},
		{
			name:  "empty input",
			input: "",
			end:   matcher.NoMatch,
			issue: &tt.Issue{
				Kind:    formatter.NoMatch,
				Start:   tt.Position{Offset: 0, Line: 1, Column: 1},
				End:     tt.Position{Offset: 0, Line: 1, Column: 1},
				Message: "input does not match rule list",
			},
		},
		{
			name:  "syntax error",
			input: "a (",
			end:   matcher.NoMatch,
			issue: &tt.Issue{
				Kind:    formatter.SyntaxError,
				Start:   tt.Position{Offset: 2, Line: 1, Column: 3},
				End:     tt.Position{Offset: 3, Line: 1, Column: 4},
				Message: "unbalanced brackets: 1 left open",
			},
		},
		{
			name:  "container spans",
			input: "a f(x, y) b",
			end:   1,
			issue: &tt.Issue{
				Kind:    formatter.IncompleteMatch,
				Start:   tt.Position{Offset: 2, Line: 1, Column: 3},
				End:     tt.Position{Offset: 9, Line: 1, Column: 10},
				Message: "rule list matched 1 of 5 units",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := engine.RunSource("in.css", []byte(tc.input))
			require.NoError(t, err)

			assert.Equal(t, "in.css", res.Filename)
			assert.Equal(t, "list", res.Rule)
			assert.Equal(t, tc.end, res.End)
			if tc.issue == nil {
				assert.True(t, res.OK())
				assert.Equal(t, tc.captures, res.Captures)
				return
			}

			require.Len(t, res.Issues, 1)
			expected := *tc.issue
			expected.Rule = "list"
			expected.Filename = "in.css"
			expected.Severity = tt.SeverityError
			assert.Equal(t, expected, res.Issues[0])
			assert.Empty(t, res.Captures)
		})
	}
}

func TestRunSourceGrammarError(t *testing.T) {
	t.Parallel()
	g, err := rules.Compile(`r: ()*`, rules.Options{})
	require.NoError(t, err)
	engine, err := New(g, "r", unit.Options{})
	require.NoError(t, err)

	_, err = engine.RunSource("in.css", []byte("a"))
	assert.ErrorIs(t, err, matcher.ErrZeroWidthRepeat)
}

func TestNew(t *testing.T) {
	t.Parallel()
	g, err := rules.Compile(listGrammar, rules.Options{})
	require.NoError(t, err)

	_, err = New(g, "missing", unit.Options{})
	assert.ErrorIs(t, err, rules.ErrUnresolved)

	g.Entry = "list"
	e, err := New(g, "", unit.Options{})
	require.NoError(t, err)
	assert.Equal(t, "list", e.Rule())
}

func TestNewFromFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: list\nrules: \""+listGrammar+"\"\n"), 0o644))
	input := filepath.Join(dir, "in.css")
	require.NoError(t, os.WriteFile(input, []byte("x,y"), 0o644))

	engine, err := NewFromFile(path, "", unit.Options{})
	require.NoError(t, err)
	assert.Equal(t, "list", engine.Rule())

	res, err := engine.Run(input)
	require.NoError(t, err)
	assert.True(t, res.OK())

	_, err = engine.Run(filepath.Join(dir, "missing.css"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	expected := tt.Result{Filename: "test.css", Rule: "r", End: 3, Units: 3}
	engine := new(mockMatcher)
	engine.On("Run", "test.css").Return(expected, nil)

	res, err := ProcessFile(engine, "test.css")

	assert.NoError(t, err)
	assert.Equal(t, expected, res)
	engine.AssertExpectations(t)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	sources := [][]byte{[]byte("a"), []byte("b")}

	engine := new(mockMatcher)
	engine.On("RunSource", "<source 0>", sources[0]).Return(tt.Result{Filename: "<source 0>"}, nil)
	engine.On("RunSource", "<source 1>", sources[1]).Return(tt.Result{Filename: "<source 1>"}, nil)

	results, err := ProcessSources(context.Background(), zap.NewNop(), engine, sources, ProcessSource)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "<source 0>", results[0].Filename)
	assert.Equal(t, "<source 1>", results[1].Filename)
	engine.AssertExpectations(t)
}

func TestProcessSourcesStopsOnError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	sources := [][]byte{[]byte("a"), []byte("b")}

	engine := new(mockMatcher)
	engine.On("RunSource", "<source 0>", sources[0]).Return(tt.Result{}, boom)

	_, err := ProcessSources(context.Background(), zap.NewNop(), engine, sources, ProcessSource)
	assert.ErrorIs(t, err, boom)
	engine.AssertNotCalled(t, "RunSource", "<source 1>", sources[1])
}

func writeInputs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return root
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	root := writeInputs(t, map[string]string{
		"a.css":     "a, b",
		"b.css":     ", a",
		"sub/c.txt": "x",
		"d.md":      ", ignored",
	})
	engine := newListEngine(t)

	results, err := ProcessPath(context.Background(), zap.NewNop(), engine, root, ProcessFile, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(root, "a.css"), results[0].Filename)
	assert.Equal(t, filepath.Join(root, "b.css"), results[1].Filename)
	assert.Equal(t, filepath.Join(root, "sub", "c.txt"), results[2].Filename)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.True(t, results[2].OK())
	assert.Equal(t, 1, Failed(results))
}

func TestProcessPathProgress(t *testing.T) {
	t.Parallel()
	root := writeInputs(t, map[string]string{
		"a.css": "a",
		"b.css": "b",
		"c.css": "c",
	})

	var progress bytes.Buffer
	results, err := ProcessPath(context.Background(), zap.NewNop(), newListEngine(t), root, ProcessFile, &progress)
	require.NoError(t, err)
	require.Len(t, results, 3)

	out := progress.String()
	require.True(t, strings.HasSuffix(out, "\n"), "progress output %q", out)
	last := strings.LastIndex(out, "3/3")
	require.NotEqual(t, -1, last, "progress output %q", out)
	// every tick lands before the closing newline
	assert.Equal(t, -1, strings.Index(out[last:], "\r"), "progress output %q", out)
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()
	root := writeInputs(t, map[string]string{"notes.md": "a"})
	path := filepath.Join(root, "notes.md")

	engine := new(mockMatcher)
	engine.On("Run", path).Return(tt.Result{Filename: path, Rule: "r"}, nil)

	results, err := ProcessPath(context.Background(), nil, engine, path, ProcessFile, nil)
	require.NoError(t, err)
	assert.Equal(t, []tt.Result{{Filename: path, Rule: "r"}}, results)
	engine.AssertExpectations(t)
}

func TestProcessPathProcessorError(t *testing.T) {
	t.Parallel()
	root := writeInputs(t, map[string]string{"a.css": "a"})
	path := filepath.Join(root, "a.css")

	engine := new(mockMatcher)
	engine.On("Run", path).Return(tt.Result{Rule: "r"}, errors.New("recursion limit"))

	results, err := ProcessPath(context.Background(), zap.NewNop(), engine, root, ProcessFile, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Issues, 1)

	issue := results[0].Issues[0]
	assert.Equal(t, formatter.RunError, issue.Kind)
	assert.Equal(t, "r", issue.Rule)
	assert.Equal(t, path, issue.Filename)
	assert.Equal(t, "recursion limit", issue.Message)
	assert.Equal(t, matcher.NoMatch, results[0].End)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	root := writeInputs(t, map[string]string{"a.css": "a", "b.css": ", b"})
	engine := newListEngine(t)

	paths := []string{filepath.Join(root, "b.css"), filepath.Join(root, "a.css")}
	results, err := ProcessFiles(context.Background(), zap.NewNop(), engine, paths, ProcessFile, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, paths[0], results[0].Filename)
	assert.Equal(t, paths[1], results[1].Filename)

	_, err = ProcessFiles(context.Background(), zap.NewNop(), engine,
		[]string{filepath.Join(root, "missing.css")}, ProcessFile, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessPathCanceled(t *testing.T) {
	t.Parallel()
	root := writeInputs(t, map[string]string{"a.css": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProcessPath(ctx, zap.NewNop(), newListEngine(t), root, ProcessFile, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
