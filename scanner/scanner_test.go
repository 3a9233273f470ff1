package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return root
}

func TestScan(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"b.css":            "a {}",
		"a.TXT":            "x",
		"notes.md":         "# notes",
		"sub/c.css":        "b {}",
		".git/d.css":       "ignored",
		"sub/.cache/e.css": "ignored",
	})

	tests := []struct {
		name       string
		extensions []string
		expected   []string
	}{
		{
			name:     "default extensions",
			expected: []string{"a.TXT", "b.css", "sub/c.css"},
		},
		{
			name:       "explicit extensions",
			extensions: []string{".md"},
			expected:   []string{"notes.md"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			files, err := New(root, tc.extensions...).Scan(context.Background())
			require.NoError(t, err)

			var paths []string
			for _, f := range files {
				rel, err := filepath.Rel(root, f.Path)
				require.NoError(t, err)
				paths = append(paths, filepath.ToSlash(rel))
				assert.Greater(t, f.Size, int64(0))
			}
			assert.Equal(t, tc.expected, paths)
		})
	}
}

func TestScanCanceled(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{"a.css": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(root).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(t.TempDir(), "missing")).Scan(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
