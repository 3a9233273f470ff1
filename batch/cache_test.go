package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/cssrules/internal/types"
	"github.com/gnoswap-labs/cssrules/matcher"
	"github.com/gnoswap-labs/cssrules/unit"
)

func TestCache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cache, err := NewCache(filepath.Join(dir, "cache"), "k1")
	require.NoError(t, err)

	res := tt.Result{
		Filename: "a.css",
		Rule:     "r",
		End:      2,
		Units:    2,
		Captures: []tt.Capture{
			{Name: "x", Value: []any{"a", 1.0, nil}},
			{Value: map[string]any{"b": true}},
		},
	}
	content := []byte("a b")

	_, ok := cache.Get("a.css", content)
	assert.False(t, ok)

	cache.Set("a.css", content, res)
	got, ok := cache.Get("a.css", content)
	require.True(t, ok)
	assert.Equal(t, res, got)

	_, ok = cache.Get("a.css", []byte("changed"))
	assert.False(t, ok, "changed content")

	cache.Set("a.css", content, res)
	require.NoError(t, cache.Save())

	reloaded, err := NewCache(filepath.Join(dir, "cache"), "k1")
	require.NoError(t, err)
	got, ok = reloaded.Get("a.css", content)
	require.True(t, ok)
	assert.Equal(t, res, got)

	otherGrammar, err := NewCache(filepath.Join(dir, "cache"), "k2")
	require.NoError(t, err)
	_, ok = otherGrammar.Get("a.css", content)
	assert.False(t, ok, "other grammar key")

	reloaded.SetMaxAge(-time.Second)
	_, ok = reloaded.Get("a.css", content)
	assert.False(t, ok, "expired")

	cache.InvalidateAll()
	_, ok = cache.Get("a.css", content)
	assert.False(t, ok, "invalidated")
}

func TestGrammarKey(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "g.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: \"a: b\""), 0o644))

	k1, err := GrammarKey(path, "a", unit.Options{})
	require.NoError(t, err)
	k2, err := GrammarKey(path, "a", unit.Options{IgnoreComments: true})
	require.NoError(t, err)
	k3, err := GrammarKey(path, "b", unit.Options{})
	require.NoError(t, err)
	again, err := GrammarKey(path, "a", unit.Options{})
	require.NoError(t, err)

	assert.Equal(t, k1, again)
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)

	_, err = GrammarKey(filepath.Join(dir, "missing.yaml"), "a", unit.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCachedMatcher(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.css")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	units, err := unit.Parse("a", unit.Options{})
	require.NoError(t, err)
	call, err := unit.Parse("not(.x)", unit.Options{})
	require.NoError(t, err)

	engine := new(mockMatcher)
	engine.On("RunSource", path, []byte("a")).Return(tt.Result{
		Filename: path,
		Rule:     "r",
		End:      1,
		Captures: []tt.Capture{{Value: units[0]}, {Value: matcher.Undefined}, {Name: "function", Value: call[0]}},
	}, nil).Once()

	cache, err := NewCache(filepath.Join(dir, "cache"), "k")
	require.NoError(t, err)
	cached := NewCachedMatcher(engine, cache)

	expected := tt.Result{
		Filename: path,
		Rule:     "r",
		End:      1,
		Captures: []tt.Capture{{Value: "a"}, {Value: nil}, {Name: "function", Value: "not(.x)"}},
	}
	for i := 0; i < 2; i++ {
		res, err := cached.Run(path)
		require.NoError(t, err)
		assert.Equal(t, expected, res)
	}
	engine.AssertNumberOfCalls(t, "RunSource", 1)

	_, err = cached.Run(filepath.Join(dir, "missing.css"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
