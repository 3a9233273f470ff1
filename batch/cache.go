package batch

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnoswap-labs/cssrules/formatter"
	tt "github.com/gnoswap-labs/cssrules/internal/types"
	"github.com/gnoswap-labs/cssrules/unit"
)

const (
	cacheFileName   = "match_cache.gob"
	defaultCacheAge = 24 * time.Hour
)

func init() {
	// plain capture values
	gob.Register([]any{})
	gob.Register(map[string]any{})
}

type cacheEntry struct {
	Hash      string
	Key       string
	Result    tt.Result
	CreatedAt time.Time
}

// Cache stores match results per file, keyed by the file content and the
// grammar they were produced with. Captures are stored in plain form.
type Cache struct {
	CacheDir string
	key      string
	entries  map[string]cacheEntry
	mutex    sync.Mutex
	maxAge   time.Duration
}

// NewCache opens the cache in cacheDir for results of the grammar
// identified by key (see GrammarKey). Entries stored under another key
// are ignored.
func NewCache(cacheDir, key string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		key:      key,
		entries:  make(map[string]cacheEntry),
		maxAge:   defaultCacheAge,
	}
	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return cache, nil
}

// GrammarKey identifies the results of matching rule of the grammar file
// at path with opts.
func GrammarKey(path, rule string, opts unit.Options) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	hash := md5.New()
	hash.Write(src)
	fmt.Fprintf(hash, "\x00%s\x00%t\x00%t", rule, opts.IgnoreWhitespace, opts.IgnoreComments)
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.CacheDir, cacheFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

// Save writes the cache to disk.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	file, err := os.Create(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

func (c *Cache) Set(filename string, content []byte, res tt.Result) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[filename] = cacheEntry{
		Hash:      contentHash(content),
		Key:       c.key,
		Result:    res,
		CreatedAt: time.Now(),
	}
}

func (c *Cache) Get(filename string, content []byte) (tt.Result, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return tt.Result{}, false
	}
	if entry.Key != c.key || entry.Hash != contentHash(content) || time.Since(entry.CreatedAt) > c.maxAge {
		delete(c.entries, filename)
		return tt.Result{}, false
	}
	return entry.Result, true
}

func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]cacheEntry)
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}

// CachedMatcher serves file results from a Cache and stores the results
// it computes.
type CachedMatcher struct {
	Matcher
	cache *Cache
}

var _ Matcher = (*CachedMatcher)(nil)

func NewCachedMatcher(m Matcher, cache *Cache) *CachedMatcher {
	return &CachedMatcher{Matcher: m, cache: cache}
}

// Run returns the cached result for filename when its content is
// unchanged. Captures are always returned in plain form.
func (m *CachedMatcher) Run(filename string) (tt.Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return tt.Result{Filename: filename}, err
	}
	if res, ok := m.cache.Get(filename, content); ok {
		return res, nil
	}

	res, err := m.Matcher.RunSource(filename, content)
	if err != nil {
		return res, err
	}
	res = plainResult(res)
	m.cache.Set(filename, content, res)
	return res, nil
}

func plainResult(res tt.Result) tt.Result {
	if len(res.Captures) == 0 {
		return res
	}
	caps := make([]tt.Capture, len(res.Captures))
	for i, c := range res.Captures {
		caps[i] = tt.Capture{Name: c.Name, Value: formatter.Plain(c.Value)}
	}
	res.Captures = caps
	return res
}
