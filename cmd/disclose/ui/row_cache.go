package ui

import (
	"hash/fnv"
	"sync"
)

// RowCache memoizes rendered table rows keyed by record identity and
// layout. Re-rendering the same window while scrolling is the hot path;
// styling a row with lipgloss is much more expensive than a map hit.
type RowCache struct {
	mu    sync.Mutex
	cache map[uint64]string
	max   int
}

// NewRowCache creates a cache bounded to max entries.
func NewRowCache(max int) *RowCache {
	return &RowCache{cache: make(map[uint64]string), max: max}
}

// Key hashes the inputs that determine a row's rendered form.
func Key(inputs ...string) uint64 {
	h := fnv.New64a()
	for _, s := range inputs {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Get returns the cached rendering, if present.
func (c *RowCache) Get(key uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.cache[key]
	return s, ok
}

// Set stores a rendering. When full, the cache is dropped wholesale; the
// working set is one window of rows, so a full rebuild is cheap.
func (c *RowCache) Set(key uint64, rendered string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.cache) >= c.max {
		c.cache = make(map[uint64]string, c.max)
	}
	c.cache[key] = rendered
}

// Clear empties the cache. Called when the dataset or layout changes.
func (c *RowCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[uint64]string)
}
