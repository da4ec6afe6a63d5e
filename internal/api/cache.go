package api

import (
	"os"
	"strconv"
	"sync"

	"github.com/caddie/caddie/internal/store"
)

// InsightCache is a thread-safe LRU cache of stored insights keyed by round ID.
type InsightCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*store.Insight
	order   []string // oldest first
}

// NewInsightCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 256.
func NewInsightCache(maxSize int) *InsightCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &InsightCache{
		maxSize: maxSize,
		entries: make(map[string]*store.Insight),
	}
}

// NewInsightCacheFromEnv creates a cache with size from CADDIE_CACHE_SIZE env var.
func NewInsightCacheFromEnv() *InsightCache {
	size := 0
	if v := os.Getenv("CADDIE_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewInsightCache(size)
}

// Get returns the cached insight for roundID.
func (c *InsightCache) Get(roundID string) (*store.Insight, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	in, ok := c.entries[roundID]
	if !ok {
		return nil, false
	}
	c.moveToEnd(roundID)
	return in, true
}

// Put stores in under its round ID, replacing any older version and evicting
// the least recently used entry if full.
func (c *InsightCache) Put(in *store.Insight) {
	if in == nil || in.RoundID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[in.RoundID]; ok {
		c.entries[in.RoundID] = in
		c.moveToEnd(in.RoundID)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[in.RoundID] = in
	c.order = append(c.order, in.RoundID)
}

// Len reports the number of cached insights.
func (c *InsightCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *InsightCache) moveToEnd(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}
