package api

import (
	"os"
	"strconv"
	"sync"

	"github.com/autograde/autograde/pkg/report"
)

// BundleCache is a thread-safe LRU cache for decoded result bundles.
type BundleCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*report.Bundle
	order   []string // oldest first
}

// NewBundleCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 20.
func NewBundleCache(maxSize int) *BundleCache {
	if maxSize <= 0 {
		maxSize = 20
	}
	return &BundleCache{
		maxSize: maxSize,
		entries: make(map[string]*report.Bundle),
	}
}

// NewBundleCacheFromEnv creates a cache with size from BUNDLE_CACHE_SIZE env var.
func NewBundleCacheFromEnv() *BundleCache {
	size := 20
	if v := os.Getenv("BUNDLE_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewBundleCache(size)
}

// Get retrieves a bundle from the cache, or nil if not found.
func (c *BundleCache) Get(key string) *report.Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.moveToEnd(key)
	return b
}

// Put adds a bundle to the cache, evicting the least recently used if full.
func (c *BundleCache) Put(key string, b *report.Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = b
		c.moveToEnd(key)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = b
	c.order = append(c.order, key)
}

// Len returns the number of cached bundles.
func (c *BundleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *BundleCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
