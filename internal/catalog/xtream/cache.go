package xtream

import (
	"context"
	"sync"
	"time"

	"github.com/vklink/flix/internal/catalog"
)

// ListCache caches full category/catalog item lists. Global search
// fetches the provider's entire movie and series lists before filtering,
// so repeated keystrokes would otherwise hammer the panel.
type ListCache interface {
	Get(ctx context.Context, key string) ([]catalog.Item, bool)
	Set(ctx context.Context, key string, items []catalog.Item, ttl time.Duration)
}

type memoryEntry struct {
	items   []catalog.Item
	expires time.Time
}

// MemoryCache is the default in-process ListCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCache creates an empty in-memory list cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached list if present and unexpired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]catalog.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.items, true
}

// Set stores a list with the given TTL.
func (c *MemoryCache) Set(_ context.Context, key string, items []catalog.Item, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		items:   items,
		expires: time.Now().Add(ttl),
	}
}

// Prune removes expired entries and reports how many were dropped.
func (c *MemoryCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	n := 0
	for key, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}
