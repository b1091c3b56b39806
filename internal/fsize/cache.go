package fsize

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cached directory measurement stays fresh.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	stats      Stats
	computedAt time.Time
}

// Cache memoizes directory measurements keyed by absolute path. It is
// safe for concurrent use; entries are overwritten (not merged) when
// they expire and the path is measured again. Entries are never
// invalidated on deletion - callers that delete a path should Clear or
// accept staleness until the TTL lapses.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates an empty cache with the given TTL. A non-positive
// ttl falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached stats for path if present and fresh.
func (c *Cache) Get(path string) (Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path]
	if !ok {
		return Stats{}, false
	}
	if c.now().Sub(entry.computedAt) >= c.ttl {
		return Stats{}, false
	}
	return entry.stats, true
}

// Put stores or replaces the entry for path.
func (c *Cache) Put(path string, stats Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{stats: stats, computedAt: c.now()}
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
