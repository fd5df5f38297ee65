package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/sqve/branchlink/internal/logger"
)

// Entry represents a cached value
type Entry[V any] struct {
	Value     V
	Timestamp time.Time
	TTL       time.Duration
}

// IsExpired checks if the entry has expired at now
func (e *Entry[V]) IsExpired(now time.Time) bool {
	return now.Sub(e.Timestamp) > e.TTL
}

// Cache is a TTL cache keyed by string. A zero TTL disables caching.
type Cache[V any] struct {
	entries map[string]*Entry[V]
	ttl     time.Duration
	now     func() time.Time
	mutex   sync.RWMutex
}

// New creates a cache whose entries live for ttl
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]*Entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.now = now
	return c
}

// Get retrieves a cached value
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if entry.IsExpired(c.now()) {
		c.Delete(key)
		return zero, false
	}

	return entry.Value, true
}

// Set stores a value in the cache
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = &Entry[V]{
		Value:     value,
		Timestamp: c.now(),
		TTL:       c.ttl,
	}
}

// Delete removes a cache entry
func (c *Cache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Size returns the number of cached entries
func (c *Cache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// CleanupExpired removes expired entries
func (c *Cache[V]) CleanupExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	cleaned := 0
	for key, entry := range c.entries {
		if entry.IsExpired(now) {
			delete(c.entries, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		logger.WithComponent("cache").Debug("cleaned up expired cache entries", "count", cleaned, "remaining", len(c.entries))
	}
}

// Key joins parts into a cache key
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
