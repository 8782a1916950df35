package auth

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// Cache is a bounded TTL cache for token material. Entries are never valid
// past their expiry: staleness is checked at read time, and expired entries
// are deleted lazily. When the cache is full, inserting evicts expired
// entries first, then the live entry closest to expiry.
//
// Caches are instance-scoped and injectable rather than process-wide so
// tests get isolated state.
type Cache[V any] struct {
	mu      sync.RWMutex
	max     int
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewCache creates a cache holding at most max entries. A max of 0 or less
// falls back to DefaultCacheSize.
func NewCache[V any](max int) *Cache[V] {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache[V]{
		max:     max,
		entries: make(map[string]cacheEntry[V]),
	}
}

// Get returns the cached value if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()

	entry, exists := c.entries[key]
	if !exists {
		c.mu.RUnlock()
		var zero V
		return zero, false
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.RUnlock()
		go c.deleteExpired(key)
		var zero V
		return zero, false
	}

	c.mu.RUnlock()
	return entry.value, true
}

// deleteExpired safely deletes an expired entry from the cache
func (c *Cache[V]) deleteExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[key]; exists && time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
	}
}

// Set stores value under key until expiresAt, evicting if the cache is full.
func (c *Cache[V]) Set(key string, value V, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		c.evictLocked()
	}

	c.entries[key] = cacheEntry[V]{value: value, expiresAt: expiresAt}
}

// evictLocked frees one slot. Expired entries go first; if none are expired
// the entry closest to expiry is dropped.
func (c *Cache[V]) evictLocked() {
	now := time.Now()
	var (
		soonestKey string
		soonestAt  time.Time
		found      bool
	)

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			return
		}
		if !found || entry.expiresAt.Before(soonestAt) {
			soonestKey = key
			soonestAt = entry.expiresAt
			found = true
		}
	}

	if found {
		delete(c.entries, soonestKey)
	}
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// tokenHash derives a cache key from token material so raw bearer tokens
// never sit in map keys or log lines.
func tokenHash(material string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(material)))
}
