// Package cache provides a bounded, concurrency-safe TTL cache for weather
// reports. Expired entries are removed lazily (on read, or swept on write);
// under capacity pressure the entry written longest ago is evicted first
// (strict FIFO by write order, not LRU).
package cache

import (
	"sync"
	"time"

	"github.com/i474232898/weather-gateway/internal/weather"
)

// DefaultMaxSize bounds the cache when no explicit size is configured.
const DefaultMaxSize = 1000

type entry struct {
	value     weather.Report
	expiresAt time.Time
	seq       uint64
}

// Cache is a bounded key->Report store with per-entry expiry. One instance
// is shared by all request handlers; a single mutex guards the whole map so
// no lookup ever observes a partially swept or partially evicted state.
// Stored values are cloned on the way in and on the way out, so callers can
// never mutate a cached entry through a returned report.
type Cache struct {
	mu      sync.Mutex
	items   map[string]entry
	maxSize int
	seq     uint64
}

// New creates a Cache holding at most maxSize live entries. A non-positive
// maxSize falls back to DefaultMaxSize.
func New(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		items:   make(map[string]entry),
		maxSize: maxSize,
	}
}

// Get returns a copy of the value stored under key, if present and not
// expired. A lookup that finds an expired entry deletes it. Absence is not
// an error.
func (c *Cache) Get(key string) (weather.Report, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return weather.Report{}, false
	}
	if !e.expiresAt.After(now) {
		delete(c.items, key)
		return weather.Report{}, false
	}
	return e.value.Clone(), true
}

// Set stores a copy of value under key with the given TTL. Atomically with
// respect to concurrent callers it first drops every expired entry, then, if
// the store is still at capacity, evicts the entry with the smallest
// sequence number. Overwriting an existing key assigns a fresh sequence
// number, moving it to the back of the eviction queue.
func (c *Cache) Set(key string, value weather.Report, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	for k, e := range c.items {
		if !e.expiresAt.After(now) {
			delete(c.items, k)
		}
	}

	if len(c.items) >= c.maxSize {
		var oldestKey string
		var oldestSeq uint64
		first := true
		for k, e := range c.items {
			if first || e.seq < oldestSeq {
				oldestKey = k
				oldestSeq = e.seq
				first = false
			}
		}
		delete(c.items, oldestKey)
	}

	c.seq++
	c.items[key] = entry{
		value:     value.Clone(),
		expiresAt: now.Add(ttl),
		seq:       c.seq,
	}
}

// Len reports the number of stored entries, expired or not. Intended for
// tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
