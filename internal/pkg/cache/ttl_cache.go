// Package cache provides a bounded, TTL-based in-process cache with hit and
// miss statistics.
//
// Storage, expiry and size-bounded eviction come from golang-lru's expirable
// LRU. A stale entry is never returned; expired entries are swept in the
// background. When the cache is full the least recently used entry is evicted.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Config configures a TTLCache.
type Config struct {
	MaxSize int
	TTL     time.Duration
}

// DefaultConfig returns a one-hour, 1000-entry cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize: 1000,
		TTL:     time.Hour,
	}
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Size        int
	MaxSize     int
	Hits        int64
	Misses      int64
	Expired     int64
	Evicted     int64
	Utilization float64
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is safe for concurrent use.
type TTLCache[K comparable, V any] struct {
	lru     *expirable.LRU[K, entry[V]]
	maxSize int
	ttl     time.Duration

	hits    atomic.Int64
	misses  atomic.Int64
	expired atomic.Int64
	evicted atomic.Int64
}

func New[K comparable, V any](cfg Config) *TTLCache[K, V] {
	defaults := DefaultConfig()
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaults.MaxSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}

	c := &TTLCache[K, V]{
		maxSize: cfg.MaxSize,
		ttl:     cfg.TTL,
	}
	c.lru = expirable.NewLRU[K, entry[V]](cfg.MaxSize, c.onRemoved, cfg.TTL)
	return c
}

// Get returns the cached value for key if it is present and fresh.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return e.value, true
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	if c.lru.Add(key, entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}) {
		c.evicted.Add(1)
	}
}

// Invalidate drops the given keys and reports how many were present.
func (c *TTLCache[K, V]) Invalidate(keys ...K) int {
	removed := 0
	for _, key := range keys {
		if c.lru.Remove(key) {
			removed++
		}
	}
	return removed
}

func (c *TTLCache[K, V]) Clear() {
	c.lru.Purge()
}

func (c *TTLCache[K, V]) Stats() Stats {
	size := c.lru.Len()
	return Stats{
		Size:        size,
		MaxSize:     c.maxSize,
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Expired:     c.expired.Load(),
		Evicted:     c.evicted.Load(),
		Utilization: float64(size) / float64(c.maxSize),
	}
}

// onRemoved runs for every entry leaving the LRU. Only removals past the
// entry's deadline count as expiries; evictions are counted by Set.
func (c *TTLCache[K, V]) onRemoved(_ K, e entry[V]) {
	if !time.Now().Before(e.expiresAt) {
		c.expired.Add(1)
	}
}
