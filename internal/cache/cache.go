// Package cache provides a small expiring key/value store used to memoize
// expensive derivations: player-script token extraction, per-cookie identity
// tokens, and watch-page bodies.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/DjDeveloperr/ytdl-core/internal/logger"
)

func clog() *logger.ComponentLogger { return logger.WithComponent(logger.ComponentCache) }

// DefaultTTL is applied when New is called with a non-positive timeout.
const DefaultTTL = time.Second

type entry[V any] struct {
	value V
	timer *time.Timer
}

// Cache is a TTL map keyed by string. Overwriting a key cancels and replaces
// the prior expiry timer, so a stale timer can never evict a fresh value.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry[V]
	group   singleflight.Group
}

// New creates a cache whose entries expire after ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]*entry[V]),
	}
}

// Get returns the live value for key, if any.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the cache TTL. A previous entry's timer is
// stopped before being replaced.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[key]; ok {
		prev.timer.Stop()
	}
	e := &entry[V]{value: value}
	e.timer = time.AfterFunc(c.ttl, func() { c.expire(key, e) })
	c.entries[key] = e
}

// Delete removes key and stops its timer.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.timer.Stop()
		delete(c.entries, key)
	}
}

// Clear removes all entries and stops their timers.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		e.timer.Stop()
		delete(c.entries, key)
	}
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetOrSet returns the cached value for key or derives it with fn. Concurrent
// callers for the same key share a single in-flight derivation. A derivation
// that fails leaves no entry behind, so a later call can retry cleanly.
func (c *Cache[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		value, err := fn()
		if err != nil {
			return nil, err
		}
		c.Set(key, value)
		clog().Trace("cached derivation", map[string]interface{}{"key": key})
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (c *Cache[V]) expire(key string, e *entry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A stale timer may fire after Set replaced the entry; only the entry
	// that owns the fired timer removes itself.
	if cur, ok := c.entries[key]; ok && cur == e {
		delete(c.entries, key)
	}
}
