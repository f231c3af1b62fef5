package nativesql

import (
	"sync"
	"time"
)

// cache is a TTL cache keyed by string. Entries untouched for longer
// than the TTL are closed and evicted by a background sweep.
type cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry[V]
	ttl     time.Duration
	onEvict func(V)
	done    chan struct{}
	once    sync.Once
}

type cacheEntry[V any] struct {
	value    V
	lastUsed time.Time
}

func newCache[V any](ttl time.Duration, onEvict func(V)) *cache[V] {
	c := &cache[V]{
		entries: make(map[string]*cacheEntry[V]),
		ttl:     ttl,
		onEvict: onEvict,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *cache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.lastUsed = time.Now()
	return e.value, true
}

func (c *cache[V]) set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[key]; ok && c.onEvict != nil {
		c.onEvict(old.value)
	}
	c.entries[key] = &cacheEntry[V]{value: v, lastUsed: time.Now()}
}

func (c *cache[V]) sweep() {
	interval := c.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			cutoff := time.Now().Add(-c.ttl)
			for key, e := range c.entries {
				if e.lastUsed.Before(cutoff) {
					if c.onEvict != nil {
						c.onEvict(e.value)
					}
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// close stops the sweep and evicts everything.
func (c *cache[V]) close() {
	c.once.Do(func() { close(c.done) })
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if c.onEvict != nil {
			c.onEvict(e.value)
		}
		delete(c.entries, key)
	}
}
