// Package cache is a key/value map whose entries expire a fixed duration after they were set.
// Expiry is only checked on read; nothing evicts entries in the background.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value any
	setAt time.Time
}

type Cache struct {
	ttl time.Duration
	now func() time.Time

	mx      sync.Mutex
	entries map[string]entry
}

type Option func(*Cache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key unless it is missing or older than the TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mx.Lock()
	defer c.mx.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.setAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key and restarts its TTL.
func (c *Cache) Set(key string, value any) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.entries[key] = entry{value: value, setAt: c.now()}
}

func (c *Cache) Delete(key string) {
	c.mx.Lock()
	defer c.mx.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.entries = make(map[string]entry)
}

// Len counts stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mx.Lock()
	defer c.mx.Unlock()
	return len(c.entries)
}
