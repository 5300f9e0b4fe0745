// ABOUTME: In-memory response cache with TTL-based expiration
// ABOUTME: Holds GET bodies keyed by URL and drops them when data changes

package cache

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

type entry struct {
	body      []byte
	expiresAt time.Time
}

type Cache struct {
	store sync.Map
	ttl   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// New returns a cache holding entries for ttl. A zero ttl disables caching:
// Set becomes a no-op and no cleanup goroutine is started.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	if ttl > 0 {
		go c.startCleanup(time.Minute)
	}
	return c
}

func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := val.(entry)
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.body, true
}

func (c *Cache) Set(key string, body []byte) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.store.Store(key, entry{
		body:      body,
		expiresAt: time.Now().Add(c.ttl),
	})
	slog.Debug("Cache set", "key", key, "ttl", c.ttl)
}

func (c *Cache) Clear(key string) {
	if c == nil {
		return
	}
	c.store.Delete(key)
}

// ClearPrefix drops every entry whose key starts with prefix
func (c *Cache) ClearPrefix(prefix string) {
	if c == nil {
		return
	}
	c.store.Range(func(key, _ interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.store.Delete(key)
		}
		return true
	})
	slog.Debug("Cache cleared", "prefix", prefix)
}

// Purge drops everything. Called on logout so no data outlives the session.
func (c *Cache) Purge() {
	c.ClearPrefix("")
}

// Close stops the cleanup goroutine
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) startCleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.store.Range(func(key, val interface{}) bool {
				if now.After(val.(entry).expiresAt) {
					c.store.Delete(key)
				}
				return true
			})
		}
	}
}
