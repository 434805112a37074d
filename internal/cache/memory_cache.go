package cache

import (
	"sync"
	"time"
)

type entry struct {
	body     []byte
	deadline time.Time
}

// MemoryPageCache implements PageCache with an in-process map. Expired
// entries are dropped lazily on Get and swept periodically by a janitor
// goroutine.
type MemoryPageCache struct {
	mu      sync.RWMutex
	entries map[string]entry

	stop chan struct{}
	done chan struct{}
}

// NewMemoryPageCache creates a MemoryPageCache and starts its janitor.
// sweepInterval <= 0 disables the janitor; expiry then happens on Get only.
func NewMemoryPageCache(sweepInterval time.Duration) *MemoryPageCache {
	c := &MemoryPageCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if sweepInterval > 0 {
		go c.janitor(sweepInterval)
	} else {
		close(c.done)
	}

	return c
}

// Get returns the cached body for key, if present and not expired.
func (c *MemoryPageCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.deadline) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have renewed it.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.deadline) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.body, true
}

// Set stores body for key with the given TTL, replacing any existing entry.
func (c *MemoryPageCache) Set(key string, body []byte, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		body:     body,
		deadline: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// InvalidateAll drops every cached entry.
func (c *MemoryPageCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stop shuts the janitor down and waits for it to exit.
func (c *MemoryPageCache) Stop() {
	select {
	case <-c.done:
		return
	default:
	}
	close(c.stop)
	<-c.done
}

func (c *MemoryPageCache) janitor(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryPageCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	for key, e := range c.entries {
		if now.After(e.deadline) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Ensure interface is satisfied at compile time.
var _ PageCache = (*MemoryPageCache)(nil)
