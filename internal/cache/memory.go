package cache

import "sync"

// MemoryCache is an unbounded in-memory implementation of the Cache interface.
// It uses a map for storage and provides thread-safe operations via RWMutex.
// Entries never expire; the cache lives as long as the process.
type MemoryCache[V any] struct {
	mu   sync.RWMutex
	data map[string]V
}

// NewMemoryCache creates a new in-memory cache instance.
func NewMemoryCache[V any]() *MemoryCache[V] {
	return &MemoryCache[V]{
		data: make(map[string]V),
	}
}

func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.data[key]
	return value, exists
}

func (c *MemoryCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

func (c *MemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Clear removes all entries from the cache.
// This method is primarily useful for testing.
func (c *MemoryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]V)
}
