package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCache is a size-bounded adapter that evicts the least recently used
// entry once full. It is safe for concurrent use.
type LRUCache[V any] struct {
	inner *lru.Cache[string, V]
}

func NewLRUCache[V any](size int) (*LRUCache[V], error) {
	inner, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("lru cache of size %d: %w", size, err)
	}
	return &LRUCache[V]{inner: inner}, nil
}

func (c *LRUCache[V]) Get(key string) (V, bool) {
	return c.inner.Get(key)
}

func (c *LRUCache[V]) Put(key string, value V) {
	c.inner.Add(key, value)
}

func (c *LRUCache[V]) Len() int {
	return c.inner.Len()
}

// New returns an unbounded MemoryCache when size is zero or less, and an
// LRUCache of that size otherwise.
func New[V any](size int) (Cache[V], error) {
	if size <= 0 {
		return NewMemoryCache[V](), nil
	}
	bounded, err := NewLRUCache[V](size)
	if err != nil {
		return nil, err
	}
	return bounded, nil
}
