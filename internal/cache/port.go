package cache

// Cache defines the port interface for in-process lookups keyed by string.
// This interface follows the port-adapter pattern, allowing different
// cache implementations to be swapped without changing the callers.
type Cache[V any] interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached value and true if found, or the zero value and false if not.
	// This method is read-only and should not modify cache state.
	Get(key string) (V, bool)

	// Put stores a key-value pair in the cache.
	// If the key already exists, the value is overwritten.
	Put(key string, value V)

	// Len returns the number of entries.
	Len() int
}
