package common

import "time"

// CacheInterface defines the contract for cache implementations.
// Values are stored JSON-encoded so in-memory and Redis caches behave the same way.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get decodes the cached value for key into dest.
	// Returns false when the key is missing or cannot be decoded into dest.
	Get(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// GetOrSet decodes a cached value into dest, or runs loader, caches its result and decodes it into dest
	GetOrSet(key string, duration time.Duration, dest interface{}, loader func() (interface{}, error)) error

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
