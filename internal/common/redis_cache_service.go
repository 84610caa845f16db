package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"infinite-experiment/flightlog/internal/logging"
)

// RedisCacheService implements CacheInterface using Redis
type RedisCacheService struct {
	client    *redis.Client
	ctx       context.Context
	keyPrefix string
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService creates a Redis-based cache on top of a shared client.
// All keys are namespaced with keyPrefix.
func NewRedisCacheService(client *redis.Client, keyPrefix string) *RedisCacheService {
	return &RedisCacheService{
		client:    client,
		ctx:       context.Background(),
		keyPrefix: keyPrefix,
	}
}

func (r *RedisCacheService) key(k string) string {
	return r.keyPrefix + k
}

// Set stores a value in Redis with the given key and duration
func (r *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	// Serialize value to JSON
	data, err := json.Marshal(value)
	if err != nil {
		// Log error but don't crash
		logging.Warn("Redis cache: failed to marshal value", "key", key, "error", err.Error())
		return
	}

	if err := r.client.Set(r.ctx, r.key(key), data, duration).Err(); err != nil {
		logging.Warn("Redis cache: failed to set key", "key", key, "error", err.Error())
	}
}

// Get decodes the value stored under key into dest
func (r *RedisCacheService) Get(key string, dest interface{}) bool {
	data, err := r.client.Get(r.ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		// Key not found
		return false
	}
	if err != nil {
		logging.Warn("Redis cache: failed to get key", "key", key, "error", err.Error())
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logging.Warn("Redis cache: failed to unmarshal value", "key", key, "error", err.Error())
		return false
	}

	return true
}

// Delete removes a value from Redis by key
func (r *RedisCacheService) Delete(key string) {
	if err := r.client.Del(r.ctx, r.key(key)).Err(); err != nil {
		logging.Warn("Redis cache: failed to delete key", "key", key, "error", err.Error())
	}
}

// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
func (r *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	dest interface{},
	loader func() (interface{}, error),
) error {
	// Try to get from cache first
	if r.Get(key, dest) {
		return nil
	}

	// Load value
	val, err := loader()
	if err != nil {
		return err
	}

	// Store in cache
	r.Set(key, val, duration)

	return decodeInto(val, dest)
}

// Close is a no-op: the client is shared with the queue and closed by its owner.
func (r *RedisCacheService) Close() error {
	return nil
}
