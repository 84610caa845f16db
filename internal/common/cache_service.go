package common

import (
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
	"infinite-experiment/flightlog/internal/logging"
)

// CacheService is the in-memory cache implementation, used for single-instance deployments and tests
type CacheService struct {
	cache *cache.Cache
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpirationSeconds, cleanUpIntervalSeconds int) *CacheService {

	defaultExpiration := time.Duration(defaultExpirationSeconds) * time.Second
	cleanUpInterval := time.Duration(cleanUpIntervalSeconds) * time.Second
	c := cache.New(defaultExpiration, cleanUpInterval)
	return &CacheService{cache: c}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("In-memory cache: failed to marshal value", "key", key, "error", err.Error())
		return
	}
	cs.cache.Set(key, data, duration)
}

func (cs *CacheService) Get(key string, dest interface{}) bool {
	raw, found := cs.cache.Get(key)
	if !found {
		return false
	}
	data, ok := raw.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) GetOrSet(
	key string,
	duration time.Duration,
	dest interface{},
	loader func() (interface{}, error)) error {
	if cs.Get(key, dest) {
		return nil
	}

	val, err := loader()
	if err != nil {
		return err
	}

	cs.Set(key, val, duration)
	return decodeInto(val, dest)
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}

// decodeInto copies a freshly loaded value into dest through its JSON form,
// matching what a later cache hit would produce.
func decodeInto(val interface{}, dest interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
