package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"infinite-experiment/flightlog/internal/config"
	"infinite-experiment/flightlog/internal/logging"
)

// NewRedisClient builds the shared Redis client used by the rank queue and the cache.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	redisDB := 0 // Default DB

	addr := cfg.Addr()
	logging.Info("Initializing Redis client", "addr", addr, "db", redisDB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           redisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Error("Failed to ping Redis", "error", err.Error())
		return client // Still return the client, connection pool will try to reconnect
	}

	logging.Info("Successfully connected to Redis")
	return client
}
