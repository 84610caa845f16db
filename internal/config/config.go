package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppEnv   string
	Port     string
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Pirep    PirepConfig
	Rank     RankConfig
	Webhook  WebhookConfig
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DSN builds the postgres connection string used by both GORM and sqlx
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DBName)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// AuthConfig holds bearer token settings
type AuthConfig struct {
	JWTSecret string
}

// PirepConfig holds the operator-configurable validation bounds
type PirepConfig struct {
	MaxCargoKg int
	MaxFuelKg  int
}

// RankConfig controls how rank evaluations are queued and reconciled
type RankConfig struct {
	QueueBackend  string // "channel" or "redis"
	QueueWorkers  int
	QueueCapacity int
	ReconcileCron string
}

// WebhookConfig controls the PIREP created notifier
type WebhookConfig struct {
	URL               string
	RequestsPerSecond float64
}

const (
	QueueBackendChannel = "channel"
	QueueBackendRedis   = "redis"
)

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appEnv := strings.TrimSpace(getEnv("APP_ENV", "development"))

	cfg := &Config{
		AppEnv: appEnv,
		Port:   getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			User:     getEnv("PG_USER", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			DBName:   getEnv("PG_DB", "flightlog"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Pirep: PirepConfig{
			MaxCargoKg: getEnvInt("PIREP_MAX_CARGO_KG", 500000),
			MaxFuelKg:  getEnvInt("PIREP_MAX_FUEL_KG", 400000),
		},
		Rank: RankConfig{
			QueueBackend:  strings.ToLower(getEnv("RANK_QUEUE_BACKEND", QueueBackendChannel)),
			QueueWorkers:  getEnvInt("RANK_QUEUE_WORKERS", 2),
			QueueCapacity: getEnvInt("RANK_QUEUE_CAPACITY", 256),
			ReconcileCron: getEnv("RANK_RECONCILE_CRON", "0 3 * * *"),
		},
		Webhook: WebhookConfig{
			URL:               os.Getenv("PIREP_WEBHOOK_URL"),
			RequestsPerSecond: getEnvFloat("PIREP_WEBHOOK_RPS", 1),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [ENV: %s]", appEnv)
	return cfg, nil
}

// Validate checks values that would otherwise fail much later at runtime
func (c *Config) Validate() error {
	if c.Pirep.MaxCargoKg < 0 || c.Pirep.MaxFuelKg < 0 {
		return fmt.Errorf("PIREP cargo/fuel bounds must be non-negative")
	}
	if c.Rank.QueueBackend != QueueBackendChannel && c.Rank.QueueBackend != QueueBackendRedis {
		return fmt.Errorf("invalid RANK_QUEUE_BACKEND: '%s' (must be 'channel' or 'redis')", c.Rank.QueueBackend)
	}
	if c.Rank.QueueWorkers < 1 {
		return fmt.Errorf("RANK_QUEUE_WORKERS must be at least 1")
	}
	if c.AppEnv == "production" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
		log.Printf("Warning: %s=%q is not an integer, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
		log.Printf("Warning: %s=%q is not a number, using %v", key, value, defaultValue)
	}
	return defaultValue
}
