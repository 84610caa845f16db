package api

import (
	"fmt"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/config"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/db/repositories"
	"infinite-experiment/flightlog/internal/metrics"
	"infinite-experiment/flightlog/internal/providers"
	"infinite-experiment/flightlog/internal/services"
	"infinite-experiment/flightlog/internal/workers"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Pireps      *repositories.PirepRepo
	Events      *repositories.PirepEventRepo
	Aircraft    *repositories.AircraftRepo
	Multipliers *repositories.MultiplierRepo
	Ranks       *repositories.RankRepo
	Pilots      *repositories.PilotRepo
	Ledger      *repositories.LedgerRepo
}

type Services struct {
	Cache       common.CacheInterface
	Ranks       *services.RankService
	Multipliers *services.MultiplierService
	Pireps      *services.PirepService
	Notifier    services.PirepNotifier
	Tokens      *common.TokenSignerService

	// Exactly one scheduler is set, matching the configured queue backend
	ChannelScheduler *workers.ChannelRankScheduler
	RedisScheduler   *workers.RedisRankScheduler
	RedisQueue       *common.RedisQueueService
}

// Scheduler returns the configured rank evaluation scheduler
func (s *Services) Scheduler() services.RankEvaluationScheduler {
	if s.RedisScheduler != nil {
		return s.RedisScheduler
	}
	return s.ChannelScheduler
}

type Dependencies struct {
	Config   *config.Config
	SQL      *sqlx.DB
	Redis    *redis.Client // nil unless a Redis backed component is configured
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories and services. redisClient may be nil when the
// channel queue backend is used.
func InitDependencies(cfg *config.Config, gormDB *gorm.DB, sqlDB *sqlx.DB, redisClient *redis.Client, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Pireps:      repositories.NewPirepRepo(gormDB),
		Events:      repositories.NewPirepEventRepo(gormDB),
		Aircraft:    repositories.NewAircraftRepo(gormDB),
		Multipliers: repositories.NewMultiplierRepo(gormDB),
		Ranks:       repositories.NewRankRepo(gormDB),
		Pilots:      repositories.NewPilotRepo(gormDB),
		Ledger:      repositories.NewLedgerRepo(sqlDB),
	}

	svcs := &Services{}

	if redisClient != nil {
		svcs.Cache = common.NewRedisCacheService(redisClient, "flightlog:")
	} else {
		svcs.Cache = common.NewCacheService(600, 60)
	}

	switch cfg.Rank.QueueBackend {
	case config.QueueBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis rank queue backend requires a redis client")
		}
		svcs.RedisQueue = common.NewRedisQueueService(redisClient)
		svcs.RedisScheduler = workers.NewRedisRankScheduler(svcs.RedisQueue, constants.RankEvaluationStream, metricsReg)
	default:
		svcs.ChannelScheduler = workers.NewChannelRankScheduler(cfg.Rank.QueueCapacity, metricsReg)
	}

	if cfg.Webhook.URL != "" {
		svcs.Notifier = providers.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.RequestsPerSecond)
	} else {
		svcs.Notifier = providers.NoopNotifier{}
	}

	svcs.Tokens = common.NewTokenSignerService([]byte(cfg.Auth.JWTSecret), redisClient)
	svcs.Ranks = services.NewRankService(repos.Ranks, svcs.Cache)
	svcs.Multipliers = services.NewMultiplierService(repos.Multipliers, svcs.Cache)
	svcs.Pireps = services.NewPirepService(services.PirepServiceDeps{
		Pireps:      repos.Pireps,
		Events:      repos.Events,
		Aircraft:    repos.Aircraft,
		Multipliers: svcs.Multipliers,
		Ranks:       svcs.Ranks,
		Ledger:      repos.Ledger,
		Roles:       repos.Pilots,
		Scheduler:   svcs.Scheduler(),
		Notifier:    svcs.Notifier,
		Limits:      cfg.Pirep,
		Metrics:     metricsReg,
	})

	return &Dependencies{
		Config:   cfg,
		SQL:      sqlDB,
		Redis:    redisClient,
		Metrics:  metricsReg,
		Repo:     repos,
		Services: svcs,
	}, nil
}
