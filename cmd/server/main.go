package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"infinite-experiment/flightlog/internal/api"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/config"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/db"
	"infinite-experiment/flightlog/internal/jobs"
	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/metrics"
	"infinite-experiment/flightlog/internal/routes"
	"infinite-experiment/flightlog/internal/workers"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Flightlog starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to DB with sqlx
	dsn := cfg.Database.DSN()
	sqlDB, err := db.InitPostgres(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	defer sqlDB.Close()
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	gormDB, err := db.InitPostgresORM(dsn)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal("Failed to migrate schema", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	var redisClient *redis.Client
	if cfg.Rank.QueueBackend == config.QueueBackendRedis {
		redisClient = common.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsReg := metrics.NewMetricsRegistry(promReg)

	deps, err := api.InitDependencies(cfg, gormDB, sqlDB, redisClient, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	evaluator := workers.NewRankEvaluator(deps.Services.Ranks, deps.Repo.Pilots, deps.Repo.Ledger, metricsReg)

	g, gctx := errgroup.WithContext(ctx)

	if deps.Services.RedisQueue != nil {
		hostname, _ := os.Hostname()
		worker := workers.NewRankEvaluationWorker(hostname, constants.RankEvaluationStream, constants.RankEvaluationConsumerGroup, deps.Services.RedisQueue, evaluator)
		g.Go(func() error {
			return worker.Start(gctx, cfg.Rank.QueueWorkers)
		})

		monitor := workers.NewRankQueueMonitor(deps.Services.RedisQueue, constants.RankEvaluationStream, constants.RankEvaluationConsumerGroup, 100000)
		go monitor.Start(gctx, time.Minute)
	} else {
		g.Go(func() error {
			return deps.Services.ChannelScheduler.Run(gctx, cfg.Rank.QueueWorkers, evaluator)
		})
	}

	reconcileJob := jobs.NewRankReconcileJob(deps.Repo.Ledger, deps.Services.Scheduler(), metricsReg).
		WithRankCache(deps.Services.Ranks)
	scheduler, err := jobs.InitializeJobs(gctx, cfg.Rank.ReconcileCron, reconcileJob)
	if err != nil {
		logging.Fatal("Failed to schedule jobs", "error", err.Error())
	}
	defer scheduler.Stop()

	upSince := time.Now()
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.RegisterRoutes(deps, upSince, promReg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error("Server stopped with error", "error", err.Error())
		os.Exit(1)
	}
	logging.Info("Server stopped")
}
