package jobs

import (
	"context"
	"fmt"
	"time"

	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/db/repositories"
	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/metrics"
	"infinite-experiment/flightlog/internal/models/dtos"
	"infinite-experiment/flightlog/internal/services"
)

type PilotTotalsReader interface {
	PilotTotals(ctx context.Context) ([]repositories.PilotTotal, error)
}

// BatchRankScheduler is implemented by schedulers that can publish many evaluations at once
type BatchRankScheduler interface {
	ScheduleBatch(ctx context.Context, evaluations []dtos.RankEvaluation) error
}

// RankCacheInvalidator drops a cached rank table so edits made outside the API are picked up
type RankCacheInvalidator interface {
	Invalidate()
}

// RankReconcileJob queues a rank evaluation for every pilot, repairing any evaluation
// that was dropped or failed since the last run
type RankReconcileJob struct {
	ledger    PilotTotalsReader
	scheduler services.RankEvaluationScheduler
	rankCache RankCacheInvalidator
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

func NewRankReconcileJob(ledger PilotTotalsReader, scheduler services.RankEvaluationScheduler, metricsReg *metrics.MetricsRegistry) *RankReconcileJob {
	return &RankReconcileJob{
		ledger:    ledger,
		scheduler: scheduler,
		metrics:   metricsReg,
		now:       time.Now,
	}
}

// WithRankCache makes every run start from a freshly loaded rank table
func (j *RankReconcileJob) WithRankCache(cache RankCacheInvalidator) *RankReconcileJob {
	j.rankCache = cache
	return j
}

// Run returns the number of evaluations queued
func (j *RankReconcileJob) Run(ctx context.Context) (int, error) {
	start := j.now()
	logging.Info("[RankReconcileJob] Starting rank reconciliation")

	if j.rankCache != nil {
		j.rankCache.Invalidate()
	}

	totals, err := j.ledger.PilotTotals(ctx)
	if err != nil {
		logging.Error("[RankReconcileJob] Error reading pilot totals", "error", err.Error())
		return 0, fmt.Errorf("failed to read pilot totals: %w", err)
	}

	evaluations := make([]dtos.RankEvaluation, 0, len(totals))
	for _, t := range totals {
		evaluations = append(evaluations, dtos.RankEvaluation{
			PilotID:     t.PilotID,
			OldTotal:    t.Total,
			NewTotal:    t.Total,
			Source:      constants.RankEvalSourceReconcile,
			RequestedAt: start.UTC(),
		})
	}

	if batcher, ok := j.scheduler.(BatchRankScheduler); ok {
		if err := batcher.ScheduleBatch(ctx, evaluations); err != nil {
			return 0, fmt.Errorf("failed to queue evaluations: %w", err)
		}
	} else {
		for _, evaluation := range evaluations {
			j.scheduler.ScheduleRankEvaluation(ctx, evaluation)
		}
	}

	elapsed := j.now().Sub(start)
	j.metrics.ObserveReconcile(elapsed.Seconds())
	logging.Info("[RankReconcileJob] Rank reconciliation queued",
		"pilots", len(evaluations),
		"duration_ms", elapsed.Milliseconds(),
	)

	return len(evaluations), nil
}
