package jobs

import (
	"context"
	"fmt"

	"infinite-experiment/flightlog/internal/logging"

	"github.com/robfig/cron/v3"
)

// InitializeJobs schedules the background jobs and stops them when ctx is cancelled
func InitializeJobs(ctx context.Context, reconcileSpec string, reconcileJob *RankReconcileJob) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(reconcileSpec, func() {
		if _, err := reconcileJob.Run(ctx); err != nil {
			logging.Error("[Jobs] Rank reconciliation failed", "error", err.Error())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid rank reconcile schedule %q: %w", reconcileSpec, err)
	}

	c.Start()
	logging.Info("[Jobs] Background jobs scheduled", "rank_reconcile", reconcileSpec)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()

	return c, nil
}
