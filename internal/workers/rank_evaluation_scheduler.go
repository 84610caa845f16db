package workers

import (
	"context"
	"time"

	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/metrics"
	"infinite-experiment/flightlog/internal/models/dtos"
	"infinite-experiment/flightlog/internal/services"

	"golang.org/x/sync/errgroup"
)

// ChannelRankScheduler queues evaluations in process. A full buffer drops the evaluation.
type ChannelRankScheduler struct {
	queue   chan dtos.RankEvaluation
	metrics *metrics.MetricsRegistry
}

var _ services.RankEvaluationScheduler = (*ChannelRankScheduler)(nil)

func NewChannelRankScheduler(capacity int, metricsReg *metrics.MetricsRegistry) *ChannelRankScheduler {
	if capacity < 1 {
		capacity = 1
	}
	return &ChannelRankScheduler{
		queue:   make(chan dtos.RankEvaluation, capacity),
		metrics: metricsReg,
	}
}

func (s *ChannelRankScheduler) ScheduleRankEvaluation(ctx context.Context, evaluation dtos.RankEvaluation) {
	select {
	case s.queue <- evaluation:
	default:
		s.metrics.RankEvaluationDropped()
		logging.Warn("[ChannelRankScheduler] Queue full, dropping rank evaluation",
			"pilot_id", evaluation.PilotID,
			"pirep_id", evaluation.PirepID,
			"source", evaluation.Source,
		)
	}
}

// Pending returns the number of queued evaluations
func (s *ChannelRankScheduler) Pending() int {
	return len(s.queue)
}

// Run consumes the queue with numWorkers goroutines until ctx is cancelled
func (s *ChannelRankScheduler) Run(ctx context.Context, numWorkers int, handler RankEvaluationHandler) error {
	logging.Info("[ChannelRankScheduler] Starting workers", "workers", numWorkers)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case evaluation := <-s.queue:
					if err := handler.Evaluate(ctx, evaluation); err != nil {
						logging.Error("[ChannelRankScheduler] Rank evaluation failed",
							"pilot_id", evaluation.PilotID,
							"error", err.Error(),
						)
					}
				}
			}
		})
	}

	err := g.Wait()
	logging.Info("[ChannelRankScheduler] All workers stopped")
	return err
}

// RankEvaluationQueue is the stream API the Redis scheduler and worker use
type RankEvaluationQueue interface {
	EnqueueRankEvaluation(ctx context.Context, streamName string, item *dtos.RankEvaluation) error
	EnqueueRankEvaluationBatch(ctx context.Context, streamName string, items []*dtos.RankEvaluation) error
	DequeueRankEvaluation(ctx context.Context, streamName, groupName, consumerName string, blockTime time.Duration) (*dtos.RankEvaluation, string, error)
	Ack(ctx context.Context, streamName, groupName, messageID string) error
	CreateConsumerGroup(ctx context.Context, streamName, groupName string) error
	ClaimStale(ctx context.Context, streamName, groupName, consumerName string, minIdleTime time.Duration) ([]*dtos.RankEvaluation, []string, error)
}

// RedisRankScheduler publishes evaluations to a Redis stream. The publish runs in its own
// goroutine with a timeout so the caller never waits on Redis.
type RedisRankScheduler struct {
	queue   RankEvaluationQueue
	stream  string
	timeout time.Duration
	metrics *metrics.MetricsRegistry
}

var _ services.RankEvaluationScheduler = (*RedisRankScheduler)(nil)

func NewRedisRankScheduler(queue RankEvaluationQueue, stream string, metricsReg *metrics.MetricsRegistry) *RedisRankScheduler {
	return &RedisRankScheduler{
		queue:   queue,
		stream:  stream,
		timeout: 3 * time.Second,
		metrics: metricsReg,
	}
}

func (s *RedisRankScheduler) ScheduleRankEvaluation(_ context.Context, evaluation dtos.RankEvaluation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.queue.EnqueueRankEvaluation(ctx, s.stream, &evaluation); err != nil {
			s.metrics.RankEvaluationDropped()
			logging.Error("[RedisRankScheduler] Failed to enqueue rank evaluation",
				"pilot_id", evaluation.PilotID,
				"error", err.Error(),
			)
		}
	}()
}

// ScheduleBatch publishes many evaluations in one pipeline and waits for the result
func (s *RedisRankScheduler) ScheduleBatch(ctx context.Context, evaluations []dtos.RankEvaluation) error {
	items := make([]*dtos.RankEvaluation, 0, len(evaluations))
	for i := range evaluations {
		items = append(items, &evaluations[i])
	}
	return s.queue.EnqueueRankEvaluationBatch(ctx, s.stream, items)
}
