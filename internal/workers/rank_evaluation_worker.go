package workers

import (
	"context"
	"fmt"
	"time"

	"infinite-experiment/flightlog/internal/logging"

	"golang.org/x/sync/errgroup"
)

// ProcessResult describes what a single ProcessNext call did
type ProcessResult int

const (
	ProcessIdle ProcessResult = iota // nothing to read before the block timeout
	ProcessHandled
	ProcessFailed
)

// RankEvaluationWorker consumes the Redis rank evaluation stream through a consumer group
type RankEvaluationWorker struct {
	workerID   string
	stream     string
	group      string
	queue      RankEvaluationQueue
	handler    RankEvaluationHandler
	blockTime  time.Duration
	staleAfter time.Duration
}

func NewRankEvaluationWorker(workerID, stream, group string, queue RankEvaluationQueue, handler RankEvaluationHandler) *RankEvaluationWorker {
	return &RankEvaluationWorker{
		workerID:   workerID,
		stream:     stream,
		group:      group,
		queue:      queue,
		handler:    handler,
		blockTime:  5 * time.Second,
		staleAfter: 5 * time.Minute,
	}
}

// Start runs numWorkers consumers plus a stale message claimer until ctx is cancelled
func (w *RankEvaluationWorker) Start(ctx context.Context, numWorkers int) error {
	logging.Info("[RankEvaluationWorker] Starting workers", "workers", numWorkers, "worker_id", w.workerID, "stream", w.stream)

	if err := w.queue.CreateConsumerGroup(ctx, w.stream, w.group); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < numWorkers; i++ {
		consumer := fmt.Sprintf("%s-%d", w.workerID, i)
		g.Go(func() error {
			w.processQueue(ctx, consumer)
			return nil
		})
	}

	g.Go(func() error {
		w.claimStaleMessages(ctx, w.workerID+"-claimer")
		return nil
	})

	err := g.Wait()
	logging.Info("[RankEvaluationWorker] All workers stopped")
	return err
}

func (w *RankEvaluationWorker) processQueue(ctx context.Context, consumer string) {
	processed, failed := 0, 0

	for {
		select {
		case <-ctx.Done():
			logging.Info("[RankEvaluationWorker] Shutting down", "consumer", consumer, "processed", processed, "errors", failed)
			return
		default:
		}

		switch w.ProcessNext(ctx, consumer) {
		case ProcessHandled:
			processed++
		case ProcessFailed:
			failed++
		}
	}
}

// ProcessNext handles at most one message
func (w *RankEvaluationWorker) ProcessNext(ctx context.Context, consumer string) ProcessResult {
	item, messageID, err := w.queue.DequeueRankEvaluation(ctx, w.stream, w.group, consumer, w.blockTime)
	if err != nil {
		if ctx.Err() != nil {
			return ProcessIdle
		}
		logging.Warn("[RankEvaluationWorker] Error dequeuing", "consumer", consumer, "error", err.Error())
		if messageID != "" {
			// Undecodable message, never going to succeed
			w.ack(ctx, messageID)
			return ProcessFailed
		}
		time.Sleep(time.Second)
		return ProcessFailed
	}

	if item == nil {
		return ProcessIdle
	}

	result := ProcessHandled
	if err := w.handler.Evaluate(ctx, *item); err != nil {
		logging.Error("[RankEvaluationWorker] Rank evaluation failed", "pilot_id", item.PilotID, "error", err.Error())
		result = ProcessFailed
	}

	// Acknowledged either way; a failed evaluation is repaired by the nightly reconcile
	w.ack(ctx, messageID)
	return result
}

func (w *RankEvaluationWorker) ack(ctx context.Context, messageID string) {
	if err := w.queue.Ack(ctx, w.stream, w.group, messageID); err != nil {
		logging.Warn("[RankEvaluationWorker] Error acknowledging message", "message_id", messageID, "error", err.Error())
	}
}

func (w *RankEvaluationWorker) claimStaleMessages(ctx context.Context, consumer string) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ClaimStale(ctx, consumer)
		}
	}
}

// ClaimStale takes over messages left pending by dead consumers and processes them
func (w *RankEvaluationWorker) ClaimStale(ctx context.Context, consumer string) int {
	items, messageIDs, err := w.queue.ClaimStale(ctx, w.stream, w.group, consumer, w.staleAfter)
	if err != nil {
		logging.Warn("[RankEvaluationWorker] Error claiming stale messages", "error", err.Error())
		return 0
	}

	for i, item := range items {
		if err := w.handler.Evaluate(ctx, *item); err != nil {
			logging.Error("[RankEvaluationWorker] Stale rank evaluation failed", "pilot_id", item.PilotID, "error", err.Error())
		}
		w.ack(ctx, messageIDs[i])
	}

	if len(items) > 0 {
		logging.Info("[RankEvaluationWorker] Claimed stale messages", "count", len(items))
	}
	return len(items)
}
