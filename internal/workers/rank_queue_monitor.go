package workers

import (
	"context"
	"time"

	"infinite-experiment/flightlog/internal/logging"
)

type RankQueueStats interface {
	GetQueueLength(ctx context.Context, streamName string) (int64, error)
	GetPendingCount(ctx context.Context, streamName, groupName string) (int64, error)
	TrimStream(ctx context.Context, streamName string, maxLen int64) error
}

// RankQueueMonitor logs the health of the rank evaluation stream and keeps it bounded
type RankQueueMonitor struct {
	queue  RankQueueStats
	stream string
	group  string
	maxLen int64
}

func NewRankQueueMonitor(queue RankQueueStats, stream, group string, maxLen int64) *RankQueueMonitor {
	return &RankQueueMonitor{
		queue:  queue,
		stream: stream,
		group:  group,
		maxLen: maxLen,
	}
}

func (m *RankQueueMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("[RankQueueMonitor] Starting queue monitoring", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("[RankQueueMonitor] Shutting down")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check logs the stream length and pending count, trimming the stream when it grows past maxLen
func (m *RankQueueMonitor) Check(ctx context.Context) {
	length, err := m.queue.GetQueueLength(ctx, m.stream)
	if err != nil {
		logging.Warn("[RankQueueMonitor] Error reading queue length", "error", err.Error())
		return
	}

	pending, err := m.queue.GetPendingCount(ctx, m.stream, m.group)
	if err != nil {
		logging.Warn("[RankQueueMonitor] Error reading pending count", "error", err.Error())
		return
	}

	logging.Debug("[RankQueueMonitor] Queue status", "stream", m.stream, "length", length, "pending", pending)

	if m.maxLen > 0 && length > m.maxLen {
		if err := m.queue.TrimStream(ctx, m.stream, m.maxLen); err != nil {
			logging.Warn("[RankQueueMonitor] Error trimming stream", "error", err.Error())
			return
		}
		logging.Info("[RankQueueMonitor] Trimmed stream", "stream", m.stream, "from", length, "to", m.maxLen)
	}
}
