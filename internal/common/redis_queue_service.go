package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/models/dtos"
)

// RedisQueueService provides queue functionality using Redis Streams
type RedisQueueService struct {
	client *redis.Client
}

// NewRedisQueueService creates a new Redis queue service
func NewRedisQueueService(client *redis.Client) *RedisQueueService {
	return &RedisQueueService{
		client: client,
	}
}

// EnqueueRankEvaluation adds an evaluation request to the stream
func (s *RedisQueueService) EnqueueRankEvaluation(ctx context.Context, streamName string, item *dtos.RankEvaluation) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal rank evaluation: %w", err)
	}

	// XADD stream_name * data <json>
	args := &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// EnqueueRankEvaluationBatch adds several requests in one pipeline
func (s *RedisQueueService) EnqueueRankEvaluationBatch(ctx context.Context, streamName string, items []*dtos.RankEvaluation) error {
	if len(items) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()

	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			logging.Warn("[RedisQueue] failed to marshal rank evaluation", "pilot_id", item.PilotID, "error", err.Error())
			continue
		}

		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: streamName,
			Values: map[string]interface{}{
				"data": string(data),
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	return nil
}

// DequeueRankEvaluation reads one request using a consumer group.
// Returns (item, messageID, error); a nil item means the block time elapsed.
func (s *RedisQueueService) DequeueRankEvaluation(ctx context.Context, streamName, groupName, consumerName string, blockTime time.Duration) (*dtos.RankEvaluation, string, error) {
	// XREADGROUP GROUP group consumer BLOCK milliseconds COUNT 1 STREAMS stream >
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{streamName, ">"}, // ">" means new messages only
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	item, err := decodeRankEvaluation(msg)
	if err != nil {
		// Hand the ID back so the caller can ack a poison message
		return nil, msg.ID, err
	}

	return item, msg.ID, nil
}

func decodeRankEvaluation(msg redis.XMessage) (*dtos.RankEvaluation, error) {
	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid message format: data field missing")
	}

	var item dtos.RankEvaluation
	if err := json.Unmarshal([]byte(dataStr), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rank evaluation: %w", err)
	}
	return &item, nil
}

// Ack acknowledges successful processing of a message
func (s *RedisQueueService) Ack(ctx context.Context, streamName, groupName, messageID string) error {
	return s.client.XAck(ctx, streamName, groupName, messageID).Err()
}

// CreateConsumerGroup creates a consumer group for the stream if it doesn't exist
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context, streamName, groupName string) error {
	// XGROUP CREATE stream group 0 MKSTREAM
	err := s.client.XGroupCreateMkStream(ctx, streamName, groupName, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		// Group already exists, this is fine
		return nil
	}
	return err
}

// GetQueueLength returns the number of entries in the stream
func (s *RedisQueueService) GetQueueLength(ctx context.Context, streamName string) (int64, error) {
	length, err := s.client.XLen(ctx, streamName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// GetPendingCount returns the number of pending (unacknowledged) messages for a consumer group
func (s *RedisQueueService) GetPendingCount(ctx context.Context, streamName, groupName string) (int64, error) {
	pending, err := s.client.XPending(ctx, streamName, groupName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return pending.Count, nil
}

// TrimStream keeps only the most recent maxLen messages
func (s *RedisQueueService) TrimStream(ctx context.Context, streamName string, maxLen int64) error {
	return s.client.XTrimMaxLen(ctx, streamName, maxLen).Err()
}

// ClaimStale claims messages that have been pending for too long (likely from dead workers)
func (s *RedisQueueService) ClaimStale(ctx context.Context, streamName, groupName, consumerName string, minIdleTime time.Duration) ([]*dtos.RankEvaluation, []string, error) {
	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: streamName,
		Group:  groupName,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdleTime {
			staleIDs = append(staleIDs, p.ID)
		}
	}

	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	messages, err := s.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   streamName,
		Group:    groupName,
		Consumer: consumerName,
		MinIdle:  minIdleTime,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	var items []*dtos.RankEvaluation
	var messageIDs []string
	for _, msg := range messages {
		item, err := decodeRankEvaluation(msg)
		if err != nil {
			logging.Warn("[RedisQueue] dropping undecodable claimed message", "message_id", msg.ID, "error", err.Error())
			_ = s.Ack(ctx, streamName, groupName, msg.ID)
			continue
		}

		items = append(items, item)
		messageIDs = append(messageIDs, msg.ID)
	}

	return items, messageIDs, nil
}
