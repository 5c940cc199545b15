package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tguardian/monitor-api/internal/domain"
)

// DefaultStream is the Redis stream key events are appended to.
const DefaultStream = "tguardian:verdict_events"

// defaultMaxLen caps the stream; trimming is approximate.
const defaultMaxLen = 10000

// StreamClient is the subset of *redis.Client the sink uses.
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisSink appends events to a Redis stream. Each entry carries the event
// kind and transaction id as plain fields plus the full event as JSON.
type RedisSink struct {
	client StreamClient
	stream string
	maxLen int64
}

// NewRedisSink creates a sink writing to stream (DefaultStream if empty).
func NewRedisSink(client StreamClient, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream, maxLen: defaultMaxLen}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Record(ctx context.Context, ev domain.VerdictEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.ID, err)
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"event_id":       ev.ID,
			"kind":           ev.Kind,
			"transaction_id": ev.TransactionID,
			"occurred_at":    ev.OccurredAt.Format(time.RFC3339Nano),
			"payload":        string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

func (s *RedisSink) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping Redis: %w", err)
	}
	return nil
}
