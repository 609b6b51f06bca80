package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultStreamKey = "users:events"
	// Approximate cap, older entries are trimmed by Redis
	DefaultMaxLen = 10000
)

type Type string

const (
	TypeUserCreated Type = "user_created"
	TypeUserUpdated Type = "user_updated"
)

type Event struct {
	Type       Type
	TelegramID string
	At         time.Time
}

// RedisStreamPublisher appends user events to a Redis stream for other
// services (the bot process) to consume with their own consumer group.
type RedisStreamPublisher struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
}

func NewRedisStreamPublisher(rdb redis.Cmdable, stream string, maxLen int64) *RedisStreamPublisher {
	if stream == "" {
		stream = DefaultStreamKey
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &RedisStreamPublisher{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, e Event) error {
	err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":        string(e.Type),
			"telegram_id": e.TelegramID,
			"at":          e.At.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", e.Type, p.stream, err)
	}
	return nil
}
