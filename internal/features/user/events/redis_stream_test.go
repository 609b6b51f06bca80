package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPublisher(t *testing.T, stream string) (*RedisStreamPublisher, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStreamPublisher(client, stream, 0), client, mr
}

func TestPublish(t *testing.T) {
	p, client, _ := setupPublisher(t, "")
	ctx := context.Background()
	at := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	require.NoError(t, p.Publish(ctx, Event{Type: TypeUserCreated, TelegramID: "42", At: at}))
	require.NoError(t, p.Publish(ctx, Event{Type: TypeUserUpdated, TelegramID: "42", At: at.Add(time.Second)}))

	msgs, err := client.XRange(ctx, DefaultStreamKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, map[string]interface{}{
		"type":        "user_created",
		"telegram_id": "42",
		"at":          "2024-03-15T14:30:00Z",
	}, msgs[0].Values)
	assert.Equal(t, "user_updated", msgs[1].Values["type"])
}

func TestPublishCustomStream(t *testing.T) {
	p, client, _ := setupPublisher(t, "app:users")

	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeUserCreated, TelegramID: "7", At: time.Now()}))

	n, err := client.XLen(context.Background(), "app:users").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPublishUnavailable(t *testing.T) {
	p, _, mr := setupPublisher(t, "")
	mr.Close()

	err := p.Publish(context.Background(), Event{Type: TypeUserCreated, TelegramID: "42", At: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_created")
}
