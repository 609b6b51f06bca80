package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, "user:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "users:events", cfg.Redis.EventsStream)
	assert.Equal(t, int64(10000), cfg.Redis.EventsMaxLen)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, 24*time.Hour, cfg.Telegram.InitDataMaxAge)
	assert.False(t, cfg.Telegram.RejectStaleInitData)
	assert.Equal(t, "en", cfg.Store.DefaultLanguageCode)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("INIT_DATA_MAX_AGE", "1h")
	t.Setenv("INIT_DATA_REJECT_STALE", "true")
	t.Setenv("ADMIN_IDS", "1,42")
	t.Setenv("REDIS_USER_EVENTS_STREAM", "")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "redis:6380", cfg.RedisAddr())
	assert.Equal(t, time.Hour, cfg.Telegram.InitDataMaxAge)
	assert.True(t, cfg.Telegram.RejectStaleInitData)
	assert.Empty(t, cfg.Redis.EventsStream)
	assert.Equal(t, []int64{1, 42}, cfg.Telegram.AdminIDs)
}

func TestParseRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParseRejectsNegativeMaxAge(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("INIT_DATA_MAX_AGE", "-1s")

	_, err := Parse()
	assert.Error(t, err)
}
