package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Open(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestOpenDisablesRetriesByDefault(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Open(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()
	// go-redis normalizes -1 to 0 retries once the client is built
	assert.Equal(t, 0, c.Options().MaxRetries)

	c2, err := Open(context.Background(), Options{Addr: mr.Addr(), MaxRetries: 2})
	require.NoError(t, err)
	defer c2.Close()
	assert.Equal(t, 2, c2.Options().MaxRetries)
}

func TestOpenEmptyAddr(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	assert.Error(t, err)
}

func TestOpenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), Options{Addr: addr, DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

func TestOpenWrongPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	_, err := Open(context.Background(), Options{Addr: mr.Addr(), Password: "nope", MaxRetries: -1})
	assert.Error(t, err)

	c, err := Open(context.Background(), Options{Addr: mr.Addr(), Password: "secret"})
	require.NoError(t, err)
	_ = c.Close()
}
