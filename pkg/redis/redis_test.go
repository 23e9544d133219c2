package redis

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	host, portStr, _ := strings.Cut(mr.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	cfg.MaxRetries = 0

	client, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestConfig_Addr(t *testing.T) {
	cfg := &Config{Host: "redis.example.com", Port: 6380}
	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	host, portStr, _ := strings.Cut(addr, ":")
	port, _ := strconv.Atoi(portStr)

	var retries int
	_, err := NewClient(context.Background(), &Config{
		Host:          host,
		Port:          port,
		MaxRetries:    1,
		RetryInterval: time.Millisecond,
		DialTimeout:   100 * time.Millisecond,
		OnRetry:       func(int, error, time.Duration) { retries++ },
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
	assert.Equal(t, 1, retries)
}

func TestClient_HealthCheck(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_BasicOperations(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute).Err())
	got, err := client.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	ok, err := client.SetNX(ctx, "k", "other", time.Minute).Result()
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("k"))

	require.NoError(t, client.Set(ctx, "gone", "x", 0).Err())
	n, err := client.Del(ctx, "gone").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
