package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/infra/ratelimit"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := ratelimit.NewRedis(client, "test", 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}

	ok, retry, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	other, _, err := l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, other, "keys are independent")

	mr.FastForward(time.Minute)
	ok, _, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "window resets after expiry")
}

func TestRedis_UnreachableReturnsError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	l := ratelimit.NewRedis(client, "", 3, time.Minute)
	_, _, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestMemory_FixedWindow(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	l := ratelimit.NewMemory(2, 15*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, _ := l.Allow(ctx, "k")
		assert.True(t, ok)
	}
	now = now.Add(5 * time.Minute)
	ok, retry, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 10*time.Minute, retry)

	now = now.Add(10 * time.Minute)
	ok, _, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}

func TestZeroLimitDisables(t *testing.T) {
	l := ratelimit.NewMemory(0, time.Minute, nil)
	for i := 0; i < 100; i++ {
		ok, _, _ := l.Allow(context.Background(), "k")
		require.True(t, ok)
	}
}
