// Package ratelimit implements fixed-window request limiting, either shared
// across replicas through Redis or local to the process.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/boddenberg/spendwise-api/internal/port"

	"github.com/redis/go-redis/v9"
)

var (
	_ port.RateLimiter = (*Redis)(nil)
	_ port.RateLimiter = (*Memory)(nil)
)

// fixedWindowScript increments the window counter and starts its expiry on
// the first hit. Returns {count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// Redis is a distributed fixed-window limiter.
type Redis struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// NewRedis allows limit requests per key per window.
func NewRedis(client redis.UniversalClient, prefix string, limit int, window time.Duration) *Redis {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "spendwise:rate_limit"
	}
	if window < time.Second {
		window = time.Second
	}
	return &Redis{client: client, prefix: prefix, limit: limit, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if r.limit <= 0 {
		return true, 0, nil
	}
	windowMs := r.window.Milliseconds()
	raw, err := fixedWindowScript.Run(ctx, r.client, []string{r.prefix + ":" + key}, windowMs).Result()
	if err != nil {
		return false, 0, err
	}

	values, ok := raw.([]any)
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected redis limiter response shape: %T", raw)
	}
	count, ok := values[0].(int64)
	if !ok {
		return false, 0, fmt.Errorf("unexpected redis limiter count type: %T", values[0])
	}
	ttlMs, ok := values[1].(int64)
	if !ok || ttlMs < 0 {
		ttlMs = windowMs
	}

	if count > int64(r.limit) {
		return false, retryAfter(time.Duration(ttlMs) * time.Millisecond), nil
	}
	return true, 0, nil
}

// retryAfter rounds up to whole seconds (Retry-After has second precision).
func retryAfter(d time.Duration) time.Duration {
	secs := (d + time.Second - 1) / time.Second
	if secs < 1 {
		secs = 1
	}
	return secs * time.Second
}

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a per-process fixed-window limiter.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]*window
}

// NewMemory allows limit requests per key per window. A nil clock means time.Now.
func NewMemory(limit int, win time.Duration, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{limit: limit, window: win, now: now, windows: map[string]*window{}}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	if m.limit <= 0 {
		return true, 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		m.sweep(now)
		w = &window{resetAt: now.Add(m.window)}
		m.windows[key] = w
	}
	w.count++
	if w.count > m.limit {
		return false, retryAfter(w.resetAt.Sub(now)), nil
	}
	return true, 0, nil
}

// sweep drops finished windows. Callers hold m.mu.
func (m *Memory) sweep(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
}
