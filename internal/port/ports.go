// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// Store is the full persistence surface used by the finance service.
// Implemented by the Supabase adapter and by the in-memory store.
type Store interface {
	AccountStore
	CategoryStore
	TransactionStore
	BudgetStore
	GoalStore
	DebtStore
	GamificationStore
	NetWorthStore
	ProfileStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeletePrefix(prefix string)
}

// TokenVerifier resolves a session token into the owner's user id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// EventPublisher emits domain events after successful mutations.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
