package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// NetWorthStore handles monthly net worth snapshots.
type NetWorthStore interface {
	// UpsertNetWorthSnapshot writes the snapshot keyed by (user_id, month).
	UpsertNetWorthSnapshot(ctx context.Context, snapshot *domain.NetWorthSnapshot) (*domain.NetWorthSnapshot, error)
	// ListNetWorthHistory returns snapshots from since onward, oldest first.
	ListNetWorthHistory(ctx context.Context, userID string, since domain.Date) ([]domain.NetWorthSnapshot, error)
}
