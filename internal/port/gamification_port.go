package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// GamificationStore handles user stats and achievements.
type GamificationStore interface {
	// GetUserStats returns ErrNotFound when the row does not exist yet.
	GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error)
	// CreateUserStats inserts the row, ignoring a concurrent duplicate, and returns the stored row.
	CreateUserStats(ctx context.Context, stats *domain.UserStats) (*domain.UserStats, error)
	// CompareAndSetCheckIn writes streak fields only while last_active still equals prev.
	CompareAndSetCheckIn(ctx context.Context, stats *domain.UserStats, prev domain.Date) (bool, error)
	SetFinancialScore(ctx context.Context, userID string, score int) error

	// UpdateUserStats records one transaction (update_user_stats).
	UpdateUserStats(ctx context.Context, userID string, amount decimal.Decimal, hasEmotion bool) error
	// RevertUserStats undoes one UpdateUserStats (revert_user_stats).
	RevertUserStats(ctx context.Context, userID string, amount decimal.Decimal, hasEmotion bool) error

	ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error)
	// GrantAchievement upserts on (user_id, badge_id). It reports true only when newly granted.
	GrantAchievement(ctx context.Context, userID, badgeID string) (bool, error)
}
