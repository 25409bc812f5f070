package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// GoalStore handles savings goals and their contribution ledger.
type GoalStore interface {
	ListGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error)
	CreateGoal(ctx context.Context, goal *domain.SavingsGoal) (*domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, fields map[string]any) (*domain.SavingsGoal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error

	// CompareAndSetGoalProgress writes goal's progress fields only while the
	// stored current_amount still equals prev. It reports whether the write applied.
	CompareAndSetGoalProgress(ctx context.Context, goal *domain.SavingsGoal, prev decimal.Decimal) (bool, error)

	InsertContribution(ctx context.Context, c *domain.GoalContribution) (*domain.GoalContribution, error)
	DeleteContribution(ctx context.Context, userID, contributionID string) error
	ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error)
}
