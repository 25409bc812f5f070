package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// BudgetStore handles budget data operations.
type BudgetStore interface {
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
	ListBudgetsForCategory(ctx context.Context, userID, categoryID string) ([]domain.Budget, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error)
	CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, fields map[string]any) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error

	// AddBudgetSpent atomically adds amount (possibly negative) to spent (budget_add_spent).
	AddBudgetSpent(ctx context.Context, budgetID string, amount decimal.Decimal) error
}
