package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountStore handles account data operations.
type AccountStore interface {
	ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error)
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, fields map[string]any) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, userID, accountID string) error

	// IncrementBalance atomically adds delta to the balance (increment_balance).
	IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error
}
