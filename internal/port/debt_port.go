package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// DebtStore handles debts and their payment ledger.
type DebtStore interface {
	// ListDebts filters by settled state when settled is non-nil.
	ListDebts(ctx context.Context, userID string, settled *bool) ([]domain.Debt, error)
	GetDebt(ctx context.Context, userID, debtID string) (*domain.Debt, error)
	CreateDebt(ctx context.Context, debt *domain.Debt) (*domain.Debt, error)
	UpdateDebt(ctx context.Context, userID, debtID string, fields map[string]any) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, userID, debtID string) error
	CountActiveDebts(ctx context.Context, userID string) (int, error)

	// CompareAndSetDebtAmount writes amount and settlement fields only while
	// the stored amount still equals prev.
	CompareAndSetDebtAmount(ctx context.Context, debt *domain.Debt, prev decimal.Decimal) (bool, error)

	InsertPayment(ctx context.Context, p *domain.DebtPayment) (*domain.DebtPayment, error)
	DeletePayment(ctx context.Context, userID, paymentID string) error
	ListPayments(ctx context.Context, userID, debtID string) ([]domain.DebtPayment, error)
}
