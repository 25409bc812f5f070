package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// TransactionStore handles transaction rows. Side effects on balances,
// budgets and stats are orchestrated by the service layer.
type TransactionStore interface {
	// ListTransactions returns matching rows, newest date first.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	// InsertTransaction keeps txn.ID when set, so a deleted row can be restored.
	InsertTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, fields map[string]any) (*domain.Transaction, error)
	// DeleteTransaction returns ErrNotFound when no row matched.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}
