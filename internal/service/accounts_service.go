package service

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Accounts
// ============================================================

func (s *FinanceService) ListAccounts(ctx context.Context, userID string) (*domain.AccountsResponse, error) {
	ctx, end := s.startOp(ctx, "ListAccounts", userID)
	defer end()

	accounts, err := s.store.ListAccounts(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	return &domain.AccountsResponse{Accounts: accounts, Summary: domain.SummarizeAccounts(accounts)}, nil
}

func (s *FinanceService) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	ctx, end := s.startOp(ctx, "GetAccount", userID)
	defer end()

	return s.store.GetAccount(ctx, userID, accountID)
}

// CreateAccount stores a normalized account (see domain.NewAccount).
func (s *FinanceService) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, end := s.startOp(ctx, "CreateAccount", account.UserID)
	defer end()

	created, err := s.store.CreateAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created",
		zap.String("user_id", created.UserID),
		zap.String("account_id", created.ID),
		zap.String("type", created.Type),
	)
	return created, nil
}

func (s *FinanceService) UpdateAccount(ctx context.Context, userID, accountID string, patch domain.AccountPatch) (*domain.Account, error) {
	ctx, end := s.startOp(ctx, "UpdateAccount", userID)
	defer end()

	existing, err := s.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return existing, nil
	}
	return s.store.UpdateAccount(ctx, userID, accountID, patch.Fields())
}

// AdjustBalance sets the balance to target by applying the difference
// through increment_balance, so concurrent transaction effects are kept.
func (s *FinanceService) AdjustBalance(ctx context.Context, userID, accountID string, target decimal.Decimal) (*domain.Account, error) {
	ctx, end := s.startOp(ctx, "AdjustBalance", userID)
	defer end()

	acc, err := s.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	delta := target.Sub(acc.Balance)
	if delta.IsZero() {
		return acc, nil
	}
	if err := s.store.IncrementBalance(ctx, accountID, delta); err != nil {
		return nil, err
	}
	s.logger.Info("account balance adjusted",
		zap.String("user_id", userID),
		zap.String("account_id", accountID),
		zap.String("delta", delta.String()),
	)
	return s.store.GetAccount(ctx, userID, accountID)
}

// DeleteAccount soft-deletes; transactions keep referencing the account.
func (s *FinanceService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, end := s.startOp(ctx, "DeleteAccount", userID)
	defer end()

	if _, err := s.store.GetAccount(ctx, userID, accountID); err != nil {
		return err
	}
	return s.store.DeactivateAccount(ctx, userID, accountID)
}
