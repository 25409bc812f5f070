package memstore

import (
	"context"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

func (s *Store) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListAccounts"); err != nil {
		return nil, err
	}
	out := filter(s.accounts, func(a *domain.Account) bool {
		return a.UserID == userID && (includeInactive || a.IsActive)
	})
	byCreated(out, func(a *domain.Account) time.Time { return a.CreatedAt }, false)
	return out, nil
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetAccount"); err != nil {
		return nil, err
	}
	i := indexOf(s.accounts, func(a *domain.Account) bool {
		return a.ID == accountID && a.UserID == userID && a.IsActive
	})
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	a := s.accounts[i]
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateAccount"); err != nil {
		return nil, err
	}
	a := *account
	a.ID = newID(a.ID)
	a.CreatedAt = s.stamp()
	s.accounts = append(s.accounts, a)
	return &a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, userID, accountID string, fields map[string]any) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateAccount"); err != nil {
		return nil, err
	}
	i := indexOf(s.accounts, func(a *domain.Account) bool { return a.ID == accountID && a.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	if err := overlay(&s.accounts[i], fields); err != nil {
		return nil, err
	}
	a := s.accounts[i]
	return &a, nil
}

func (s *Store) DeactivateAccount(ctx context.Context, userID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeactivateAccount"); err != nil {
		return err
	}
	i := indexOf(s.accounts, func(a *domain.Account) bool { return a.ID == accountID && a.UserID == userID })
	if i >= 0 {
		s.accounts[i].IsActive = false
	}
	return nil
}

// IncrementBalance mirrors increment_balance(p_account_id, p_amount).
func (s *Store) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("IncrementBalance"); err != nil {
		return err
	}
	i := indexOf(s.accounts, func(a *domain.Account) bool { return a.ID == accountID })
	if i >= 0 {
		s.accounts[i].Balance = s.accounts[i].Balance.Add(delta)
	}
	return nil
}
