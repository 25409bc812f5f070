package memstore

import (
	"context"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

func (s *Store) ListDebts(ctx context.Context, userID string, settled *bool) ([]domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListDebts"); err != nil {
		return nil, err
	}
	out := filter(s.debts, func(d *domain.Debt) bool {
		return d.UserID == userID && (settled == nil || d.IsSettled == *settled)
	})
	byCreated(out, func(d *domain.Debt) time.Time { return d.CreatedAt }, true)
	return out, nil
}

func (s *Store) GetDebt(ctx context.Context, userID, debtID string) (*domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetDebt"); err != nil {
		return nil, err
	}
	i := indexOf(s.debts, func(d *domain.Debt) bool { return d.ID == debtID && d.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "debt", ID: debtID}
	}
	d := s.debts[i]
	return &d, nil
}

func (s *Store) CreateDebt(ctx context.Context, debt *domain.Debt) (*domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateDebt"); err != nil {
		return nil, err
	}
	d := *debt
	d.ID = newID(d.ID)
	d.CreatedAt = s.stamp()
	s.debts = append(s.debts, d)
	return &d, nil
}

func (s *Store) UpdateDebt(ctx context.Context, userID, debtID string, fields map[string]any) (*domain.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateDebt"); err != nil {
		return nil, err
	}
	i := indexOf(s.debts, func(d *domain.Debt) bool { return d.ID == debtID && d.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "debt", ID: debtID}
	}
	if err := overlay(&s.debts[i], fields); err != nil {
		return nil, err
	}
	d := s.debts[i]
	return &d, nil
}

// DeleteDebt cascades to the payment ledger.
func (s *Store) DeleteDebt(ctx context.Context, userID, debtID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeleteDebt"); err != nil {
		return err
	}
	if i := indexOf(s.debts, func(d *domain.Debt) bool { return d.ID == debtID && d.UserID == userID }); i >= 0 {
		s.debts = removeAt(s.debts, i)
		s.payments = filter(s.payments, func(p *domain.DebtPayment) bool { return p.DebtID != debtID })
	}
	return nil
}

func (s *Store) CountActiveDebts(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CountActiveDebts"); err != nil {
		return 0, err
	}
	return len(filter(s.debts, func(d *domain.Debt) bool { return d.UserID == userID && !d.IsSettled })), nil
}

func (s *Store) CompareAndSetDebtAmount(ctx context.Context, debt *domain.Debt, prev decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CompareAndSetDebtAmount"); err != nil {
		return false, err
	}
	i := indexOf(s.debts, func(d *domain.Debt) bool {
		return d.ID == debt.ID && d.UserID == debt.UserID && d.Amount.Equal(prev)
	})
	if i < 0 {
		return false, nil
	}
	s.debts[i].Amount = debt.Amount
	s.debts[i].IsSettled = debt.IsSettled
	s.debts[i].SettledAt = debt.SettledAt
	return true, nil
}

func (s *Store) InsertPayment(ctx context.Context, p *domain.DebtPayment) (*domain.DebtPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("InsertPayment"); err != nil {
		return nil, err
	}
	row := *p
	row.ID = newID(row.ID)
	row.CreatedAt = s.stamp()
	s.payments = append(s.payments, row)
	return &row, nil
}

func (s *Store) DeletePayment(ctx context.Context, userID, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeletePayment"); err != nil {
		return err
	}
	if i := indexOf(s.payments, func(p *domain.DebtPayment) bool { return p.ID == paymentID && p.UserID == userID }); i >= 0 {
		s.payments = removeAt(s.payments, i)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context, userID, debtID string) ([]domain.DebtPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListPayments"); err != nil {
		return nil, err
	}
	out := filter(s.payments, func(p *domain.DebtPayment) bool { return p.UserID == userID && p.DebtID == debtID })
	byCreated(out, func(p *domain.DebtPayment) time.Time { return p.CreatedAt }, true)
	return out, nil
}
