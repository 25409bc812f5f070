package memstore

import (
	"context"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListBudgets"); err != nil {
		return nil, err
	}
	out := filter(s.budgets, func(b *domain.Budget) bool { return b.UserID == userID })
	byCreated(out, func(b *domain.Budget) time.Time { return b.CreatedAt }, false)
	return out, nil
}

func (s *Store) ListBudgetsForCategory(ctx context.Context, userID, categoryID string) ([]domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListBudgetsForCategory"); err != nil {
		return nil, err
	}
	return filter(s.budgets, func(b *domain.Budget) bool {
		return b.UserID == userID && b.CategoryID == categoryID
	}), nil
}

func (s *Store) GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetBudget"); err != nil {
		return nil, err
	}
	i := indexOf(s.budgets, func(b *domain.Budget) bool { return b.ID == budgetID && b.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "budget", ID: budgetID}
	}
	b := s.budgets[i]
	return &b, nil
}

// CreateBudget enforces the unique (user_id, category_id) constraint.
func (s *Store) CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateBudget"); err != nil {
		return nil, err
	}
	dup := indexOf(s.budgets, func(b *domain.Budget) bool {
		return b.UserID == budget.UserID && b.CategoryID == budget.CategoryID
	})
	if dup >= 0 {
		return nil, &domain.ErrConflict{Message: "resource already exists"}
	}
	b := *budget
	b.ID = newID(b.ID)
	b.CreatedAt = s.stamp()
	s.budgets = append(s.budgets, b)
	return &b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, userID, budgetID string, fields map[string]any) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateBudget"); err != nil {
		return nil, err
	}
	i := indexOf(s.budgets, func(b *domain.Budget) bool { return b.ID == budgetID && b.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "budget", ID: budgetID}
	}
	if err := overlay(&s.budgets[i], fields); err != nil {
		return nil, err
	}
	b := s.budgets[i]
	return &b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeleteBudget"); err != nil {
		return err
	}
	if i := indexOf(s.budgets, func(b *domain.Budget) bool { return b.ID == budgetID && b.UserID == userID }); i >= 0 {
		s.budgets = removeAt(s.budgets, i)
	}
	return nil
}

// AddBudgetSpent mirrors budget_add_spent(p_budget_id, p_amount).
func (s *Store) AddBudgetSpent(ctx context.Context, budgetID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("AddBudgetSpent"); err != nil {
		return err
	}
	if i := indexOf(s.budgets, func(b *domain.Budget) bool { return b.ID == budgetID }); i >= 0 {
		s.budgets[i].Spent = s.budgets[i].Spent.Add(amount)
	}
	return nil
}
