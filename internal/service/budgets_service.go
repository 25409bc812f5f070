package service

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Budgets
// ============================================================

func (s *FinanceService) ListBudgets(ctx context.Context, userID string) (*domain.BudgetsResponse, error) {
	ctx, end := s.startOp(ctx, "ListBudgets", userID)
	defer end()

	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	cats, err := s.store.ListCategories(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}

	views := make([]domain.BudgetView, 0, len(budgets))
	for _, b := range budgets {
		v := domain.NewBudgetView(b)
		v.Category = byID[b.CategoryID]
		views = append(views, v)
	}
	return &domain.BudgetsResponse{Budgets: views, Summary: domain.SummarizeBudgets(views)}, nil
}

// CreateBudget fills period, start date and alert threshold defaults.
// Spent starts at the categorized expenses already posted in the period.
func (s *FinanceService) CreateBudget(ctx context.Context, b *domain.Budget) (*domain.BudgetView, error) {
	ctx, end := s.startOp(ctx, "CreateBudget", b.UserID)
	defer end()

	cat, err := s.store.GetCategory(ctx, b.UserID, b.CategoryID)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListBudgetsForCategory(ctx, b.UserID, b.CategoryID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, &domain.ErrConflict{Message: "Budget already exists for this category"}
	}

	if b.Period == "" {
		b.Period = domain.PeriodMonthly
	}
	if b.StartDate.IsZero() {
		b.StartDate = s.today().FirstOfMonth()
	}
	if b.AlertThreshold == 0 {
		b.AlertThreshold = domain.DefaultAlertThreshold
	}
	if b.Spent, err = s.coveredSpent(ctx, b); err != nil {
		return nil, err
	}

	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return nil, err
	}
	s.logger.Info("budget created",
		zap.String("user_id", created.UserID),
		zap.String("budget_id", created.ID),
		zap.String("category_id", created.CategoryID),
		zap.String("period", created.Period),
	)
	v := domain.NewBudgetView(*created)
	v.Category = cat
	return &v, nil
}

func (s *FinanceService) UpdateBudget(ctx context.Context, userID, budgetID string, patch domain.BudgetPatch) (*domain.BudgetView, error) {
	ctx, end := s.startOp(ctx, "UpdateBudget", userID)
	defer end()

	existing, err := s.store.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	fields := patch.Fields()
	if patch.Period != nil || patch.StartDate != nil {
		next := *existing
		patch.Apply(&next)
		spent, err := s.coveredSpent(ctx, &next)
		if err != nil {
			return nil, err
		}
		fields["spent"] = spent
	}
	updated := existing
	if len(fields) > 0 {
		if updated, err = s.store.UpdateBudget(ctx, userID, budgetID, fields); err != nil {
			return nil, err
		}
	}
	v := domain.NewBudgetView(*updated)
	if cat, err := s.store.GetCategory(ctx, userID, updated.CategoryID); err == nil {
		v.Category = cat
	}
	return &v, nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	ctx, end := s.startOp(ctx, "DeleteBudget", userID)
	defer end()

	if _, err := s.store.GetBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.store.DeleteBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	s.logger.Info("budget deleted", zap.String("user_id", userID), zap.String("budget_id", budgetID))
	return nil
}

// coveredSpent sums the categorized expenses dated inside b's period, so
// reversing any covered transaction removes exactly what it contributed.
func (s *FinanceService) coveredSpent(ctx context.Context, b *domain.Budget) (decimal.Decimal, error) {
	txns, err := s.store.ListTransactions(ctx, b.UserID, domain.TransactionFilter{
		Type:       domain.TypeExpense,
		CategoryID: b.CategoryID,
		From:       b.StartDate,
		To:         b.PeriodEnd().AddDays(-1),
	})
	if err != nil {
		return decimal.Zero, err
	}
	spent := decimal.Zero
	for i := range txns {
		spent = spent.Add(txns[i].Amount)
	}
	return spent, nil
}
