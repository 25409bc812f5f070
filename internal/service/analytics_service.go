package service

import (
	"context"
	"fmt"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// ============================================================
// Analytics
// ============================================================

// monthOrCurrent normalizes a month selector; the zero value means this month.
func (s *FinanceService) monthOrCurrent(month domain.Date) domain.Date {
	if month.IsZero() {
		return s.today().FirstOfMonth()
	}
	return month.FirstOfMonth()
}

// rangeTransactions fetches every transaction dated inside [from, to].
func (s *FinanceService) rangeTransactions(ctx context.Context, userID string, from, to domain.Date) ([]domain.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, domain.TransactionFilter{From: from, To: to})
}

func (s *FinanceService) MonthlySummary(ctx context.Context, userID string, month domain.Date) (*domain.MonthlySummary, error) {
	ctx, end := s.startOp(ctx, "MonthlySummary", userID)
	defer end()

	month = s.monthOrCurrent(month)
	txns, err := s.rangeTransactions(ctx, userID, month, month.AddMonths(1).AddDays(-1))
	if err != nil {
		return nil, err
	}
	sum := domain.SummarizeMonth(month, txns)
	return &sum, nil
}

// HealthScore scores the owner over the trailing window and stores the
// score on the stats row. A failed store of the score is logged only.
func (s *FinanceService) HealthScore(ctx context.Context, userID string) (*domain.HealthScore, error) {
	ctx, end := s.startOp(ctx, "HealthScore", userID)
	defer end()

	today := s.today()
	from := today.FirstOfMonth().AddMonths(1 - domain.HealthWindowMonths)

	var (
		accounts []domain.Account
		txns     []domain.Transaction
		budgets  []domain.Budget
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.store.ListAccounts(gCtx, userID, false)
		if err != nil {
			return fmt.Errorf("accounts fetch: %w", err)
		}
		accounts = a
		return nil
	})
	g.Go(func() error {
		t, err := s.rangeTransactions(gCtx, userID, from, today)
		if err != nil {
			return fmt.Errorf("transactions fetch: %w", err)
		}
		txns = t
		return nil
	})
	g.Go(func() error {
		b, err := s.store.ListBudgets(gCtx, userID)
		if err != nil {
			return fmt.Errorf("budgets fetch: %w", err)
		}
		budgets = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hs := domain.ComputeHealthScore(accounts, txns, budgets)
	if _, err := s.ensureStats(ctx, userID); err == nil {
		err = s.store.SetFinancialScore(ctx, userID, hs.Score)
		if err != nil {
			s.logger.Warn("financial score store failed", zap.String("user_id", userID), zap.Error(err))
		}
	} else {
		s.logger.Warn("stats read failed", zap.String("user_id", userID), zap.Error(err))
	}
	return &hs, nil
}

func (s *FinanceService) SpendingPatterns(ctx context.Context, userID string, month domain.Date) (*domain.SpendingPatterns, error) {
	ctx, end := s.startOp(ctx, "SpendingPatterns", userID)
	defer end()

	month = s.monthOrCurrent(month)
	txns, err := s.store.ListTransactions(ctx, userID, domain.TransactionFilter{
		Type: domain.TypeExpense,
		From: month,
		To:   month.AddMonths(1).AddDays(-1),
	})
	if err != nil {
		return nil, err
	}
	cats, err := s.store.ListCategories(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	p := domain.ComputeSpendingPatterns(month, txns, cats)
	return &p, nil
}

// Trends sums the trailing months ending with this month. Results are
// cached per owner, window and current month; transaction mutations drop
// the owner's entries.
func (s *FinanceService) Trends(ctx context.Context, userID string, months int) (*domain.Trends, error) {
	ctx, end := s.startOp(ctx, "Trends", userID)
	defer end()

	months = domain.ClampTrendMonths(months)
	today := s.today()
	key := fmt.Sprintf("%s%d:%s", trendsKeyPrefix(userID), months, today.Month())
	if s.trends != nil {
		if cached, ok := s.trends.Get(key); ok {
			s.metrics.IncrCacheHit("trends")
			return cached, nil
		}
		s.metrics.IncrCacheMiss("trends")
	}

	window := domain.TrailingMonths(today, months)
	txns, err := s.rangeTransactions(ctx, userID, window[0], today.FirstOfMonth().AddMonths(1).AddDays(-1))
	if err != nil {
		return nil, err
	}
	tr := domain.ComputeTrends(window, txns)
	if s.trends != nil {
		s.trends.Set(key, &tr)
	}
	return &tr, nil
}
