package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// ============================================================
// Net worth
// ============================================================

// Net worth history window bounds, in months.
const (
	DefaultHistoryMonths = 12
	MaxHistoryMonths     = 60
)

// Snapshot triggers.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// snapshotConcurrency bounds the owners snapshotted in parallel by SnapshotAll.
const snapshotConcurrency = 4

// netWorthInputs reads the accounts, debts and current-month transactions
// concurrently.
func (s *FinanceService) netWorthInputs(ctx context.Context, userID string, month domain.Date) (domain.NetWorthBreakdown, error) {
	var (
		accounts []domain.Account
		debts    []domain.Debt
		txns     []domain.Transaction
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
		d, err := s.store.ListDebts(gCtx, userID, nil)
		if err != nil {
			return fmt.Errorf("debts fetch: %w", err)
		}
		debts = d
		return nil
	})
	g.Go(func() error {
		t, err := s.store.ListTransactions(gCtx, userID, domain.TransactionFilter{
			From: month,
			To:   month.AddMonths(1).AddDays(-1),
		})
		if err != nil {
			return fmt.Errorf("transactions fetch: %w", err)
		}
		txns = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.NetWorthBreakdown{}, err
	}
	return domain.ComputeNetWorth(accounts, debts, txns), nil
}

// CurrentNetWorth computes the live breakdown for this month.
func (s *FinanceService) CurrentNetWorth(ctx context.Context, userID string) (*domain.NetWorthSnapshot, error) {
	ctx, end := s.startOp(ctx, "CurrentNetWorth", userID)
	defer end()

	month := s.today().FirstOfMonth()
	b, err := s.netWorthInputs(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return &domain.NetWorthSnapshot{UserID: userID, Month: month, NetWorthBreakdown: b}, nil
}

// Snapshot computes and upserts this month's snapshot; repeated calls in
// the same month overwrite it.
func (s *FinanceService) Snapshot(ctx context.Context, userID, trigger string) (*domain.NetWorthSnapshot, error) {
	ctx, end := s.startOp(ctx, "Snapshot", userID)
	defer end()

	month := s.today().FirstOfMonth()
	b, err := s.netWorthInputs(ctx, userID, month)
	if err != nil {
		s.metrics.IncrSnapshot(trigger, false)
		return nil, err
	}
	saved, err := s.store.UpsertNetWorthSnapshot(ctx, &domain.NetWorthSnapshot{
		UserID:            userID,
		Month:             month,
		NetWorthBreakdown: b,
	})
	s.metrics.IncrSnapshot(trigger, err == nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("net worth snapshot saved",
		zap.String("user_id", userID),
		zap.String("month", month.Month()),
		zap.String("trigger", trigger),
		zap.String("net_worth", saved.NetWorth.String()),
	)
	s.publish(ctx, domain.EventNetWorthSnapshot, userID, saved.ID, saved)
	return saved, nil
}

// History returns up to months snapshots ending with this month, oldest first.
func (s *FinanceService) History(ctx context.Context, userID string, months int) (*domain.NetWorthHistory, error) {
	ctx, end := s.startOp(ctx, "NetWorthHistory", userID)
	defer end()

	if months <= 0 {
		months = DefaultHistoryMonths
	}
	if months > MaxHistoryMonths {
		months = MaxHistoryMonths
	}
	since := s.today().FirstOfMonth().AddMonths(1 - months)
	snaps, err := s.store.ListNetWorthHistory(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	return &domain.NetWorthHistory{Snapshots: snaps, Months: months}, nil
}

// SnapshotAll snapshots every known owner. Per-owner failures are logged
// and counted; it returns how many snapshots were written. Owners not yet
// started when ctx ends are skipped and ctx's error is returned.
func (s *FinanceService) SnapshotAll(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "FinanceService.SnapshotAll")
	defer span.End()

	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	var written atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if _, err := s.Snapshot(gCtx, id, TriggerScheduled); err != nil {
				s.logger.Warn("scheduled snapshot failed", zap.String("user_id", id), zap.Error(err))
				return nil
			}
			written.Add(1)
			return nil
		})
	}
	err = g.Wait()

	s.logger.Info("scheduled snapshots finished",
		zap.Int("owners", len(ids)),
		zap.Int64("written", written.Load()),
		zap.Error(err),
	)
	return int(written.Load()), err
}
