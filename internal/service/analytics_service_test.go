package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentNetWorth(t *testing.T) {
	h := newHarness(t)
	h.account(t, "Wallet", domain.AccountCash, "1000")
	h.account(t, "Card", domain.AccountCreditCard, "500")
	_, err := h.svc.CreateDebt(ctx, &domain.Debt{UserID: owner, PersonName: "Ana", Amount: dec("200")})
	require.NoError(t, err)

	nw, err := h.svc.CurrentNetWorth(ctx, owner)
	require.NoError(t, err)
	requireDec(t, "1200", nw.TotalAssets)
	requireDec(t, "500", nw.TotalLiabilities)
	requireDec(t, "700", nw.NetWorth)
	requireDec(t, "500", nw.CreditCardDebt)
	requireDec(t, "200", nw.Receivables)
	assert.Equal(t, "2026-10", nw.Month.Month())
}

func TestSnapshot_UpsertsPerMonth(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "100")

	_, err := h.svc.Snapshot(ctx, owner, service.TriggerManual)
	require.NoError(t, err)
	h.expense(t, acc.ID, nil, "40")
	second, err := h.svc.Snapshot(ctx, owner, service.TriggerManual)
	require.NoError(t, err)
	requireDec(t, "60", second.NetWorth)

	hist, err := h.svc.History(ctx, owner, 0)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultHistoryMonths, hist.Months)
	require.Len(t, hist.Snapshots, 1)
	requireDec(t, "60", hist.Snapshots[0].NetWorth)
	assert.Equal(t, 2, countType(h.events.Types(), domain.EventNetWorthSnapshot))
}

func TestHistory_ClampsMonths(t *testing.T) {
	h := newHarness(t)
	hist, err := h.svc.History(ctx, owner, 500)
	require.NoError(t, err)
	assert.Equal(t, service.MaxHistoryMonths, hist.Months)
	assert.Empty(t, hist.Snapshots)
}

func TestSnapshotAll_CoversEveryProfile(t *testing.T) {
	h := newHarness(t)
	for _, id := range []string{"user_a", "user_b"} {
		_, err := h.svc.GetProfile(ctx, id)
		require.NoError(t, err)
	}

	n, err := h.svc.SnapshotAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	hist, err := h.svc.History(ctx, "user_b", 1)
	require.NoError(t, err)
	assert.Len(t, hist.Snapshots, 1)
}

func TestSnapshotAll_StopsWhenCancelled(t *testing.T) {
	h := newHarness(t)
	for _, id := range []string{"user_a", "user_b", "user_c"} {
		_, err := h.svc.GetProfile(ctx, id)
		require.NoError(t, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	n, err := h.svc.SnapshotAll(cancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)

	hist, err := h.svc.History(ctx, "user_a", 1)
	require.NoError(t, err)
	assert.Empty(t, hist.Snapshots)
}

func TestMonthlySummary(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "0")
	_, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID: owner, AccountID: acc.ID, Amount: dec("1000"), Type: domain.TypeIncome, Date: day(2026, time.October, 2),
	})
	require.NoError(t, err)
	h.expense(t, acc.ID, nil, "250")

	sum, err := h.svc.MonthlySummary(ctx, owner, domain.Date{})
	require.NoError(t, err)
	assert.Equal(t, "2026-10", sum.Month)
	requireDec(t, "750", sum.Net)
	assert.Equal(t, 75, sum.SavingsRate)
	assert.Equal(t, 2, sum.TransactionCount)

	sep, err := h.svc.MonthlySummary(ctx, owner, day(2026, time.September, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, sep.TransactionCount)
}

func TestHealthScore_PersistsScore(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	_, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID: owner, AccountID: acc.ID, Amount: dec("1000"), Type: domain.TypeIncome, Date: day(2026, time.August, 20),
	})
	require.NoError(t, err)

	hs, err := h.svc.HealthScore(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.Grade(hs.Score), hs.Grade)
	assert.Equal(t, hs.Score, h.stats(t).FinancialScore)
}

func TestTrends_CachedUntilTransactionChange(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	h.expense(t, acc.ID, nil, "100")

	first, err := h.svc.Trends(ctx, owner, 3)
	require.NoError(t, err)
	require.Len(t, first.Months, 3)
	assert.Equal(t, "2026-10", first.Months[2].Month)
	requireDec(t, "100", first.Months[2].Expense)

	_, err = h.svc.Trends(ctx, owner, 3)
	require.NoError(t, err)
	hits, misses := h.metrics.CacheCounts("trends")
	assert.Equal(t, float64(1), hits)
	assert.Equal(t, float64(1), misses)

	h.expense(t, acc.ID, nil, "50")
	after, err := h.svc.Trends(ctx, owner, 3)
	require.NoError(t, err)
	requireDec(t, "150", after.Months[2].Expense)
	_, misses = h.metrics.CacheCounts("trends")
	assert.Equal(t, float64(2), misses)
}

func TestSpendingPatterns(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	h.expense(t, acc.ID, &food.ID, "30")
	h.expense(t, acc.ID, nil, "10")

	p, err := h.svc.SpendingPatterns(ctx, owner, domain.Date{})
	require.NoError(t, err)
	requireDec(t, "40", p.TotalSpending)
	require.Len(t, p.ByCategory, 2)
	assert.Equal(t, "Food", p.ByCategory[0].Name)
	assert.Equal(t, 75, p.ByCategory[0].Percent)
	assert.Equal(t, time.Wednesday.String(), p.TopSpendingDay)
}
