package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/infra/cache"
	"github.com/boddenberg/spendwise-api/internal/infra/events"
	"github.com/boddenberg/spendwise-api/internal/infra/memstore"
	"github.com/boddenberg/spendwise-api/internal/infra/observability"
	"github.com/boddenberg/spendwise-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const owner = "user_1"

var ctx = context.Background()

// clock is a settable "now" shared by the store and the service.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advanceDays(n int) { c.t = c.t.AddDate(0, 0, n) }

type harness struct {
	svc     *service.FinanceService
	store   *memstore.Store
	events  *events.Recorder
	metrics *observability.Metrics
	clock   *clock
}

func newHarness(t *testing.T, opts ...service.Option) *harness {
	t.Helper()
	c := &clock{t: time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)}
	store := memstore.New(c.now)
	rec := &events.Recorder{}
	metrics := observability.NewMetrics()
	trends := cache.New[*domain.Trends](time.Minute, 64)
	t.Cleanup(trends.Close)

	base := []service.Option{
		service.WithClock(c.now),
		service.WithEvents(rec),
		service.WithTrendsCache(trends),
	}
	svc := service.NewFinanceService(store, metrics, zap.NewNop(), append(base, opts...)...)
	return &harness{svc: svc, store: store, events: rec, metrics: metrics, clock: c}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) domain.Date { return domain.NewDate(y, m, d) }

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func (h *harness) account(t *testing.T, name, accountType, initial string) *domain.Account {
	t.Helper()
	a, err := h.svc.CreateAccount(ctx, domain.NewAccount(owner, name, accountType, dec(initial), nil))
	require.NoError(t, err)
	return a
}

func (h *harness) category(t *testing.T, name, kind string) *domain.Category {
	t.Helper()
	c, err := h.svc.CreateCategory(ctx, &domain.Category{UserID: owner, Name: name, Type: kind, Color: "#000", Icon: "tag"})
	require.NoError(t, err)
	return c
}

func (h *harness) budget(t *testing.T, categoryID, amount string) *domain.BudgetView {
	t.Helper()
	b, err := h.svc.CreateBudget(ctx, &domain.Budget{UserID: owner, CategoryID: categoryID, Amount: dec(amount)})
	require.NoError(t, err)
	return b
}

func (h *harness) expense(t *testing.T, accountID string, categoryID *string, amount string) *domain.TransactionResult {
	t.Helper()
	res, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID:     owner,
		AccountID:  accountID,
		CategoryID: categoryID,
		Amount:     dec(amount),
		Type:       domain.TypeExpense,
		Date:       day(2026, time.October, 14),
	})
	require.NoError(t, err)
	return res
}

func (h *harness) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	a, err := h.svc.GetAccount(ctx, owner, accountID)
	require.NoError(t, err)
	return a.Balance
}

func (h *harness) spent(t *testing.T, budgetID string) decimal.Decimal {
	t.Helper()
	b, err := h.store.GetBudget(ctx, owner, budgetID)
	require.NoError(t, err)
	return b.Spent
}

func (h *harness) stats(t *testing.T) *domain.UserStats {
	t.Helper()
	res, err := h.svc.GetStats(ctx, owner)
	require.NoError(t, err)
	return res.Stats
}
