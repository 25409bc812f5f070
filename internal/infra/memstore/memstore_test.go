package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/infra/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestAccounts_IncrementAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(fixedClock())

	acc, err := s.CreateAccount(ctx, domain.NewAccount("u1", "Wallet", domain.AccountCash, decimal.NewFromInt(100), nil))
	require.NoError(t, err)
	require.NotEmpty(t, acc.ID)

	require.NoError(t, s.IncrementBalance(ctx, acc.ID, decimal.NewFromInt(-30)))
	got, err := s.GetAccount(ctx, "u1", acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(70)))

	require.NoError(t, s.DeactivateAccount(ctx, "u1", acc.ID))
	_, err = s.GetAccount(ctx, "u1", acc.ID)
	var nf *domain.ErrNotFound
	assert.ErrorAs(t, err, &nf)

	all, err := s.ListAccounts(ctx, "u1", true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAccounts_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	acc, err := s.CreateAccount(ctx, domain.NewAccount("u1", "Bank", domain.AccountBank, decimal.Zero, nil))
	require.NoError(t, err)

	_, err = s.GetAccount(ctx, "u2", acc.ID)
	var nf *domain.ErrNotFound
	assert.ErrorAs(t, err, &nf)

	_, err = s.UpdateAccount(ctx, "u2", acc.ID, map[string]any{"name": "stolen"})
	assert.ErrorAs(t, err, &nf)
}

func TestUpdate_OverlaysColumns(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	cat := "c1"
	txn, err := s.InsertTransaction(ctx, &domain.Transaction{
		UserID: "u1", AccountID: "a1", CategoryID: &cat, Amount: decimal.NewFromInt(10),
		Type: domain.TypeExpense, Date: domain.NewDate(2026, 10, 1),
	})
	require.NoError(t, err)
	assert.NotNil(t, txn.Tags)

	updated, err := s.UpdateTransaction(ctx, "u1", txn.ID, map[string]any{
		"amount":      decimal.NewFromInt(25),
		"category_id": nil,
		"date":        domain.NewDate(2026, 10, 5),
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(25)))
	assert.Nil(t, updated.CategoryID)
	assert.Equal(t, "2026-10-05", updated.Date.String())
	assert.Equal(t, domain.TypeExpense, updated.Type)
}

func TestCategories_CaseInsensitiveUnique(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	_, err := s.CreateCategory(ctx, &domain.Category{UserID: "u1", Name: "Food", Type: domain.TypeExpense})
	require.NoError(t, err)

	_, err = s.CreateCategory(ctx, &domain.Category{UserID: "u1", Name: " food ", Type: domain.TypeExpense})
	var cf *domain.ErrConflict
	assert.ErrorAs(t, err, &cf)

	_, err = s.CreateCategory(ctx, &domain.Category{UserID: "u2", Name: "food", Type: domain.TypeExpense})
	assert.NoError(t, err)
}

func TestCreateDefaultCategories_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	_, err := s.CreateCategory(ctx, &domain.Category{UserID: "u1", Name: "salary", Type: domain.TypeIncome})
	require.NoError(t, err)
	require.NoError(t, s.CreateDefaultCategories(ctx, "u1"))
	require.NoError(t, s.CreateDefaultCategories(ctx, "u1"))

	cats, err := s.ListCategories(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, cats, len(domain.DefaultCategories))

	income, err := s.ListCategories(ctx, "u1", domain.TypeIncome)
	require.NoError(t, err)
	assert.Len(t, income, 3)
}

func TestListTransactions_OrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(fixedClock())

	for _, day := range []int{3, 1, 7, 5} {
		_, err := s.InsertTransaction(ctx, &domain.Transaction{
			UserID: "u1", AccountID: "a1", Amount: decimal.NewFromInt(int64(day)),
			Type: domain.TypeIncome, Date: domain.NewDate(2026, 10, day),
		})
		require.NoError(t, err)
	}

	page, err := s.ListTransactions(ctx, "u1", domain.TransactionFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "2026-10-05", page[0].Date.String())
	assert.Equal(t, "2026-10-03", page[1].Date.String())

	empty, err := s.ListTransactions(ctx, "u1", domain.TransactionFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGoalCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	g, err := s.CreateGoal(ctx, &domain.SavingsGoal{UserID: "u1", Name: "Trip", TargetAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	next := *g
	next.CurrentAmount = decimal.NewFromInt(40)
	ok, err := s.CompareAndSetGoalProgress(ctx, &next, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CompareAndSetGoalProgress(ctx, &next, decimal.Zero)
	require.NoError(t, err)
	assert.False(t, ok, "stale guard must miss")
}

func TestCheckInGuardOnNullLastActive(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	_, err := s.CreateUserStats(ctx, domain.NewUserStats("u1"))
	require.NoError(t, err)

	st := domain.NewUserStats("u1")
	st.CheckIn(domain.NewDate(2026, 10, 14))
	ok, err := s.CompareAndSetCheckIn(ctx, st, domain.Date{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CompareAndSetCheckIn(ctx, st, domain.Date{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserStatsProcedures(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	require.NoError(t, s.UpdateUserStats(ctx, "u1", decimal.NewFromInt(50), true))
	st, err := s.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionXP+domain.EmotionXP, st.XP)
	assert.Equal(t, 1, st.TotalTransactions)

	require.NoError(t, s.RevertUserStats(ctx, "u1", decimal.NewFromInt(50), true))
	st, err = s.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, st.XP)
	assert.Zero(t, st.TotalTransactions)
}

func TestGrantAchievement_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)

	first, err := s.GrantAchievement(ctx, "u1", domain.BadgeDebtFree)
	require.NoError(t, err)
	second, err := s.GrantAchievement(ctx, "u1", domain.BadgeDebtFree)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	list, err := s.ListAchievements(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNetWorthUpsertPerMonth(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)
	oct := domain.NewDate(2026, 10, 1)

	_, err := s.UpsertNetWorthSnapshot(ctx, &domain.NetWorthSnapshot{UserID: "u1", Month: oct,
		NetWorthBreakdown: domain.NetWorthBreakdown{NetWorth: decimal.NewFromInt(10)}})
	require.NoError(t, err)
	_, err = s.UpsertNetWorthSnapshot(ctx, &domain.NetWorthSnapshot{UserID: "u1", Month: oct,
		NetWorthBreakdown: domain.NetWorthBreakdown{NetWorth: decimal.NewFromInt(20)}})
	require.NoError(t, err)
	_, err = s.UpsertNetWorthSnapshot(ctx, &domain.NetWorthSnapshot{UserID: "u1", Month: domain.NewDate(2026, 9, 1)})
	require.NoError(t, err)

	hist, err := s.ListNetWorthHistory(ctx, "u1", domain.NewDate(2026, 1, 1))
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2026-09-01", hist[0].Month.String())
	assert.True(t, hist[1].NetWorth.Equal(decimal.NewFromInt(20)))
}

func TestFailNext(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)
	boom := errors.New("boom")

	s.FailNext("IncrementBalance", boom)
	assert.ErrorIs(t, s.IncrementBalance(ctx, "a1", decimal.NewFromInt(1)), boom)
	assert.NoError(t, s.IncrementBalance(ctx, "a1", decimal.NewFromInt(1)))
}

func TestCreateProfile_ReportsExisting(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(nil)
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	_, created, err := s.CreateProfile(ctx, domain.DefaultProfile("u1", now))
	require.NoError(t, err)
	assert.True(t, created)

	p, created, err := s.CreateProfile(ctx, domain.DefaultProfile("u1", now))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "IDR", p.Currency)

	updated, err := s.UpdateProfile(ctx, "u1", map[string]any{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
}
