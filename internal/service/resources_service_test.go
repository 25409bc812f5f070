package service_test

import (
	"testing"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustBalance(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "100")

	got, err := h.svc.AdjustBalance(ctx, owner, acc.ID, dec("250.25"))
	require.NoError(t, err)
	requireDec(t, "250.25", got.Balance)
	requireDec(t, "100", got.InitialBalance)
}

func TestDeleteAccount_SoftDeletes(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "100")
	require.NoError(t, h.svc.DeleteAccount(ctx, owner, acc.ID))

	list, err := h.svc.ListAccounts(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list.Accounts)

	var nf *domain.ErrNotFound
	require.ErrorAs(t, h.svc.DeleteAccount(ctx, owner, acc.ID), &nf)
}

func TestAccounts_LiabilityStoredNegative(t *testing.T) {
	h := newHarness(t)
	card := h.account(t, "Card", domain.AccountCreditCard, "300")
	assert.False(t, card.IsAsset)
	requireDec(t, "-300", card.Balance)

	list, err := h.svc.ListAccounts(ctx, owner)
	require.NoError(t, err)
	requireDec(t, "300", list.Summary.TotalLiabilities)
	requireDec(t, "-300", list.Summary.NetWorth)
}

func TestCategories_DuplicateNameIgnoresCase(t *testing.T) {
	h := newHarness(t)
	h.category(t, "Food", domain.TypeExpense)
	other := h.category(t, "Fun", domain.TypeExpense)

	_, err := h.svc.CreateCategory(ctx, &domain.Category{UserID: owner, Name: " food ", Type: domain.TypeExpense})
	var cf *domain.ErrConflict
	require.ErrorAs(t, err, &cf)

	_, err = h.svc.UpdateCategory(ctx, owner, other.ID, domain.CategoryPatch{Name: ptr("FOOD")})
	require.ErrorAs(t, err, &cf)

	renamed, err := h.svc.UpdateCategory(ctx, owner, other.ID, domain.CategoryPatch{Name: ptr("Fun & Games")})
	require.NoError(t, err)
	assert.Equal(t, "Fun & Games", renamed.Name)
}

func TestListCategories_SeedsDefaultsWhenEmpty(t *testing.T) {
	h := newHarness(t)

	income, err := h.svc.ListCategories(ctx, owner, domain.TypeIncome)
	require.NoError(t, err)
	assert.Len(t, income, 3)

	all, err := h.svc.ListCategories(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultCategories))
}

func TestBudgets_NearLimitAtThreshold(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "5000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "1000")
	assert.Equal(t, domain.PeriodMonthly, b.Period)
	assert.Equal(t, "2026-10-01", b.StartDate.String())
	assert.Equal(t, domain.DefaultAlertThreshold, b.AlertThreshold)

	h.expense(t, acc.ID, &food.ID, "800")

	res, err := h.svc.ListBudgets(ctx, owner)
	require.NoError(t, err)
	require.Len(t, res.Budgets, 1)
	v := res.Budgets[0]
	assert.Equal(t, 80, v.PercentUsed)
	assert.True(t, v.IsNearLimit)
	assert.False(t, v.IsOverBudget)
	requireDec(t, "200", v.Remaining)
	require.NotNil(t, v.Category)
	assert.Equal(t, "Food", v.Category.Name)
	requireDec(t, "800", res.Summary.TotalSpent)
}

func TestBudgets_OnePerCategory(t *testing.T) {
	h := newHarness(t)
	food := h.category(t, "Food", domain.TypeExpense)
	h.budget(t, food.ID, "100")

	_, err := h.svc.CreateBudget(ctx, &domain.Budget{UserID: owner, CategoryID: food.ID, Amount: dec("50")})
	var cf *domain.ErrConflict
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, "Budget already exists for this category", cf.Message)
}

func TestGetProfile_CreatesDefaultsAndSeeds(t *testing.T) {
	h := newHarness(t)

	p, err := h.svc.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "IDR", p.Currency)

	cats, err := h.store.ListCategories(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, cats, len(domain.DefaultCategories))

	up, err := h.svc.UpdateProfile(ctx, owner, domain.ProfilePatch{Theme: ptr("dark"), OnboardingCompleted: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "dark", up.Theme)
	assert.True(t, up.OnboardingCompleted)
	assert.Equal(t, "IDR", up.Currency)
}
