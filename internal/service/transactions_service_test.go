package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransaction_ExpenseAppliesEveryEffect(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "500")

	res := h.expense(t, acc.ID, &food.ID, "120.50")

	requireDec(t, "879.50", res.NewBalance)
	assert.Nil(t, res.ToAccountBalance)
	requireDec(t, "879.50", h.balance(t, acc.ID))
	requireDec(t, "120.50", h.spent(t, b.ID))

	st := h.stats(t)
	assert.Equal(t, 1, st.TotalTransactions)
	assert.Equal(t, domain.TransactionXP, st.XP)
	assert.Equal(t, []string{domain.EventTransactionCreated}, h.events.Types())
	assert.Equal(t, float64(1), h.metrics.MutationCount("create_transaction", "success"))
}

func TestCreateTransaction_TransferMovesBothBalances(t *testing.T) {
	h := newHarness(t)
	from := h.account(t, "Bank", domain.AccountBank, "1000")
	to := h.account(t, "Savings", domain.AccountBank, "0")

	res, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID:      owner,
		AccountID:   from.ID,
		ToAccountID: &to.ID,
		Amount:      dec("250"),
		Type:        domain.TypeTransfer,
		Date:        day(2026, time.October, 1),
	})
	require.NoError(t, err)

	requireDec(t, "750", res.NewBalance)
	require.NotNil(t, res.ToAccountBalance)
	requireDec(t, "250", *res.ToAccountBalance)
}

func TestCreateTransaction_DefaultsDateToToday(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "10")

	res, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID: owner, AccountID: acc.ID, Amount: dec("5"), Type: domain.TypeIncome,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", res.Transaction.Date.String())
	assert.NotNil(t, res.Transaction.Tags)
}

func TestCreateTransaction_Rejections(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "100")
	missing := "nope"

	tests := []struct {
		name  string
		txn   domain.Transaction
		check func(t *testing.T, err error)
	}{
		{
			name: "transfer to same account",
			txn:  domain.Transaction{AccountID: acc.ID, ToAccountID: &acc.ID, Amount: dec("1"), Type: domain.TypeTransfer},
			check: func(t *testing.T, err error) {
				var ve domain.ValidationErrors
				require.ErrorAs(t, err, &ve)
			},
		},
		{
			name: "non-positive amount",
			txn:  domain.Transaction{AccountID: acc.ID, Amount: dec("0"), Type: domain.TypeExpense},
			check: func(t *testing.T, err error) {
				var ve domain.ValidationErrors
				require.ErrorAs(t, err, &ve)
			},
		},
		{
			name: "unknown account",
			txn:  domain.Transaction{AccountID: missing, Amount: dec("1"), Type: domain.TypeExpense},
			check: func(t *testing.T, err error) {
				var nf *domain.ErrNotFound
				require.ErrorAs(t, err, &nf)
			},
		},
		{
			name: "unknown category",
			txn:  domain.Transaction{AccountID: acc.ID, CategoryID: &missing, Amount: dec("1"), Type: domain.TypeExpense},
			check: func(t *testing.T, err error) {
				var nf *domain.ErrNotFound
				require.ErrorAs(t, err, &nf)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := tt.txn
			txn.UserID = owner
			_, err := h.svc.CreateTransaction(ctx, &txn)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
	requireDec(t, "100", h.balance(t, acc.ID))
}

func TestDeleteTransaction_RestoresEveryEffect(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "500")
	res := h.expense(t, acc.ID, &food.ID, "300")

	require.NoError(t, h.svc.DeleteTransaction(ctx, owner, res.Transaction.ID))

	requireDec(t, "1000", h.balance(t, acc.ID))
	requireDec(t, "0", h.spent(t, b.ID))
	st := h.stats(t)
	assert.Equal(t, 0, st.TotalTransactions)
	assert.Equal(t, 0, st.XP)

	_, err := h.svc.GetTransaction(ctx, owner, res.Transaction.ID)
	var nf *domain.ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{domain.EventTransactionCreated, domain.EventTransactionDeleted}, h.events.Types())
}

func TestUpdateTransaction_AppliesAmountDifference(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "500")
	res := h.expense(t, acc.ID, &food.ID, "100")

	up, err := h.svc.UpdateTransaction(ctx, owner, res.Transaction.ID, domain.TransactionPatch{Amount: ptr(dec("150"))})
	require.NoError(t, err)

	requireDec(t, "850", up.NewBalance)
	requireDec(t, "150", h.spent(t, b.ID))
	assert.Equal(t, 1, h.stats(t).TotalTransactions)
}

func TestUpdateTransaction_TypeAndAccountChange(t *testing.T) {
	h := newHarness(t)
	a := h.account(t, "A", domain.AccountCash, "1000")
	b := h.account(t, "B", domain.AccountBank, "1000")
	res := h.expense(t, a.ID, nil, "100")

	_, err := h.svc.UpdateTransaction(ctx, owner, res.Transaction.ID, domain.TransactionPatch{
		AccountID: &b.ID,
		Type:      ptr(domain.TypeIncome),
	})
	require.NoError(t, err)

	requireDec(t, "1000", h.balance(t, a.ID))
	requireDec(t, "1100", h.balance(t, b.ID))
}

func TestUpdateTransaction_EmotionSwapsStats(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "100")
	res := h.expense(t, acc.ID, nil, "10")

	_, err := h.svc.UpdateTransaction(ctx, owner, res.Transaction.ID, domain.TransactionPatch{Emotion: ptr("happy")})
	require.NoError(t, err)

	st := h.stats(t)
	assert.Equal(t, domain.TransactionXP+domain.EmotionXP, st.XP)
	assert.Equal(t, 1, st.TotalTransactions)
}

func TestCreateTransaction_CompensatesOnBudgetFailure(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "500")

	h.store.FailNext("AddBudgetSpent", errors.New("connection reset"))
	_, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID: owner, AccountID: acc.ID, CategoryID: &food.ID,
		Amount: dec("200"), Type: domain.TypeExpense, Date: day(2026, time.October, 10),
	})

	var ext *domain.ErrExternalService
	require.ErrorAs(t, err, &ext)
	requireDec(t, "1000", h.balance(t, acc.ID))
	requireDec(t, "0", h.spent(t, b.ID))

	page, err := h.svc.ListTransactions(ctx, owner, domain.TransactionFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)

	assert.Equal(t, float64(1), h.metrics.MutationCount("create_transaction", "compensated"))
	assert.Equal(t, float64(1), h.metrics.CompensationCount("increment_balance", true))
	assert.Equal(t, float64(1), h.metrics.CompensationCount("insert_transaction", true))
	assert.Empty(t, h.events.Types())
}

func TestDeleteTransaction_CompensatesOnRowDeleteFailure(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	res := h.expense(t, acc.ID, nil, "40")

	h.store.FailNext("DeleteTransaction", errors.New("timeout"))
	err := h.svc.DeleteTransaction(ctx, owner, res.Transaction.ID)
	require.Error(t, err)

	requireDec(t, "960", h.balance(t, acc.ID))
	assert.Equal(t, 1, h.stats(t).TotalTransactions)
	_, err = h.svc.GetTransaction(ctx, owner, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1), h.metrics.MutationCount("delete_transaction", "compensated"))
}

func TestCreateTransaction_BudgetOutsidePeriodUntouched(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "500")

	_, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID: owner, AccountID: acc.ID, CategoryID: &food.ID,
		Amount: dec("50"), Type: domain.TypeExpense, Date: day(2026, time.September, 30),
	})
	require.NoError(t, err)
	requireDec(t, "0", h.spent(t, b.ID))
}

func TestListTransactions_Pagination(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	for i := 0; i < 3; i++ {
		h.expense(t, acc.ID, nil, "10")
	}

	first, err := h.svc.ListTransactions(ctx, owner, domain.TransactionFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, first.Transactions, 2)
	assert.True(t, first.HasMore)
	requireDec(t, "20", first.Summary.Expense)

	second, err := h.svc.ListTransactions(ctx, owner, domain.TransactionFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, second.Transactions, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, 2, second.Page)
}

func TestCreateBudget_CountsExpensesAlreadyPosted(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	res := h.expense(t, acc.ID, &food.ID, "300")
	_, err := h.svc.CreateTransaction(ctx, &domain.Transaction{
		UserID: owner, AccountID: acc.ID, CategoryID: &food.ID,
		Amount: dec("70"), Type: domain.TypeExpense, Date: day(2026, time.September, 30),
	})
	require.NoError(t, err)

	b := h.budget(t, food.ID, "500")
	requireDec(t, "300", b.Spent)
	assert.Equal(t, 60, b.PercentUsed)

	require.NoError(t, h.svc.DeleteTransaction(ctx, owner, res.Transaction.ID))
	requireDec(t, "0", h.spent(t, b.ID))
}

func TestUpdateTransaction_PostedBeforeBudget(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	res := h.expense(t, acc.ID, &food.ID, "100")
	b := h.budget(t, food.ID, "500")

	_, err := h.svc.UpdateTransaction(ctx, owner, res.Transaction.ID, domain.TransactionPatch{Amount: ptr(dec("150"))})
	require.NoError(t, err)
	requireDec(t, "150", h.spent(t, b.ID))
}

func TestUpdateBudget_WindowChangeRecountsSpent(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "500")
	res := h.expense(t, acc.ID, &food.ID, "200")

	v, err := h.svc.UpdateBudget(ctx, owner, b.ID, domain.BudgetPatch{StartDate: ptr(day(2026, time.November, 1))})
	require.NoError(t, err)
	requireDec(t, "0", v.Spent)

	v, err = h.svc.UpdateBudget(ctx, owner, b.ID, domain.BudgetPatch{
		StartDate: ptr(day(2026, time.January, 1)),
		Period:    ptr(domain.PeriodYearly),
	})
	require.NoError(t, err)
	requireDec(t, "200", v.Spent)

	v, err = h.svc.UpdateBudget(ctx, owner, b.ID, domain.BudgetPatch{Amount: ptr(dec("800"))})
	require.NoError(t, err)
	requireDec(t, "200", v.Spent)

	require.NoError(t, h.svc.DeleteTransaction(ctx, owner, res.Transaction.ID))
	requireDec(t, "0", h.spent(t, b.ID))
}

func TestDeleteTransaction_ConcurrentDeletesReverseOnce(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	food := h.category(t, "Food", domain.TypeExpense)
	b := h.budget(t, food.ID, "500")
	res := h.expense(t, acc.ID, &food.ID, "250")
	h.expense(t, acc.ID, nil, "50")

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- h.svc.DeleteTransaction(ctx, owner, res.Transaction.ID)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var nf *domain.ErrNotFound
		assert.ErrorAs(t, err, &nf)
	}
	assert.Equal(t, 1, succeeded)
	requireDec(t, "950", h.balance(t, acc.ID))
	requireDec(t, "0", h.spent(t, b.ID))
	assert.Equal(t, 1, h.stats(t).TotalTransactions)
}

func TestDeleteTransaction_CompensatesOnBalanceFailure(t *testing.T) {
	h := newHarness(t)
	acc := h.account(t, "Wallet", domain.AccountCash, "1000")
	res := h.expense(t, acc.ID, nil, "40")

	h.store.FailNext("IncrementBalance", errors.New("connection reset"))
	err := h.svc.DeleteTransaction(ctx, owner, res.Transaction.ID)
	var ext *domain.ErrExternalService
	require.ErrorAs(t, err, &ext)

	requireDec(t, "960", h.balance(t, acc.ID))
	got, err := h.svc.GetTransaction(ctx, owner, res.Transaction.ID)
	require.NoError(t, err)
	requireDec(t, "40", got.Amount)
	assert.Equal(t, float64(1), h.metrics.CompensationCount("delete_transaction", true))
}
