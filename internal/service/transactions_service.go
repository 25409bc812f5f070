package service

import (
	"context"
	"sort"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Transactions
// ============================================================

// Transaction list paging bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListTransactions returns one page (1-based) plus the summary of that page.
func (s *FinanceService) ListTransactions(ctx context.Context, userID string, f domain.TransactionFilter, page, pageSize int) (*domain.TransactionPage, error) {
	ctx, end := s.startOp(ctx, "ListTransactions", userID)
	defer end()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	f.Offset = (page - 1) * pageSize
	f.Limit = pageSize + 1

	txns, err := s.store.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	hasMore := len(txns) > pageSize
	if hasMore {
		txns = txns[:pageSize]
	}
	return &domain.TransactionPage{
		Transactions: txns,
		Summary:      domain.SummarizeTransactions(txns),
		Page:         page,
		PageSize:     pageSize,
		HasMore:      hasMore,
	}, nil
}

func (s *FinanceService) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	ctx, end := s.startOp(ctx, "GetTransaction", userID)
	defer end()

	return s.store.GetTransaction(ctx, userID, transactionID)
}

// CreateTransaction records t and applies its balance, budget and stats
// effects. Either every effect lands or none does.
func (s *FinanceService) CreateTransaction(ctx context.Context, t *domain.Transaction) (*domain.TransactionResult, error) {
	ctx, end := s.startOp(ctx, "CreateTransaction", t.UserID)
	defer end()

	if t.Date.IsZero() {
		t.Date = s.today()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	accounts, err := s.checkTransactionRefs(ctx, t, nil)
	if err != nil {
		return nil, err
	}
	budgets, err := s.coveringBudgets(ctx, t)
	if err != nil {
		return nil, err
	}

	sg := s.newSaga("create_transaction", t.UserID)
	var created *domain.Transaction
	err = sg.step(ctx, "insert_transaction",
		func(ctx context.Context) error {
			var err error
			created, err = s.store.InsertTransaction(ctx, t)
			return err
		},
		func(ctx context.Context) error { return s.store.DeleteTransaction(ctx, t.UserID, created.ID) },
	)
	if err != nil {
		return nil, err
	}
	balances := domain.BalanceEffects(created)
	if err := sg.applyBalances(ctx, balances); err != nil {
		return nil, err
	}
	if err := sg.applyBudgets(ctx, domain.BudgetEffects(created, budgets)); err != nil {
		return nil, err
	}
	if err := sg.recordStats(ctx, created, true); err != nil {
		return nil, err
	}
	sg.commit()

	s.invalidateTrends(t.UserID)
	s.logger.Info("transaction created",
		zap.String("user_id", created.UserID),
		zap.String("transaction_id", created.ID),
		zap.String("type", created.Type),
		zap.String("amount", created.Amount.String()),
	)
	s.publish(ctx, domain.EventTransactionCreated, created.UserID, created.ID, created)
	return s.transactionResult(ctx, created, accounts, balances), nil
}

// UpdateTransaction applies patch and moves balances and budgets by the
// difference between the old and the new effects.
func (s *FinanceService) UpdateTransaction(ctx context.Context, userID, transactionID string, patch domain.TransactionPatch) (*domain.TransactionResult, error) {
	ctx, end := s.startOp(ctx, "UpdateTransaction", userID)
	defer end()

	old, err := s.store.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	next := patch.Apply(*old)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	accounts, err := s.checkTransactionRefs(ctx, &next, old)
	if err != nil {
		return nil, err
	}

	var budgets []domain.Budget
	if isBudgeted(old) || isBudgeted(&next) {
		if budgets, err = s.store.ListBudgets(ctx, userID); err != nil {
			return nil, err
		}
	}
	balanceDiff := domain.BalanceEffects(&next).Sub(domain.BalanceEffects(old))
	budgetDiff := domain.BudgetEffects(&next, budgets).Sub(domain.BudgetEffects(old, budgets))

	sg := s.newSaga("update_transaction", userID)
	var updated *domain.Transaction
	err = sg.step(ctx, "update_transaction",
		func(ctx context.Context) error {
			var err error
			updated, err = s.store.UpdateTransaction(ctx, userID, transactionID, domain.TransactionFields(&next))
			return err
		},
		func(ctx context.Context) error {
			_, err := s.store.UpdateTransaction(ctx, userID, transactionID, domain.TransactionFields(old))
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	if err := sg.applyBalances(ctx, balanceDiff); err != nil {
		return nil, err
	}
	if err := sg.applyBudgets(ctx, budgetDiff); err != nil {
		return nil, err
	}
	if old.HasEmotion() != next.HasEmotion() {
		if err := sg.recordStats(ctx, old, false); err != nil {
			return nil, err
		}
		if err := sg.recordStats(ctx, updated, true); err != nil {
			return nil, err
		}
	}
	sg.commit()

	s.invalidateTrends(userID)
	s.logger.Info("transaction updated",
		zap.String("user_id", userID),
		zap.String("transaction_id", transactionID),
		zap.Int("balance_changes", len(balanceDiff)),
		zap.Int("budget_changes", len(budgetDiff)),
	)
	s.publish(ctx, domain.EventTransactionUpdated, userID, transactionID, updated)
	return s.transactionResult(ctx, updated, accounts, domain.BalanceEffects(updated)), nil
}

// DeleteTransaction deletes the row, then reverses every effect creation
// applied. Only the caller whose delete matched the row reverses anything.
func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	ctx, end := s.startOp(ctx, "DeleteTransaction", userID)
	defer end()

	old, err := s.store.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	budgets, err := s.coveringBudgets(ctx, old)
	if err != nil {
		return err
	}

	sg := s.newSaga("delete_transaction", userID)
	if err := s.store.DeleteTransaction(ctx, userID, transactionID); err != nil {
		if isNotFound(err) {
			return err
		}
		return sg.abort(ctx, "delete_transaction", err)
	}
	sg.done("delete_transaction", func(ctx context.Context) error {
		_, err := s.store.InsertTransaction(ctx, old)
		return err
	})
	if err := sg.applyBalances(ctx, domain.BalanceEffects(old).Neg()); err != nil {
		return err
	}
	if err := sg.applyBudgets(ctx, domain.BudgetEffects(old, budgets).Neg()); err != nil {
		return err
	}
	if err := sg.recordStats(ctx, old, false); err != nil {
		return err
	}
	sg.commit()

	s.invalidateTrends(userID)
	s.logger.Info("transaction deleted",
		zap.String("user_id", userID),
		zap.String("transaction_id", transactionID),
	)
	s.publish(ctx, domain.EventTransactionDeleted, userID, transactionID, old)
	return nil
}

func isBudgeted(t *domain.Transaction) bool {
	return t.Type == domain.TypeExpense && t.CategoryID != nil
}

func (s *FinanceService) coveringBudgets(ctx context.Context, t *domain.Transaction) ([]domain.Budget, error) {
	if !isBudgeted(t) {
		return nil, nil
	}
	return s.store.ListBudgetsForCategory(ctx, t.UserID, *t.CategoryID)
}

// checkTransactionRefs verifies the owner holds every account and category t
// references. With prev set only references that changed are checked.
// It returns the accounts it read, by id.
func (s *FinanceService) checkTransactionRefs(ctx context.Context, t, prev *domain.Transaction) (map[string]*domain.Account, error) {
	accounts := map[string]*domain.Account{}
	check := func(id string) error {
		acc, err := s.store.GetAccount(ctx, t.UserID, id)
		if err != nil {
			return err
		}
		accounts[id] = acc
		return nil
	}
	if prev == nil || t.AccountID != prev.AccountID {
		if err := check(t.AccountID); err != nil {
			return nil, err
		}
	}
	if t.ToAccountID != nil && (prev == nil || !sameRef(t.ToAccountID, prev.ToAccountID)) {
		if err := check(*t.ToAccountID); err != nil {
			return nil, err
		}
	}
	if t.CategoryID != nil && (prev == nil || !sameRef(t.CategoryID, prev.CategoryID)) {
		if _, err := s.store.GetCategory(ctx, t.UserID, *t.CategoryID); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// transactionResult re-reads the touched balances. If a re-read fails after
// the sequence committed, the balance is derived from the earlier read.
func (s *FinanceService) transactionResult(ctx context.Context, t *domain.Transaction, before map[string]*domain.Account, applied domain.Deltas) *domain.TransactionResult {
	balance := func(id string) decimal.Decimal {
		acc, err := s.store.GetAccount(ctx, t.UserID, id)
		if err == nil {
			return acc.Balance
		}
		s.logger.Warn("balance re-read failed",
			zap.String("user_id", t.UserID),
			zap.String("account_id", id),
			zap.Error(err),
		)
		if prev, ok := before[id]; ok {
			return prev.Balance.Add(applied[id])
		}
		return decimal.Zero
	}
	res := &domain.TransactionResult{Transaction: t, NewBalance: balance(t.AccountID)}
	if t.ToAccountID != nil {
		to := balance(*t.ToAccountID)
		res.ToAccountBalance = &to
	}
	return res
}

// applyBalances moves each account balance through increment_balance.
func (sg *saga) applyBalances(ctx context.Context, d domain.Deltas) error {
	store := sg.svc.store
	for _, id := range sortedIDs(d) {
		id, v := id, d[id]
		err := sg.step(ctx, "increment_balance",
			func(ctx context.Context) error { return store.IncrementBalance(ctx, id, v) },
			func(ctx context.Context) error { return store.IncrementBalance(ctx, id, v.Neg()) },
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// applyBudgets moves each budget's spent through budget_add_spent.
func (sg *saga) applyBudgets(ctx context.Context, d domain.Deltas) error {
	store := sg.svc.store
	for _, id := range sortedIDs(d) {
		id, v := id, d[id]
		err := sg.step(ctx, "budget_add_spent",
			func(ctx context.Context) error { return store.AddBudgetSpent(ctx, id, v) },
			func(ctx context.Context) error { return store.AddBudgetSpent(ctx, id, v.Neg()) },
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// recordStats applies (record=true) or reverts one transaction's stats.
func (sg *saga) recordStats(ctx context.Context, t *domain.Transaction, record bool) error {
	store := sg.svc.store
	update := func(ctx context.Context) error {
		return store.UpdateUserStats(ctx, t.UserID, t.Amount, t.HasEmotion())
	}
	revert := func(ctx context.Context) error {
		return store.RevertUserStats(ctx, t.UserID, t.Amount, t.HasEmotion())
	}
	if record {
		return sg.step(ctx, "update_user_stats", update, revert)
	}
	return sg.step(ctx, "revert_user_stats", revert, update)
}

func sortedIDs(d domain.Deltas) []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
