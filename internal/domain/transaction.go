package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Transactions
// ============================================================

// Transaction is one money movement. Amount is always a positive magnitude;
// the direction comes from Type.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	AccountID   string          `json:"account_id"`
	ToAccountID *string         `json:"to_account_id"`
	CategoryID  *string         `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	Emotion     *string         `json:"emotion"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
}

// HasEmotion reports whether an emotion tag is attached.
func (t *Transaction) HasEmotion() bool {
	return t.Emotion != nil && *t.Emotion != ""
}

// Validate checks the cross-field rules the request schema cannot express.
func (t *Transaction) Validate() error {
	var errs ValidationErrors
	if !t.Amount.IsPositive() {
		errs = append(errs, &ErrValidation{Field: "amount", Message: "must be greater than 0"})
	}
	switch t.Type {
	case TypeIncome, TypeExpense:
		if t.ToAccountID != nil {
			errs = append(errs, &ErrValidation{Field: "to_account_id", Message: "is only allowed for transfers"})
		}
	case TypeTransfer:
		if t.ToAccountID == nil || *t.ToAccountID == "" {
			errs = append(errs, &ErrValidation{Field: "to_account_id", Message: "is required for transfers"})
		} else if *t.ToAccountID == t.AccountID {
			errs = append(errs, &ErrValidation{Field: "to_account_id", Message: "must differ from account_id"})
		}
	default:
		errs = append(errs, &ErrValidation{Field: "type", Message: "must be one of income expense transfer"})
	}
	if t.Date.IsZero() {
		errs = append(errs, &ErrValidation{Field: "date", Message: "is required"})
	}
	return errs.ErrOrNil()
}

// Deltas maps a row id (account or budget) to the signed amount a
// transaction moves into it.
type Deltas map[string]decimal.Decimal

func (d Deltas) add(id string, v decimal.Decimal) {
	d[id] = d[id].Add(v)
}

// Sub returns d - o, dropping zero entries.
func (d Deltas) Sub(o Deltas) Deltas {
	out := Deltas{}
	for id, v := range d {
		out.add(id, v)
	}
	for id, v := range o {
		out.add(id, v.Neg())
	}
	for id, v := range out {
		if v.IsZero() {
			delete(out, id)
		}
	}
	return out
}

// Neg returns the reversal of d.
func (d Deltas) Neg() Deltas {
	out := make(Deltas, len(d))
	for id, v := range d {
		out[id] = v.Neg()
	}
	return out
}

// BalanceEffects is the balance change a transaction applies to each account it touches.
func BalanceEffects(t *Transaction) Deltas {
	d := Deltas{}
	switch t.Type {
	case TypeIncome:
		d.add(t.AccountID, t.Amount)
	case TypeExpense:
		d.add(t.AccountID, t.Amount.Neg())
	case TypeTransfer:
		d.add(t.AccountID, t.Amount.Neg())
		if t.ToAccountID != nil {
			d.add(*t.ToAccountID, t.Amount)
		}
	}
	return d
}

// BudgetEffects is the spend a categorized expense adds to each covering budget.
func BudgetEffects(t *Transaction, budgets []Budget) Deltas {
	d := Deltas{}
	if t.Type != TypeExpense || t.CategoryID == nil {
		return d
	}
	for i := range budgets {
		b := &budgets[i]
		if b.CategoryID == *t.CategoryID && b.Covers(t.Date) {
			d.add(b.ID, t.Amount)
		}
	}
	return d
}

// TransactionPatch lists the mutable transaction fields. An empty string on a
// nullable reference (to_account_id, category_id, emotion) clears it.
type TransactionPatch struct {
	AccountID   *string          `json:"account_id,omitempty"`
	ToAccountID *string          `json:"to_account_id,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Type        *string          `json:"type,omitempty" validate:"omitempty,oneof=income expense transfer"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Date        *Date            `json:"date,omitempty"`
	Emotion     *string          `json:"emotion,omitempty" validate:"omitempty,max=30"`
	Tags        *[]string        `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=30"`
}

func clearable(v *string) *string {
	if *v == "" {
		return nil
	}
	s := *v
	return &s
}

// Apply returns a copy of t with the patch applied.
func (p *TransactionPatch) Apply(t Transaction) Transaction {
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.ToAccountID != nil {
		t.ToAccountID = clearable(p.ToAccountID)
	}
	if p.CategoryID != nil {
		t.CategoryID = clearable(p.CategoryID)
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
		if t.Type != TypeTransfer && p.ToAccountID == nil {
			t.ToAccountID = nil
		}
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Emotion != nil {
		t.Emotion = clearable(p.Emotion)
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), (*p.Tags)...)
	}
	return t
}

// TransactionFields renders the mutable columns of t for a full-row update.
func TransactionFields(t *Transaction) map[string]any {
	return map[string]any{
		"account_id":    t.AccountID,
		"to_account_id": t.ToAccountID,
		"category_id":   t.CategoryID,
		"amount":        t.Amount,
		"type":          t.Type,
		"description":   t.Description,
		"date":          t.Date,
		"emotion":       t.Emotion,
		"tags":          t.Tags,
	}
}

// TransactionFilter narrows a transaction listing. Zero values mean "no filter".
type TransactionFilter struct {
	Type       string
	AccountID  string
	CategoryID string
	From       Date
	To         Date
	Limit      int
	Offset     int
}

// Match reports whether t passes the filter (pagination is not considered).
func (f *TransactionFilter) Match(t *Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.AccountID != "" && t.AccountID != f.AccountID &&
		(t.ToAccountID == nil || *t.ToAccountID != f.AccountID) {
		return false
	}
	if f.CategoryID != "" && (t.CategoryID == nil || *t.CategoryID != f.CategoryID) {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	return true
}

// TransactionSummary totals a set of transactions. Transfers only count toward Count.
type TransactionSummary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

func SummarizeTransactions(txns []Transaction) TransactionSummary {
	var s TransactionSummary
	for i := range txns {
		switch txns[i].Type {
		case TypeIncome:
			s.Income = s.Income.Add(txns[i].Amount)
		case TypeExpense:
			s.Expense = s.Expense.Add(txns[i].Amount)
		}
		s.Count++
	}
	s.Net = s.Income.Sub(s.Expense)
	return s
}

// TransactionPage is returned by GET /transactions.
type TransactionPage struct {
	Transactions []Transaction     `json:"transactions"`
	Summary      TransactionSummary `json:"summary"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
	HasMore      bool               `json:"has_more"`
}

// TransactionResult is returned by transaction create and update.
type TransactionResult struct {
	Transaction      *Transaction     `json:"transaction"`
	NewBalance       decimal.Decimal  `json:"newBalance"`
	ToAccountBalance *decimal.Decimal `json:"toAccountBalance,omitempty"`
}
