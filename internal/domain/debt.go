package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Debts
// ============================================================

// Debt is money owed between the user and a counterparty. A positive Amount
// is owed to the user, a negative one is owed by the user. The sign is fixed
// at creation and only the magnitude shrinks through payments.
type Debt struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	PersonName      string          `json:"person_name"`
	PersonContact   *string         `json:"person_contact"`
	Amount          decimal.Decimal `json:"amount"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	Description     string          `json:"description"`
	DueDate         Date            `json:"due_date"`
	IsSettled       bool            `json:"is_settled"`
	SettledAt       *time.Time      `json:"settled_at"`
	ReminderEnabled bool            `json:"reminder_enabled"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Outstanding is the remaining magnitude.
func (d *Debt) Outstanding() decimal.Decimal {
	return d.Amount.Abs()
}

// ApplyPayment shrinks the outstanding magnitude by payment, clamping at
// zero and keeping the original sign. The debt settles exactly at zero.
func (d *Debt) ApplyPayment(payment decimal.Decimal, now time.Time) {
	remaining := d.Amount.Abs().Sub(payment)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if d.Amount.IsNegative() {
		remaining = remaining.Neg()
	}
	d.Amount = remaining
	if remaining.IsZero() {
		d.IsSettled = true
		at := now.UTC()
		d.SettledAt = &at
	}
}

// DebtPatch lists the mutable debt fields. Amount moves only through payments.
type DebtPatch struct {
	PersonName      *string `json:"person_name,omitempty" validate:"omitempty,min=1,max=100"`
	PersonContact   *string `json:"person_contact,omitempty" validate:"omitempty,max=100"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	DueDate         *Date   `json:"due_date,omitempty"`
	ReminderEnabled *bool   `json:"reminder_enabled,omitempty"`
}

func (p *DebtPatch) Apply(d *Debt) {
	if p.PersonName != nil {
		d.PersonName = *p.PersonName
	}
	if p.PersonContact != nil {
		d.PersonContact = clearable(p.PersonContact)
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.DueDate != nil {
		d.DueDate = *p.DueDate
	}
	if p.ReminderEnabled != nil {
		d.ReminderEnabled = *p.ReminderEnabled
	}
}

func (p *DebtPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.PersonName != nil {
		m["person_name"] = *p.PersonName
	}
	if p.PersonContact != nil {
		m["person_contact"] = clearable(p.PersonContact)
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.DueDate != nil {
		m["due_date"] = *p.DueDate
	}
	if p.ReminderEnabled != nil {
		m["reminder_enabled"] = *p.ReminderEnabled
	}
	return m
}

// DebtPayment is an append-only ledger row.
type DebtPayment struct {
	ID        string          `json:"id"`
	DebtID    string          `json:"debt_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

// DebtSummary totals unsettled debts by direction.
type DebtSummary struct {
	TotalOwedToMe decimal.Decimal `json:"totalOwedToMe"`
	TotalIOwe     decimal.Decimal `json:"totalIOwe"`
	ActiveCount   int             `json:"activeCount"`
}

func SummarizeDebts(debts []Debt) DebtSummary {
	var s DebtSummary
	for i := range debts {
		d := &debts[i]
		if d.IsSettled {
			continue
		}
		s.ActiveCount++
		if d.Amount.IsPositive() {
			s.TotalOwedToMe = s.TotalOwedToMe.Add(d.Amount)
		} else {
			s.TotalIOwe = s.TotalIOwe.Add(d.Amount.Abs())
		}
	}
	return s
}

// DebtsResponse is returned by GET /debts.
type DebtsResponse struct {
	Debts   []Debt      `json:"debts"`
	Summary DebtSummary `json:"summary"`
}

// PaymentResult is returned by POST /debts/{id}/pay.
type PaymentResult struct {
	Debt         *Debt        `json:"debt"`
	Payment      *DebtPayment `json:"payment"`
	Settled      bool         `json:"settled"`
	Achievements []string     `json:"newAchievements"`
}
