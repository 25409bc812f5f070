package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Budgets
// ============================================================

// Budget periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// DefaultAlertThreshold is the near-limit percentage used when none is given.
const DefaultAlertThreshold = 80

// Budget caps spending for one category over a period starting at StartDate.
// Spent is accumulated by transaction side effects, not derived live.
type Budget struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	CategoryID     string          `json:"category_id"`
	Amount         decimal.Decimal `json:"amount"`
	Period         string          `json:"period"`
	Spent          decimal.Decimal `json:"spent"`
	StartDate      Date            `json:"start_date"`
	AlertThreshold int             `json:"alert_threshold"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PeriodEnd is the first day after the budget period.
func (b *Budget) PeriodEnd() Date {
	switch b.Period {
	case PeriodWeekly:
		return b.StartDate.AddDays(7)
	case PeriodYearly:
		return b.StartDate.AddMonths(12)
	default:
		return b.StartDate.AddMonths(1)
	}
}

// Covers reports whether d falls in [StartDate, PeriodEnd).
func (b *Budget) Covers(d Date) bool {
	return !d.Before(b.StartDate) && d.Before(b.PeriodEnd())
}

// Adherence is 100 while within budget, dropping by the overspend percentage after.
func (b *Budget) Adherence() float64 {
	if b.Spent.LessThanOrEqual(b.Amount) {
		return 100
	}
	if b.Amount.IsZero() {
		return 0
	}
	over, _ := Percent(b.Spent.Sub(b.Amount), b.Amount).Float64()
	return clampScore(100 - over)
}

// BudgetPatch lists the mutable budget fields.
type BudgetPatch struct {
	Amount         *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Period         *string          `json:"period,omitempty" validate:"omitempty,oneof=weekly monthly yearly"`
	StartDate      *Date            `json:"start_date,omitempty"`
	AlertThreshold *int             `json:"alert_threshold,omitempty" validate:"omitempty,min=1,max=100"`
}

func (p *BudgetPatch) Apply(b *Budget) {
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.AlertThreshold != nil {
		b.AlertThreshold = *p.AlertThreshold
	}
}

func (p *BudgetPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Amount != nil {
		m["amount"] = *p.Amount
	}
	if p.Period != nil {
		m["period"] = *p.Period
	}
	if p.StartDate != nil {
		m["start_date"] = *p.StartDate
	}
	if p.AlertThreshold != nil {
		m["alert_threshold"] = *p.AlertThreshold
	}
	return m
}

// BudgetView is a budget with its read-time derived fields.
type BudgetView struct {
	Budget
	Category     *Category       `json:"category,omitempty"`
	PercentUsed  int             `json:"percentUsed"`
	Remaining    decimal.Decimal `json:"remaining"`
	IsOverBudget bool            `json:"isOverBudget"`
	IsNearLimit  bool            `json:"isNearLimit"`
}

// NewBudgetView derives the usage fields. The near-limit test uses the unrounded percentage.
func NewBudgetView(b Budget) BudgetView {
	pct := Percent(b.Spent, b.Amount)
	remaining := b.Amount.Sub(b.Spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return BudgetView{
		Budget:       b,
		PercentUsed:  int(pct.Round(0).IntPart()),
		Remaining:    remaining,
		IsOverBudget: b.Spent.GreaterThan(b.Amount),
		IsNearLimit:  pct.GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertThreshold))),
	}
}

// BudgetSummary totals a set of budgets.
type BudgetSummary struct {
	TotalBudget     decimal.Decimal `json:"totalBudget"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	OverBudgetCount int             `json:"overBudgetCount"`
}

func SummarizeBudgets(views []BudgetView) BudgetSummary {
	var s BudgetSummary
	for i := range views {
		s.TotalBudget = s.TotalBudget.Add(views[i].Amount)
		s.TotalSpent = s.TotalSpent.Add(views[i].Spent)
		if views[i].IsOverBudget {
			s.OverBudgetCount++
		}
	}
	return s
}

// BudgetsResponse is returned by GET /budgets.
type BudgetsResponse struct {
	Budgets []BudgetView  `json:"budgets"`
	Summary BudgetSummary `json:"summary"`
}
