package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Savings goals
// ============================================================

// Goal priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// SavingsGoal tracks progress toward a target amount. CurrentAmount is the
// authoritative running total; completion is one-way.
type SavingsGoal struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    Date            `json:"target_date"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	Priority      string          `json:"priority"`
	AccountID     *string         `json:"account_id"`
	IsCompleted   bool            `json:"is_completed"`
	CompletedAt   *time.Time      `json:"completed_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Contribute adds amount to the running total and reports whether this
// contribution completed the goal.
func (g *SavingsGoal) Contribute(amount decimal.Decimal, now time.Time) bool {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.IsCompleted || g.CurrentAmount.LessThan(g.TargetAmount) {
		return false
	}
	g.IsCompleted = true
	at := now.UTC()
	g.CompletedAt = &at
	return true
}

// Progress is the rounded completion percentage.
func (g *SavingsGoal) Progress() int {
	return RoundPercent(g.CurrentAmount, g.TargetAmount)
}

// GoalPatch lists the mutable goal fields. An empty account_id unlinks the account.
type GoalPatch struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	TargetAmount *decimal.Decimal `json:"target_amount,omitempty" validate:"omitempty,gt=0"`
	TargetDate   *Date            `json:"target_date,omitempty"`
	Icon         *string          `json:"icon,omitempty" validate:"omitempty,max=50"`
	Color        *string          `json:"color,omitempty" validate:"omitempty,max=20"`
	Priority     *string          `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AccountID    *string          `json:"account_id,omitempty"`
}

func (p *GoalPatch) Apply(g *SavingsGoal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.TargetDate != nil {
		g.TargetDate = *p.TargetDate
	}
	if p.Icon != nil {
		g.Icon = *p.Icon
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.AccountID != nil {
		g.AccountID = clearable(p.AccountID)
	}
}

func (p *GoalPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.TargetAmount != nil {
		m["target_amount"] = *p.TargetAmount
	}
	if p.TargetDate != nil {
		m["target_date"] = *p.TargetDate
	}
	if p.Icon != nil {
		m["icon"] = *p.Icon
	}
	if p.Color != nil {
		m["color"] = *p.Color
	}
	if p.Priority != nil {
		m["priority"] = *p.Priority
	}
	if p.AccountID != nil {
		m["account_id"] = clearable(p.AccountID)
	}
	return m
}

// GoalContribution is an append-only ledger row.
type GoalContribution struct {
	ID        string          `json:"id"`
	GoalID    string          `json:"goal_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

// ContributionResult is returned by POST /goals/{id}/contribute.
type ContributionResult struct {
	Goal         *SavingsGoal      `json:"goal"`
	Contribution *GoalContribution `json:"contribution"`
	Completed    bool              `json:"completed"`
	Achievements []string          `json:"newAchievements"`
}
