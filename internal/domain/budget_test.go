package domain_test

import (
	"testing"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

func TestNewBudgetView(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		spent     string
		threshold int
		percent   int
		remaining string
		over      bool
		near      bool
	}{
		{"half used", "100000", "50000", 80, 50, "50000", false, false},
		{"exactly at threshold", "100", "80", 80, 80, "20", false, true},
		{"just below threshold", "1000", "799", 80, 80, "201", false, false},
		{"exactly at amount", "100", "100", 80, 100, "0", false, true},
		{"over budget", "100", "130", 80, 130, "0", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.NewBudgetView(domain.Budget{Amount: dec(tt.amount), Spent: dec(tt.spent), AlertThreshold: tt.threshold})
			if v.PercentUsed != tt.percent {
				t.Errorf("percentUsed: expected %d, got %d", tt.percent, v.PercentUsed)
			}
			if !v.Remaining.Equal(dec(tt.remaining)) {
				t.Errorf("remaining: expected %s, got %s", tt.remaining, v.Remaining)
			}
			if v.IsOverBudget != tt.over {
				t.Errorf("isOverBudget: expected %v", tt.over)
			}
			if v.IsNearLimit != tt.near {
				t.Errorf("isNearLimit: expected %v", tt.near)
			}
		})
	}
}

func TestBudgetCovers(t *testing.T) {
	weekly := domain.Budget{Period: domain.PeriodWeekly, StartDate: domain.NewDate(2026, 10, 12)}
	if !weekly.Covers(domain.NewDate(2026, 10, 12)) || !weekly.Covers(domain.NewDate(2026, 10, 18)) {
		t.Error("weekly budget should cover its seven days")
	}
	if weekly.Covers(domain.NewDate(2026, 10, 19)) || weekly.Covers(domain.NewDate(2026, 10, 11)) {
		t.Error("weekly budget should not cover days outside the period")
	}

	yearly := domain.Budget{Period: domain.PeriodYearly, StartDate: domain.NewDate(2026, 1, 1)}
	if !yearly.Covers(domain.NewDate(2026, 12, 31)) || yearly.Covers(domain.NewDate(2027, 1, 1)) {
		t.Error("yearly budget boundary wrong")
	}
}

func TestBudgetAdherence(t *testing.T) {
	within := domain.Budget{Amount: dec("100"), Spent: dec("100")}
	if within.Adherence() != 100 {
		t.Errorf("expected 100, got %v", within.Adherence())
	}
	over := domain.Budget{Amount: dec("100"), Spent: dec("125")}
	if over.Adherence() != 75 {
		t.Errorf("expected 75, got %v", over.Adherence())
	}
	way := domain.Budget{Amount: dec("100"), Spent: dec("500")}
	if way.Adherence() != 0 {
		t.Errorf("expected 0, got %v", way.Adherence())
	}
}
