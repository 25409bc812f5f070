// Package domain defines the core entities of SpendWise: accounts,
// categories, transactions, budgets, goals, debts, gamification state,
// net worth snapshots and user profiles, plus the pure computations
// (balance effects, budget views, health score, trends) built on them.
// These types are independent of the store and of the HTTP layer.
package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Monetary values go over the wire as JSON numbers, like the frontend
	// and PostgREST numeric columns expect.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

// Percent returns part/whole*100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// RoundPercent is Percent rounded half away from zero to an integer.
func RoundPercent(part, whole decimal.Decimal) int {
	return int(Percent(part, whole).Round(0).IntPart())
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
