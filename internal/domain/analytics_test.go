package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

func TestGradeBoundaries(t *testing.T) {
	cases := map[int]string{
		100: "A+", 90: "A+", 89: "A", 80: "A", 79: "B", 70: "B",
		69: "C", 60: "C", 59: "D", 50: "D", 49: "F", 0: "F",
	}
	for score, want := range cases {
		if got := domain.Grade(score); got != want {
			t.Errorf("score %d: expected %s, got %s", score, want, got)
		}
	}
}

func TestComputeHealthScore(t *testing.T) {
	accounts := []domain.Account{
		{Type: domain.AccountBank, Balance: dec("800"), IsAsset: true, IsActive: true},
		{Type: domain.AccountInvestment, Balance: dec("200"), IsAsset: true, IsActive: true},
		{Type: domain.AccountCreditCard, Balance: dec("-250"), IsActive: true},
	}
	txns := []domain.Transaction{
		{Type: domain.TypeIncome, Amount: dec("1000")},
		{Type: domain.TypeExpense, Amount: dec("900")},
	}
	budgets := []domain.Budget{
		{Amount: dec("100"), Spent: dec("50")},
		{Amount: dec("100"), Spent: dec("150")},
	}

	hs := domain.ComputeHealthScore(accounts, txns, budgets)

	// savings 10% -> 50, debt 25% -> 75, budget (100+50)/2 -> 75, two asset types -> 50
	want := domain.HealthBreakdown{Savings: 50, Debt: 75, Budget: 75, Diversification: 50}
	if hs.Breakdown != want {
		t.Errorf("expected breakdown %+v, got %+v", want, hs.Breakdown)
	}
	// 50*.3 + 75*.25 + 75*.25 + 50*.2 = 62.5 -> 63
	if hs.Score != 63 || hs.Grade != "C" {
		t.Errorf("expected 63/C, got %d/%s", hs.Score, hs.Grade)
	}
	if len(hs.Tips) == 0 {
		t.Error("expected tips")
	}
}

func TestComputeHealthScore_Empty(t *testing.T) {
	hs := domain.ComputeHealthScore(nil, nil, nil)
	// savings 0, debt 100, budget 50, diversification 50 -> 47.5
	if hs.Score != 48 {
		t.Errorf("expected 48, got %d", hs.Score)
	}
}

func TestComputeSpendingPatterns(t *testing.T) {
	month := domain.NewDate(2026, 10, 1)
	cats := []domain.Category{{ID: "food", Name: "Food", Color: "#f00", Icon: "utensils"}}
	happy := "happy"
	txns := []domain.Transaction{
		{Type: domain.TypeExpense, Amount: dec("30"), CategoryID: strp("food"), Date: domain.NewDate(2026, 10, 4), Emotion: &happy}, // Sunday
		{Type: domain.TypeExpense, Amount: dec("10"), CategoryID: strp("food"), Date: domain.NewDate(2026, 10, 5), Emotion: &happy}, // Monday
		{Type: domain.TypeExpense, Amount: dec("60"), Date: domain.NewDate(2026, 10, 4)},
		{Type: domain.TypeIncome, Amount: dec("999"), Date: domain.NewDate(2026, 10, 4)},
		{Type: domain.TypeExpense, Amount: dec("1000"), Date: domain.NewDate(2026, 9, 30)},
	}

	p := domain.ComputeSpendingPatterns(month, txns, cats)

	if !p.TotalSpending.Equal(dec("100")) {
		t.Fatalf("expected total 100, got %s", p.TotalSpending)
	}
	if p.TopSpendingDay != "Sunday" || !p.ByDayOfWeek[0].Equal(dec("90")) {
		t.Errorf("expected Sunday with 90, got %s / %s", p.TopSpendingDay, p.ByDayOfWeek[0])
	}
	if len(p.ByCategory) != 2 || p.ByCategory[0].Name != domain.UncategorizedName || p.ByCategory[0].Percent != 60 {
		t.Errorf("unexpected categories %+v", p.ByCategory)
	}
	if len(p.ByEmotion) != 1 || p.ByEmotion[0].Count != 2 || !p.ByEmotion[0].Average.Equal(dec("20")) {
		t.Errorf("unexpected emotions %+v", p.ByEmotion)
	}
}

func TestComputeTrends(t *testing.T) {
	months := domain.TrailingMonths(domain.NewDate(2026, 2, 14), 3)
	if months[0].Month() != "2025-12" || months[2].Month() != "2026-02" {
		t.Fatalf("unexpected months %v", months)
	}
	txns := []domain.Transaction{
		{Type: domain.TypeIncome, Amount: dec("1000"), Date: domain.NewDate(2026, 1, 10)},
		{Type: domain.TypeExpense, Amount: dec("250"), Date: domain.NewDate(2026, 1, 11)},
		{Type: domain.TypeExpense, Amount: dec("300"), Date: domain.NewDate(2026, 2, 1)},
		{Type: domain.TypeIncome, Amount: dec("5000"), Date: domain.NewDate(2025, 6, 1)},
	}

	tr := domain.ComputeTrends(months, txns)

	jan := tr.Months[1]
	if !jan.Savings.Equal(dec("750")) || jan.SavingsRate != 75 {
		t.Errorf("unexpected january %+v", jan)
	}
	if tr.Months[2].SavingsRate != 0 {
		t.Error("savings rate must be 0 without income")
	}
	if !tr.Averages.Expense.Equal(dec("183.33")) {
		t.Errorf("expected average expense 183.33, got %s", tr.Averages.Expense)
	}
}

func TestClampTrendMonths(t *testing.T) {
	if domain.ClampTrendMonths(0) != 6 || domain.ClampTrendMonths(100) != 24 || domain.ClampTrendMonths(3) != 3 {
		t.Error("unexpected clamp")
	}
}

func TestComputeNetWorth(t *testing.T) {
	accounts := []domain.Account{
		{Type: domain.AccountCash, Balance: dec("100"), IsAsset: true, IsActive: true},
		{Type: domain.AccountInvestment, Balance: dec("400"), IsAsset: true, IsActive: true},
		{Type: domain.AccountCreditCard, Balance: dec("-50"), IsActive: true},
		{Type: domain.AccountLoan, Balance: dec("-200"), IsActive: true},
		{Type: domain.AccountBank, Balance: dec("9999"), IsAsset: true, IsActive: false},
	}
	debts := []domain.Debt{
		{Amount: dec("70")},
		{Amount: dec("-30")},
		{Amount: dec("-999"), IsSettled: true},
	}
	txns := []domain.Transaction{
		{Type: domain.TypeIncome, Amount: dec("200")},
		{Type: domain.TypeExpense, Amount: dec("150")},
	}

	b := domain.ComputeNetWorth(accounts, debts, txns)

	if !b.TotalAssets.Equal(dec("570")) || !b.TotalLiabilities.Equal(dec("280")) || !b.NetWorth.Equal(dec("290")) {
		t.Errorf("unexpected totals %+v", b)
	}
	if !b.Cash.Equal(dec("100")) || !b.Investments.Equal(dec("400")) || !b.CreditCardDebt.Equal(dec("50")) || !b.Loans.Equal(dec("200")) {
		t.Errorf("unexpected buckets %+v", b)
	}
	if b.SavingsRate != 25 {
		t.Errorf("expected savings rate 25, got %d", b.SavingsRate)
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		D domain.Date `json:"d"`
		E domain.Date `json:"e"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2026-10-14","e":null}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.D.String() != "2026-10-14" || !v.E.IsZero() {
		t.Errorf("unexpected dates %v %v", v.D, v.E)
	}
	out, _ := json.Marshal(v)
	if string(out) != `{"d":"2026-10-14","e":null}` {
		t.Errorf("unexpected json %s", out)
	}
}
