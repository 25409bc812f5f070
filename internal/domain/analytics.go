package domain

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Monthly summary
// ============================================================

// MonthlySummary totals one calendar month.
type MonthlySummary struct {
	Month            string          `json:"month"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Net              decimal.Decimal `json:"net"`
	SavingsRate      int             `json:"savingsRate"`
	TransactionCount int             `json:"transactionCount"`
}

// SummarizeMonth totals the transactions of month that fall inside it.
func SummarizeMonth(month Date, txns []Transaction) MonthlySummary {
	in := filterMonth(month, txns)
	s := SummarizeTransactions(in)
	return MonthlySummary{
		Month:            month.Month(),
		Income:           s.Income,
		Expense:          s.Expense,
		Net:              s.Net,
		SavingsRate:      RoundPercent(s.Net, s.Income),
		TransactionCount: s.Count,
	}
}

func filterMonth(month Date, txns []Transaction) []Transaction {
	start := month.FirstOfMonth()
	end := start.AddMonths(1)
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.Date.Before(start) && t.Date.Before(end) {
			out = append(out, t)
		}
	}
	return out
}

// ============================================================
// Financial health score
// ============================================================

// Health score weights, in percent.
const (
	savingsWeight         = 30
	debtWeight            = 25
	budgetWeight          = 25
	diversificationWeight = 20
)

// HealthWindowMonths is how many trailing months feed the savings rate.
const HealthWindowMonths = 3

// diversifiedTypes are the asset account types counted toward diversification.
var diversifiedTypes = []string{AccountCash, AccountBank, AccountEWallet, AccountInvestment}

// HealthBreakdown holds the sub-scores, each in [0, 100].
type HealthBreakdown struct {
	Savings         int `json:"savingsScore"`
	Debt            int `json:"debtScore"`
	Budget          int `json:"budgetScore"`
	Diversification int `json:"diversificationScore"`
}

// HealthScore is returned by GET /analytics/health-score.
type HealthScore struct {
	Score            int             `json:"score"`
	Grade            string          `json:"grade"`
	Breakdown        HealthBreakdown `json:"breakdown"`
	SavingsRate      float64         `json:"savingsRate"`
	DebtToAssetRatio float64         `json:"debtToAssetRatio"`
	Tips             []string        `json:"tips"`
}

// Grade maps a score to its letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// ComputeHealthScore scores active accounts, the trailing window of
// transactions and all budgets.
func ComputeHealthScore(accounts []Account, txns []Transaction, budgets []Budget) HealthScore {
	sum := SummarizeTransactions(txns)
	savingsRate, _ := Percent(sum.Net, sum.Income).Float64()
	savings := clampScore(savingsRate * 5)

	acc := SummarizeAccounts(accounts)
	var ratio float64
	switch {
	case acc.TotalAssets.IsPositive():
		ratio, _ = Percent(acc.TotalLiabilities, acc.TotalAssets).Float64()
	case acc.TotalLiabilities.IsPositive():
		ratio = 100
	}
	debt := clampScore(100 - ratio)

	budget := 50.0
	if len(budgets) > 0 {
		var total float64
		for i := range budgets {
			total += budgets[i].Adherence()
		}
		budget = total / float64(len(budgets))
	}

	diversification := diversificationScore(accounts)

	weighted := savings*savingsWeight + debt*debtWeight + budget*budgetWeight + diversification*diversificationWeight
	score := int(math.Round(weighted / 100))
	return HealthScore{
		Score: score,
		Grade: Grade(score),
		Breakdown: HealthBreakdown{
			Savings:         int(math.Round(savings)),
			Debt:            int(math.Round(debt)),
			Budget:          int(math.Round(budget)),
			Diversification: int(math.Round(diversification)),
		},
		SavingsRate:      math.Round(savingsRate*100) / 100,
		DebtToAssetRatio: math.Round(ratio*100) / 100,
		Tips:             healthTips(savings, debt, budget),
	}
}

// diversificationScore awards 25 per distinct asset type holding a positive
// balance. Owners without accounts get the neutral 50.
func diversificationScore(accounts []Account) float64 {
	held := map[string]bool{}
	active := 0
	for i := range accounts {
		a := &accounts[i]
		if !a.IsActive {
			continue
		}
		active++
		if a.IsAsset && a.Balance.IsPositive() {
			held[a.Type] = true
		}
	}
	if active == 0 {
		return 50
	}
	n := 0
	for _, t := range diversifiedTypes {
		if held[t] {
			n++
		}
	}
	return clampScore(float64(n) * 25)
}

func healthTips(savings, debt, budget float64) []string {
	var tips []string
	if savings < 50 {
		tips = append(tips, "Try to save at least 10% of your income each month.")
	}
	if debt < 50 {
		tips = append(tips, "Your liabilities are high relative to your assets. Prioritize paying down debt.")
	}
	if budget < 70 {
		tips = append(tips, "Some budgets are over their limit. Review your spending in those categories.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Great job! Keep up your healthy financial habits.")
	}
	return tips
}

// ============================================================
// Spending patterns
// ============================================================

// UncategorizedName labels expenses without a category.
const UncategorizedName = "Uncategorized"

// CategorySpending is one category's share of a month's expenses.
type CategorySpending struct {
	CategoryID *string         `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Icon       string          `json:"icon"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percent    int             `json:"percent"`
}

// EmotionSpending aggregates expenses tagged with one emotion.
type EmotionSpending struct {
	Emotion string          `json:"emotion"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

// SpendingPatterns is returned by GET /analytics/spending-patterns.
type SpendingPatterns struct {
	Month          string             `json:"month"`
	TotalSpending  decimal.Decimal    `json:"totalSpending"`
	ByCategory     []CategorySpending `json:"byCategory"`
	ByDayOfWeek    []decimal.Decimal  `json:"byDayOfWeek"`
	TopSpendingDay string             `json:"topSpendingDay"`
	ByEmotion      []EmotionSpending  `json:"byEmotion"`
}

// ComputeSpendingPatterns groups the month's expenses by category, weekday and emotion.
// ByDayOfWeek is indexed from Sunday.
func ComputeSpendingPatterns(month Date, txns []Transaction, categories []Category) SpendingPatterns {
	byID := make(map[string]*Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	p := SpendingPatterns{
		Month:       month.Month(),
		ByDayOfWeek: make([]decimal.Decimal, 7),
		ByCategory:  []CategorySpending{},
		ByEmotion:   []EmotionSpending{},
	}
	catIdx := map[string]int{}
	emoIdx := map[string]int{}

	for _, t := range filterMonth(month, txns) {
		if t.Type != TypeExpense {
			continue
		}
		p.TotalSpending = p.TotalSpending.Add(t.Amount)
		wd := t.Date.Weekday()
		p.ByDayOfWeek[wd] = p.ByDayOfWeek[wd].Add(t.Amount)

		key := ""
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		i, ok := catIdx[key]
		if !ok {
			cs := CategorySpending{Name: UncategorizedName, Color: "#94a3b8", Icon: "circle"}
			if c, found := byID[key]; found {
				id := c.ID
				cs = CategorySpending{CategoryID: &id, Name: c.Name, Color: c.Color, Icon: c.Icon}
			}
			p.ByCategory = append(p.ByCategory, cs)
			i = len(p.ByCategory) - 1
			catIdx[key] = i
		}
		p.ByCategory[i].Total = p.ByCategory[i].Total.Add(t.Amount)
		p.ByCategory[i].Count++

		if t.HasEmotion() {
			j, ok := emoIdx[*t.Emotion]
			if !ok {
				p.ByEmotion = append(p.ByEmotion, EmotionSpending{Emotion: *t.Emotion})
				j = len(p.ByEmotion) - 1
				emoIdx[*t.Emotion] = j
			}
			p.ByEmotion[j].Total = p.ByEmotion[j].Total.Add(t.Amount)
			p.ByEmotion[j].Count++
		}
	}

	for i := range p.ByCategory {
		p.ByCategory[i].Percent = RoundPercent(p.ByCategory[i].Total, p.TotalSpending)
	}
	sort.SliceStable(p.ByCategory, func(a, b int) bool {
		return p.ByCategory[a].Total.GreaterThan(p.ByCategory[b].Total)
	})
	for i := range p.ByEmotion {
		e := &p.ByEmotion[i]
		e.Average = e.Total.Div(decimal.NewFromInt(int64(e.Count))).Round(2)
	}

	top := 0
	for d := 1; d < 7; d++ {
		if p.ByDayOfWeek[d].GreaterThan(p.ByDayOfWeek[top]) {
			top = d
		}
	}
	if p.TotalSpending.IsPositive() {
		p.TopSpendingDay = time.Weekday(top).String()
	}
	return p
}

// ============================================================
// Trends
// ============================================================

// Trend window bounds.
const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24
)

// MonthTrend is one month of a trend series.
type MonthTrend struct {
	Month       string          `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate int             `json:"savingsRate"`
}

// TrendAverages averages a trend series.
type TrendAverages struct {
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate int             `json:"savingsRate"`
}

// Trends is returned by GET /analytics/trends.
type Trends struct {
	Months   []MonthTrend  `json:"months"`
	Averages TrendAverages `json:"averages"`
}

// ClampTrendMonths applies the default and bounds to a requested month count.
func ClampTrendMonths(n int) int {
	if n <= 0 {
		return DefaultTrendMonths
	}
	if n > MaxTrendMonths {
		return MaxTrendMonths
	}
	return n
}

// TrailingMonths returns the first day of the n months ending with today's month, oldest first.
func TrailingMonths(today Date, n int) []Date {
	first := today.FirstOfMonth()
	out := make([]Date, n)
	for i := 0; i < n; i++ {
		out[i] = first.AddMonths(i - n + 1)
	}
	return out
}

// ComputeTrends sums income and expense per month.
func ComputeTrends(months []Date, txns []Transaction) Trends {
	tr := Trends{Months: make([]MonthTrend, 0, len(months))}
	idx := make(map[string]int, len(months))
	for i, m := range months {
		tr.Months = append(tr.Months, MonthTrend{Month: m.Month()})
		idx[m.Month()] = i
	}
	for _, t := range txns {
		i, ok := idx[t.Date.Month()]
		if !ok {
			continue
		}
		switch t.Type {
		case TypeIncome:
			tr.Months[i].Income = tr.Months[i].Income.Add(t.Amount)
		case TypeExpense:
			tr.Months[i].Expense = tr.Months[i].Expense.Add(t.Amount)
		}
	}

	if len(tr.Months) == 0 {
		return tr
	}
	var rateSum int
	for i := range tr.Months {
		m := &tr.Months[i]
		m.Savings = m.Income.Sub(m.Expense)
		m.SavingsRate = RoundPercent(m.Savings, m.Income)
		tr.Averages.Income = tr.Averages.Income.Add(m.Income)
		tr.Averages.Expense = tr.Averages.Expense.Add(m.Expense)
		tr.Averages.Savings = tr.Averages.Savings.Add(m.Savings)
		rateSum += m.SavingsRate
	}
	n := decimal.NewFromInt(int64(len(tr.Months)))
	tr.Averages.Income = tr.Averages.Income.Div(n).Round(2)
	tr.Averages.Expense = tr.Averages.Expense.Div(n).Round(2)
	tr.Averages.Savings = tr.Averages.Savings.Div(n).Round(2)
	tr.Averages.SavingsRate = int(math.Round(float64(rateSum) / float64(len(tr.Months))))
	return tr
}
