package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Net worth
// ============================================================

// NetWorthBreakdown splits assets and liabilities by source. Liability
// figures are magnitudes.
type NetWorthBreakdown struct {
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	Cash             decimal.Decimal `json:"cash"`
	Investments      decimal.Decimal `json:"investments"`
	CreditCardDebt   decimal.Decimal `json:"credit_card_debt"`
	Loans            decimal.Decimal `json:"loans"`
	Receivables      decimal.Decimal `json:"receivables"`
	Payables         decimal.Decimal `json:"payables"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	SavingsRate      int             `json:"savings_rate"`
}

// NetWorthSnapshot is one persisted breakdown per owner per month.
type NetWorthSnapshot struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id"`
	Month  Date   `json:"month"`
	NetWorthBreakdown
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ComputeNetWorth aggregates active accounts, unsettled debts and the
// month's transactions.
func ComputeNetWorth(accounts []Account, debts []Debt, monthTxns []Transaction) NetWorthBreakdown {
	var b NetWorthBreakdown
	var accAssets, accLiabilities decimal.Decimal
	for i := range accounts {
		a := &accounts[i]
		if !a.IsActive {
			continue
		}
		if a.IsAsset {
			accAssets = accAssets.Add(a.Balance)
			switch a.Type {
			case AccountCash, AccountBank, AccountEWallet:
				b.Cash = b.Cash.Add(a.Balance)
			case AccountInvestment:
				b.Investments = b.Investments.Add(a.Balance)
			}
			continue
		}
		owed := a.Balance.Abs()
		accLiabilities = accLiabilities.Add(owed)
		switch a.Type {
		case AccountCreditCard:
			b.CreditCardDebt = b.CreditCardDebt.Add(owed)
		case AccountLoan:
			b.Loans = b.Loans.Add(owed)
		}
	}
	for i := range debts {
		d := &debts[i]
		if d.IsSettled {
			continue
		}
		if d.Amount.IsPositive() {
			b.Receivables = b.Receivables.Add(d.Amount)
		} else {
			b.Payables = b.Payables.Add(d.Amount.Abs())
		}
	}
	b.TotalAssets = accAssets.Add(b.Receivables)
	b.TotalLiabilities = accLiabilities.Add(b.Payables)
	b.NetWorth = b.TotalAssets.Sub(b.TotalLiabilities)

	sum := SummarizeTransactions(monthTxns)
	b.Income = sum.Income
	b.Expense = sum.Expense
	b.SavingsRate = RoundPercent(sum.Net, sum.Income)
	return b
}

// NetWorthHistory is returned by GET /net-worth/history, oldest first.
type NetWorthHistory struct {
	Snapshots []NetWorthSnapshot `json:"snapshots"`
	Months    int                `json:"months"`
}
