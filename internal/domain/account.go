package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Accounts
// ============================================================

// Account types.
const (
	AccountCash       = "cash"
	AccountBank       = "bank"
	AccountEWallet    = "e-wallet"
	AccountInvestment = "investment"
	AccountCreditCard = "credit_card"
	AccountLoan       = "loan"
)

// IsLiabilityType reports whether accounts of this type are liabilities by default.
func IsLiabilityType(accountType string) bool {
	return accountType == AccountCreditCard || accountType == AccountLoan
}

// Account is a user-owned money container. Liability balances are stored negative.
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsAsset        bool            `json:"is_asset"`
	IsActive       bool            `json:"is_active"`
	Institution    *string         `json:"institution,omitempty"`
	AccountNumber  *string         `json:"account_number,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewAccount normalizes a user-submitted account: liabilities get a
// non-positive opening balance and the balance starts at the opening balance.
func NewAccount(userID, name, accountType string, initial decimal.Decimal, isAsset *bool) *Account {
	asset := !IsLiabilityType(accountType)
	if isAsset != nil {
		asset = *isAsset
	}
	if !asset && initial.IsPositive() {
		initial = initial.Neg()
	}
	return &Account{
		UserID:         userID,
		Name:           name,
		Type:           accountType,
		Balance:        initial,
		InitialBalance: initial,
		IsAsset:        asset,
		IsActive:       true,
	}
}

// AccountPatch lists the mutable account fields. Nil means "leave unchanged".
// Balance is not patchable; it moves only through transactions or adjustment.
type AccountPatch struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Type          *string `json:"type,omitempty" validate:"omitempty,oneof=cash bank e-wallet investment credit_card loan"`
	Icon          *string `json:"icon,omitempty" validate:"omitempty,max=50"`
	Color         *string `json:"color,omitempty" validate:"omitempty,max=20"`
	Institution   *string `json:"institution,omitempty" validate:"omitempty,max=100"`
	AccountNumber *string `json:"account_number,omitempty" validate:"omitempty,max=50"`
	IsAsset       *bool   `json:"is_asset,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p *AccountPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Icon == nil && p.Color == nil &&
		p.Institution == nil && p.AccountNumber == nil && p.IsAsset == nil
}

// Apply writes the patch onto a.
func (p *AccountPatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Icon != nil {
		a.Icon = *p.Icon
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	if p.Institution != nil {
		a.Institution = p.Institution
	}
	if p.AccountNumber != nil {
		a.AccountNumber = p.AccountNumber
	}
	if p.IsAsset != nil {
		a.IsAsset = *p.IsAsset
	}
}

// Fields returns the patch as a column map for the store.
func (p *AccountPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Type != nil {
		m["type"] = *p.Type
	}
	if p.Icon != nil {
		m["icon"] = *p.Icon
	}
	if p.Color != nil {
		m["color"] = *p.Color
	}
	if p.Institution != nil {
		m["institution"] = *p.Institution
	}
	if p.AccountNumber != nil {
		m["account_number"] = *p.AccountNumber
	}
	if p.IsAsset != nil {
		m["is_asset"] = *p.IsAsset
	}
	return m
}

// AccountSummary totals a set of accounts.
type AccountSummary struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	Count            int             `json:"count"`
}

// SummarizeAccounts sums active accounts by asset flag. Liabilities are reported as a magnitude.
func SummarizeAccounts(accounts []Account) AccountSummary {
	var s AccountSummary
	for _, a := range accounts {
		if !a.IsActive {
			continue
		}
		s.Count++
		if a.IsAsset {
			s.TotalAssets = s.TotalAssets.Add(a.Balance)
		} else {
			s.TotalLiabilities = s.TotalLiabilities.Add(a.Balance.Abs())
		}
	}
	s.NetWorth = s.TotalAssets.Sub(s.TotalLiabilities)
	return s
}

// AccountsResponse is returned by GET /accounts.
type AccountsResponse struct {
	Accounts []Account     `json:"accounts"`
	Summary  AccountSummary `json:"summary"`
}
