package handler

import (
	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Request bodies
// ============================================================

type createAccountRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Type           string          `json:"type" validate:"required,oneof=cash bank e-wallet investment credit_card loan"`
	Icon           string          `json:"icon" validate:"max=50"`
	Color          string          `json:"color" validate:"max=20"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsAsset        *bool           `json:"is_asset"`
	Institution    *string         `json:"institution" validate:"omitempty,max=100"`
	AccountNumber  *string         `json:"account_number" validate:"omitempty,max=50"`
}

func (req *createAccountRequest) toAccount(userID string) *domain.Account {
	a := domain.NewAccount(userID, req.Name, req.Type, req.InitialBalance, req.IsAsset)
	a.Icon = req.Icon
	a.Color = req.Color
	a.Institution = req.Institution
	a.AccountNumber = req.AccountNumber
	return a
}

type adjustBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" validate:"required"`
}

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"max=20"`
	Icon  string `json:"icon" validate:"max=50"`
	Type  string `json:"type" validate:"required,oneof=income expense transfer"`
}

type createTransactionRequest struct {
	AccountID   string          `json:"account_id" validate:"required"`
	ToAccountID *string         `json:"to_account_id" validate:"omitempty,min=1"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,min=1"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Type        string          `json:"type" validate:"required,oneof=income expense transfer"`
	Description string          `json:"description" validate:"max=500"`
	Date        domain.Date     `json:"date"`
	Emotion     *string         `json:"emotion" validate:"omitempty,max=30"`
	Tags        []string        `json:"tags" validate:"max=20,dive,max=30"`
}

func (req *createTransactionRequest) toTransaction(userID string) *domain.Transaction {
	return &domain.Transaction{
		UserID:      userID,
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		Date:        req.Date,
		Emotion:     req.Emotion,
		Tags:        req.Tags,
	}
}

type createBudgetRequest struct {
	CategoryID     string          `json:"category_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"gt=0"`
	Period         string          `json:"period" validate:"omitempty,oneof=weekly monthly yearly"`
	StartDate      domain.Date     `json:"start_date"`
	AlertThreshold int             `json:"alert_threshold" validate:"omitempty,min=1,max=100"`
}

type createGoalRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	TargetAmount  decimal.Decimal `json:"target_amount" validate:"gt=0"`
	CurrentAmount decimal.Decimal `json:"current_amount" validate:"gte=0"`
	TargetDate    domain.Date     `json:"target_date"`
	Icon          string          `json:"icon" validate:"max=50"`
	Color         string          `json:"color" validate:"max=20"`
	Priority      string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	AccountID     *string         `json:"account_id" validate:"omitempty,min=1"`
}

// amountRequest is the body of goal contributions and debt payments.
type amountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Note   string          `json:"note" validate:"max=200"`
}

type createDebtRequest struct {
	PersonName      string          `json:"person_name" validate:"required,max=100"`
	PersonContact   *string         `json:"person_contact" validate:"omitempty,max=100"`
	Amount          decimal.Decimal `json:"amount" validate:"ne=0"`
	Description     string          `json:"description" validate:"max=500"`
	DueDate         domain.Date     `json:"due_date"`
	ReminderEnabled bool            `json:"reminder_enabled"`
}
