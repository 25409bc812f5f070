package supabase

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Accounts: CRUD via PostgREST
// ============================================================

func (c *Client) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAccounts")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	q := from("accounts").eq("user_id", userID).order("created_at.asc")
	if !includeInactive {
		q.eq("is_active", "true")
	}
	return list[domain.Account](ctx, c, q, "account")
}

func (c *Client) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAccount")
	defer span.End()

	q := from("accounts").eq("user_id", userID).eq("id", accountID).eq("is_active", "true")
	return getOne[domain.Account](ctx, c, q, "account", accountID)
}

func (c *Client) CreateAccount(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAccount")
	defer span.End()

	row := withID(map[string]any{
		"user_id":         a.UserID,
		"name":            a.Name,
		"type":            a.Type,
		"icon":            a.Icon,
		"color":           a.Color,
		"balance":         a.Balance,
		"initial_balance": a.InitialBalance,
		"is_asset":        a.IsAsset,
		"is_active":       true,
		"institution":     a.Institution,
		"account_number":  a.AccountNumber,
	}, a.ID)
	return insert[domain.Account](ctx, c, "accounts", "account", row)
}

func (c *Client) UpdateAccount(ctx context.Context, userID, accountID string, fields map[string]any) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateAccount")
	defer span.End()

	q := from("accounts").eq("user_id", userID).eq("id", accountID).eq("is_active", "true")
	return patch[domain.Account](ctx, c, q, "account", accountID, fields)
}

// DeactivateAccount soft-deletes the account.
func (c *Client) DeactivateAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeactivateAccount")
	defer span.End()

	q := from("accounts").eq("user_id", userID).eq("id", accountID).eq("is_active", "true")
	_, err := patch[domain.Account](ctx, c, q, "account", accountID, map[string]any{"is_active": false})
	return err
}

// IncrementBalance calls increment_balance(p_account_id, p_amount).
func (c *Client) IncrementBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	ctx, span := tracer.Start(ctx, "Supabase.IncrementBalance")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", accountID), attribute.String("delta", delta.String()))

	return rpc(ctx, c, "increment_balance", map[string]any{
		"p_account_id": accountID,
		"p_amount":     delta,
	})
}
