package supabase

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Budgets
// ============================================================

func (c *Client) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBudgets")
	defer span.End()

	return list[domain.Budget](ctx, c, from("budgets").eq("user_id", userID).order("created_at.asc"), "budget")
}

func (c *Client) ListBudgetsForCategory(ctx context.Context, userID, categoryID string) ([]domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBudgetsForCategory")
	defer span.End()

	q := from("budgets").eq("user_id", userID).eq("category_id", categoryID)
	return list[domain.Budget](ctx, c, q, "budget")
}

func (c *Client) GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBudget")
	defer span.End()

	return getOne[domain.Budget](ctx, c, from("budgets").eq("user_id", userID).eq("id", budgetID), "budget", budgetID)
}

func (c *Client) CreateBudget(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBudget")
	defer span.End()

	row := withID(map[string]any{
		"user_id":         b.UserID,
		"category_id":     b.CategoryID,
		"amount":          b.Amount,
		"period":          b.Period,
		"spent":           b.Spent,
		"start_date":      b.StartDate,
		"alert_threshold": b.AlertThreshold,
	}, b.ID)
	return insert[domain.Budget](ctx, c, "budgets", "budget", row)
}

func (c *Client) UpdateBudget(ctx context.Context, userID, budgetID string, fields map[string]any) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBudget")
	defer span.End()

	return patch[domain.Budget](ctx, c, from("budgets").eq("user_id", userID).eq("id", budgetID), "budget", budgetID, fields)
}

func (c *Client) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteBudget")
	defer span.End()

	return remove(ctx, c, from("budgets").eq("user_id", userID).eq("id", budgetID), "budget")
}

// AddBudgetSpent calls budget_add_spent(p_budget_id, p_amount).
func (c *Client) AddBudgetSpent(ctx context.Context, budgetID string, amount decimal.Decimal) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddBudgetSpent")
	defer span.End()

	return rpc(ctx, c, "budget_add_spent", map[string]any{
		"p_budget_id": budgetID,
		"p_amount":    amount,
	})
}
