package supabase

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Savings goals + contribution ledger
// ============================================================

func (c *Client) ListGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListGoals")
	defer span.End()

	return list[domain.SavingsGoal](ctx, c, from("savings_goals").eq("user_id", userID).order("created_at.asc"), "goal")
}

func (c *Client) GetGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetGoal")
	defer span.End()

	return getOne[domain.SavingsGoal](ctx, c, from("savings_goals").eq("user_id", userID).eq("id", goalID), "goal", goalID)
}

func (c *Client) CreateGoal(ctx context.Context, g *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateGoal")
	defer span.End()

	row := withID(map[string]any{
		"user_id":        g.UserID,
		"name":           g.Name,
		"target_amount":  g.TargetAmount,
		"current_amount": g.CurrentAmount,
		"target_date":    g.TargetDate,
		"icon":           g.Icon,
		"color":          g.Color,
		"priority":       g.Priority,
		"account_id":     g.AccountID,
		"is_completed":   g.IsCompleted,
		"completed_at":   g.CompletedAt,
	}, g.ID)
	return insert[domain.SavingsGoal](ctx, c, "savings_goals", "goal", row)
}

func (c *Client) UpdateGoal(ctx context.Context, userID, goalID string, fields map[string]any) (*domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateGoal")
	defer span.End()

	return patch[domain.SavingsGoal](ctx, c, from("savings_goals").eq("user_id", userID).eq("id", goalID), "goal", goalID, fields)
}

func (c *Client) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteGoal")
	defer span.End()

	return remove(ctx, c, from("savings_goals").eq("user_id", userID).eq("id", goalID), "goal")
}

// CompareAndSetGoalProgress patches progress guarded by current_amount=eq.<prev>.
func (c *Client) CompareAndSetGoalProgress(ctx context.Context, g *domain.SavingsGoal, prev decimal.Decimal) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CompareAndSetGoalProgress")
	defer span.End()

	q := from("savings_goals").eq("user_id", g.UserID).eq("id", g.ID).eq("current_amount", prev.String())
	return compareAndSet(ctx, c, q, "goal", map[string]any{
		"current_amount": g.CurrentAmount,
		"is_completed":   g.IsCompleted,
		"completed_at":   g.CompletedAt,
	})
}

func (c *Client) InsertContribution(ctx context.Context, gc *domain.GoalContribution) (*domain.GoalContribution, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertContribution")
	defer span.End()

	row := withID(map[string]any{
		"goal_id": gc.GoalID,
		"user_id": gc.UserID,
		"amount":  gc.Amount,
		"note":    gc.Note,
	}, gc.ID)
	return insert[domain.GoalContribution](ctx, c, "goal_contributions", "contribution", row)
}

func (c *Client) DeleteContribution(ctx context.Context, userID, contributionID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteContribution")
	defer span.End()

	return remove(ctx, c, from("goal_contributions").eq("user_id", userID).eq("id", contributionID), "contribution")
}

func (c *Client) ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListContributions")
	defer span.End()

	q := from("goal_contributions").eq("user_id", userID).eq("goal_id", goalID).order("created_at.desc")
	return list[domain.GoalContribution](ctx, c, q, "contribution")
}
