package supabase

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// ============================================================
// Net worth history
// ============================================================

// UpsertNetWorthSnapshot merges on (user_id, month).
func (c *Client) UpsertNetWorthSnapshot(ctx context.Context, s *domain.NetWorthSnapshot) (*domain.NetWorthSnapshot, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpsertNetWorthSnapshot")
	defer span.End()

	b := s.NetWorthBreakdown
	row := map[string]any{
		"user_id":           s.UserID,
		"month":             s.Month,
		"total_assets":      b.TotalAssets,
		"total_liabilities": b.TotalLiabilities,
		"net_worth":         b.NetWorth,
		"cash":              b.Cash,
		"investments":       b.Investments,
		"credit_card_debt":  b.CreditCardDebt,
		"loans":             b.Loans,
		"receivables":       b.Receivables,
		"payables":          b.Payables,
		"income":            b.Income,
		"expense":           b.Expense,
		"savings_rate":      b.SavingsRate,
	}
	path := from("net_worth_history").onConflict("user_id,month").String()

	var out *domain.NetWorthSnapshot
	err := c.exec(ctx, "net_worth", true, func() error {
		body, err := c.doPost(ctx, path, row, preferMerge)
		if err != nil {
			return err
		}
		out, err = decodeOne[domain.NetWorthSnapshot](body, "net_worth", s.UserID)
		return err
	})
	return out, err
}

func (c *Client) ListNetWorthHistory(ctx context.Context, userID string, since domain.Date) ([]domain.NetWorthSnapshot, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListNetWorthHistory")
	defer span.End()

	q := from("net_worth_history").eq("user_id", userID).gte("month", since.String()).order("month.asc")
	return list[domain.NetWorthSnapshot](ctx, c, q, "net_worth")
}
