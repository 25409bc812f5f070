package supabase

import (
	"context"
	"fmt"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// Transactions
// ============================================================

func (c *Client) ListTransactions(ctx context.Context, userID string, f domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	q := from("transactions").eq("user_id", userID).order("date.desc,created_at.desc")
	if f.Type != "" {
		q.eq("type", f.Type)
	}
	if f.AccountID != "" {
		q.or(fmt.Sprintf("account_id.eq.%s,to_account_id.eq.%s", f.AccountID, f.AccountID))
	}
	if f.CategoryID != "" {
		q.eq("category_id", f.CategoryID)
	}
	if !f.From.IsZero() {
		q.gte("date", f.From.String())
	}
	if !f.To.IsZero() {
		q.lte("date", f.To.String())
	}
	if f.Limit > 0 {
		q.limit(f.Limit)
	}
	if f.Offset > 0 {
		q.offset(f.Offset)
	}
	return list[domain.Transaction](ctx, c, q, "transaction")
}

func (c *Client) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	q := from("transactions").eq("user_id", userID).eq("id", transactionID)
	return getOne[domain.Transaction](ctx, c, q, "transaction", transactionID)
}

func (c *Client) InsertTransaction(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertTransaction")
	defer span.End()

	row := domain.TransactionFields(t)
	row["user_id"] = t.UserID
	if !t.CreatedAt.IsZero() {
		row["created_at"] = t.CreatedAt
	}
	return insert[domain.Transaction](ctx, c, "transactions", "transaction", withID(row, t.ID))
}

func (c *Client) UpdateTransaction(ctx context.Context, userID, transactionID string, fields map[string]any) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransaction")
	defer span.End()

	q := from("transactions").eq("user_id", userID).eq("id", transactionID)
	return patch[domain.Transaction](ctx, c, q, "transaction", transactionID, fields)
}

func (c *Client) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransaction")
	defer span.End()

	q := from("transactions").eq("user_id", userID).eq("id", transactionID)
	return removeOne(ctx, c, q, "transaction", transactionID)
}
