package supabase

import (
	"context"
	"strconv"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Debts + payment ledger
// ============================================================

func (c *Client) ListDebts(ctx context.Context, userID string, settled *bool) ([]domain.Debt, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListDebts")
	defer span.End()

	q := from("debts").eq("user_id", userID).order("created_at.desc")
	if settled != nil {
		q.eq("is_settled", strconv.FormatBool(*settled))
	}
	return list[domain.Debt](ctx, c, q, "debt")
}

func (c *Client) GetDebt(ctx context.Context, userID, debtID string) (*domain.Debt, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetDebt")
	defer span.End()

	return getOne[domain.Debt](ctx, c, from("debts").eq("user_id", userID).eq("id", debtID), "debt", debtID)
}

func (c *Client) CreateDebt(ctx context.Context, d *domain.Debt) (*domain.Debt, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateDebt")
	defer span.End()

	row := withID(map[string]any{
		"user_id":          d.UserID,
		"person_name":      d.PersonName,
		"person_contact":   d.PersonContact,
		"amount":           d.Amount,
		"original_amount":  d.OriginalAmount,
		"description":      d.Description,
		"due_date":         d.DueDate,
		"is_settled":       d.IsSettled,
		"settled_at":       d.SettledAt,
		"reminder_enabled": d.ReminderEnabled,
	}, d.ID)
	return insert[domain.Debt](ctx, c, "debts", "debt", row)
}

func (c *Client) UpdateDebt(ctx context.Context, userID, debtID string, fields map[string]any) (*domain.Debt, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateDebt")
	defer span.End()

	return patch[domain.Debt](ctx, c, from("debts").eq("user_id", userID).eq("id", debtID), "debt", debtID, fields)
}

func (c *Client) DeleteDebt(ctx context.Context, userID, debtID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteDebt")
	defer span.End()

	return remove(ctx, c, from("debts").eq("user_id", userID).eq("id", debtID), "debt")
}

func (c *Client) CountActiveDebts(ctx context.Context, userID string) (int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CountActiveDebts")
	defer span.End()

	q := from("debts").eq("user_id", userID).eq("is_settled", "false").sel("id")
	rows, err := list[struct {
		ID string `json:"id"`
	}](ctx, c, q, "debt")
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// CompareAndSetDebtAmount patches the magnitude guarded by amount=eq.<prev>.
func (c *Client) CompareAndSetDebtAmount(ctx context.Context, d *domain.Debt, prev decimal.Decimal) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CompareAndSetDebtAmount")
	defer span.End()

	q := from("debts").eq("user_id", d.UserID).eq("id", d.ID).eq("amount", prev.String())
	return compareAndSet(ctx, c, q, "debt", map[string]any{
		"amount":     d.Amount,
		"is_settled": d.IsSettled,
		"settled_at": d.SettledAt,
	})
}

func (c *Client) InsertPayment(ctx context.Context, p *domain.DebtPayment) (*domain.DebtPayment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertPayment")
	defer span.End()

	row := withID(map[string]any{
		"debt_id": p.DebtID,
		"user_id": p.UserID,
		"amount":  p.Amount,
		"note":    p.Note,
	}, p.ID)
	return insert[domain.DebtPayment](ctx, c, "debt_payments", "payment", row)
}

func (c *Client) DeletePayment(ctx context.Context, userID, paymentID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeletePayment")
	defer span.End()

	return remove(ctx, c, from("debt_payments").eq("user_id", userID).eq("id", paymentID), "payment")
}

func (c *Client) ListPayments(ctx context.Context, userID, debtID string) ([]domain.DebtPayment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPayments")
	defer span.End()

	q := from("debt_payments").eq("user_id", userID).eq("debt_id", debtID).order("created_at.desc")
	return list[domain.DebtPayment](ctx, c, q, "payment")
}
