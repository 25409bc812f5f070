package service

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Debts
// ============================================================

// ListDebts filters by settlement when settled is set. The summary always
// covers every active debt of the owner.
func (s *FinanceService) ListDebts(ctx context.Context, userID string, settled *bool) (*domain.DebtsResponse, error) {
	ctx, end := s.startOp(ctx, "ListDebts", userID)
	defer end()

	all, err := s.store.ListDebts(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	debts := all
	if settled != nil {
		debts = make([]domain.Debt, 0, len(all))
		for _, d := range all {
			if d.IsSettled == *settled {
				debts = append(debts, d)
			}
		}
	}
	return &domain.DebtsResponse{Debts: debts, Summary: domain.SummarizeDebts(all)}, nil
}

func (s *FinanceService) GetDebt(ctx context.Context, userID, debtID string) (*domain.Debt, error) {
	ctx, end := s.startOp(ctx, "GetDebt", userID)
	defer end()

	return s.store.GetDebt(ctx, userID, debtID)
}

// CreateDebt takes a signed, non-zero amount: positive is owed to the owner.
func (s *FinanceService) CreateDebt(ctx context.Context, d *domain.Debt) (*domain.Debt, error) {
	ctx, end := s.startOp(ctx, "CreateDebt", d.UserID)
	defer end()

	if d.Amount.IsZero() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must not be zero"}
	}
	d.OriginalAmount = d.Amount.Abs()
	d.IsSettled, d.SettledAt = false, nil

	created, err := s.store.CreateDebt(ctx, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("debt created",
		zap.String("user_id", created.UserID),
		zap.String("debt_id", created.ID),
		zap.String("amount", created.Amount.String()),
	)
	return created, nil
}

func (s *FinanceService) UpdateDebt(ctx context.Context, userID, debtID string, patch domain.DebtPatch) (*domain.Debt, error) {
	ctx, end := s.startOp(ctx, "UpdateDebt", userID)
	defer end()

	existing, err := s.store.GetDebt(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return existing, nil
	}
	return s.store.UpdateDebt(ctx, userID, debtID, fields)
}

// DeleteDebt removes the debt and its payment ledger.
func (s *FinanceService) DeleteDebt(ctx context.Context, userID, debtID string) error {
	ctx, end := s.startOp(ctx, "DeleteDebt", userID)
	defer end()

	if _, err := s.store.GetDebt(ctx, userID, debtID); err != nil {
		return err
	}
	if err := s.store.DeleteDebt(ctx, userID, debtID); err != nil {
		return err
	}
	s.logger.Info("debt deleted", zap.String("user_id", userID), zap.String("debt_id", debtID))
	return nil
}

// PayDebt shrinks the outstanding magnitude with a compare-and-set on amount,
// appends the ledger row and grants debt_free once no active debt remains.
func (s *FinanceService) PayDebt(ctx context.Context, userID, debtID string, payment decimal.Decimal, note string) (*domain.PaymentResult, error) {
	ctx, end := s.startOp(ctx, "PayDebt", userID)
	defer end()

	if !payment.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be greater than 0"}
	}

	var debt *domain.Debt
	var applied decimal.Decimal
	var owedByUser bool
	err := s.retryCAS(ctx, "debt", func(ctx context.Context) (bool, error) {
		d, err := s.store.GetDebt(ctx, userID, debtID)
		if err != nil {
			return false, err
		}
		if d.IsSettled {
			return false, &domain.ErrValidation{Field: "amount", Message: "debt is already settled"}
		}
		prev := d.Amount
		owedByUser = prev.IsNegative()
		d.ApplyPayment(payment, s.now())
		applied = prev.Abs().Sub(d.Amount.Abs())
		debt = d
		return s.store.CompareAndSetDebtAmount(ctx, d, prev)
	})
	if err != nil {
		return nil, err
	}

	sg := s.newSaga("debt_payment", userID)
	sg.done("debt_amount", func(ctx context.Context) error {
		return s.restoreDebt(ctx, userID, debtID, applied, owedByUser)
	})
	var recorded *domain.DebtPayment
	err = sg.step(ctx, "insert_payment",
		func(ctx context.Context) error {
			var err error
			recorded, err = s.store.InsertPayment(ctx, &domain.DebtPayment{
				DebtID: debtID,
				UserID: userID,
				Amount: payment,
				Note:   note,
			})
			return err
		},
		nil,
	)
	if err != nil {
		return nil, err
	}
	sg.commit()

	s.logger.Info("debt payment recorded",
		zap.String("user_id", userID),
		zap.String("debt_id", debtID),
		zap.String("payment", payment.String()),
		zap.String("remaining", debt.Amount.String()),
		zap.Bool("settled", debt.IsSettled),
	)
	achievements := []string{}
	if debt.IsSettled {
		s.publish(ctx, domain.EventDebtSettled, userID, debtID, debt)
		achievements = s.grantDebtFree(ctx, userID)
	}
	return &domain.PaymentResult{
		Debt:         debt,
		Payment:      recorded,
		Settled:      debt.IsSettled,
		Achievements: achievements,
	}, nil
}

func (s *FinanceService) grantDebtFree(ctx context.Context, userID string) []string {
	active, err := s.store.CountActiveDebts(ctx, userID)
	if err != nil {
		s.logger.Warn("active debt count failed", zap.String("user_id", userID), zap.Error(err))
		return []string{}
	}
	if active > 0 {
		return []string{}
	}
	return s.grant(ctx, userID, domain.BadgeDebtFree)
}

// restoreDebt adds back the magnitude a payment removed and reopens the debt.
// The sign is passed in because a settled debt stores zero.
func (s *FinanceService) restoreDebt(ctx context.Context, userID, debtID string, applied decimal.Decimal, owedByUser bool) error {
	return s.retryCAS(ctx, "debt", func(ctx context.Context) (bool, error) {
		d, err := s.store.GetDebt(ctx, userID, debtID)
		if err != nil {
			return false, err
		}
		prev := d.Amount
		magnitude := prev.Abs().Add(applied)
		if owedByUser {
			magnitude = magnitude.Neg()
		}
		d.Amount = magnitude
		if !magnitude.IsZero() {
			d.IsSettled, d.SettledAt = false, nil
		}
		return s.store.CompareAndSetDebtAmount(ctx, d, prev)
	})
}

// ListPayments returns the debt's payment ledger, newest first.
func (s *FinanceService) ListPayments(ctx context.Context, userID, debtID string) ([]domain.DebtPayment, error) {
	ctx, end := s.startOp(ctx, "ListPayments", userID)
	defer end()

	if _, err := s.store.GetDebt(ctx, userID, debtID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, userID, debtID)
}
