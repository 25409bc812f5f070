package service

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Savings goals
// ============================================================

func (s *FinanceService) ListGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	ctx, end := s.startOp(ctx, "ListGoals", userID)
	defer end()

	return s.store.ListGoals(ctx, userID)
}

func (s *FinanceService) GetGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error) {
	ctx, end := s.startOp(ctx, "GetGoal", userID)
	defer end()

	return s.store.GetGoal(ctx, userID, goalID)
}

// CreateGoal accepts an opening current amount. A goal created at or past
// its target starts completed and grants goal_getter.
func (s *FinanceService) CreateGoal(ctx context.Context, g *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	ctx, end := s.startOp(ctx, "CreateGoal", g.UserID)
	defer end()

	if g.CurrentAmount.IsNegative() {
		return nil, &domain.ErrValidation{Field: "current_amount", Message: "must not be negative"}
	}
	if g.AccountID != nil {
		if _, err := s.store.GetAccount(ctx, g.UserID, *g.AccountID); err != nil {
			return nil, err
		}
	}
	if g.Priority == "" {
		g.Priority = domain.PriorityMedium
	}
	g.IsCompleted, g.CompletedAt = false, nil
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.IsCompleted = true
		at := s.now().UTC()
		g.CompletedAt = &at
	}

	created, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return nil, err
	}
	s.logger.Info("goal created",
		zap.String("user_id", created.UserID),
		zap.String("goal_id", created.ID),
		zap.String("target", created.TargetAmount.String()),
	)
	if created.IsCompleted {
		s.grant(ctx, created.UserID, domain.BadgeGoalGetter)
	}
	return created, nil
}

// UpdateGoal edits goal metadata. Progress and completion move only through
// contributions.
func (s *FinanceService) UpdateGoal(ctx context.Context, userID, goalID string, patch domain.GoalPatch) (*domain.SavingsGoal, error) {
	ctx, end := s.startOp(ctx, "UpdateGoal", userID)
	defer end()

	existing, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if patch.AccountID != nil && *patch.AccountID != "" {
		if _, err := s.store.GetAccount(ctx, userID, *patch.AccountID); err != nil {
			return nil, err
		}
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return existing, nil
	}
	return s.store.UpdateGoal(ctx, userID, goalID, fields)
}

// DeleteGoal removes the goal and its contribution ledger.
func (s *FinanceService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, end := s.startOp(ctx, "DeleteGoal", userID)
	defer end()

	if _, err := s.store.GetGoal(ctx, userID, goalID); err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, userID, goalID); err != nil {
		return err
	}
	s.logger.Info("goal deleted", zap.String("user_id", userID), zap.String("goal_id", goalID))
	return nil
}

// Contribute adds amount to the goal with a compare-and-set on
// current_amount, appends the ledger row and grants goal_getter whenever the
// new total reaches the target.
func (s *FinanceService) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal, note string) (*domain.ContributionResult, error) {
	ctx, end := s.startOp(ctx, "Contribute", userID)
	defer end()

	if !amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be greater than 0"}
	}

	var goal *domain.SavingsGoal
	var completed bool
	err := s.retryCAS(ctx, "goal", func(ctx context.Context) (bool, error) {
		g, err := s.store.GetGoal(ctx, userID, goalID)
		if err != nil {
			return false, err
		}
		prev := g.CurrentAmount
		completed = g.Contribute(amount, s.now())
		goal = g
		return s.store.CompareAndSetGoalProgress(ctx, g, prev)
	})
	if err != nil {
		return nil, err
	}

	sg := s.newSaga("goal_contribution", userID)
	sg.done("goal_progress", func(ctx context.Context) error {
		return s.withdrawContribution(ctx, userID, goalID, amount, completed)
	})
	var contribution *domain.GoalContribution
	err = sg.step(ctx, "insert_contribution",
		func(ctx context.Context) error {
			var err error
			contribution, err = s.store.InsertContribution(ctx, &domain.GoalContribution{
				GoalID: goalID,
				UserID: userID,
				Amount: amount,
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

	s.logger.Info("goal contribution recorded",
		zap.String("user_id", userID),
		zap.String("goal_id", goalID),
		zap.String("amount", amount.String()),
		zap.Bool("completed", completed),
	)
	achievements := []string{}
	if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		achievements = s.grant(ctx, userID, domain.BadgeGoalGetter)
	}
	if completed {
		s.publish(ctx, domain.EventGoalCompleted, userID, goalID, goal)
	}
	return &domain.ContributionResult{
		Goal:         goal,
		Contribution: contribution,
		Completed:    completed,
		Achievements: achievements,
	}, nil
}

// withdrawContribution reverses a contribution whose ledger row could not be
// written. Completion is reopened only when that contribution completed it.
func (s *FinanceService) withdrawContribution(ctx context.Context, userID, goalID string, amount decimal.Decimal, completedIt bool) error {
	return s.retryCAS(ctx, "goal", func(ctx context.Context) (bool, error) {
		g, err := s.store.GetGoal(ctx, userID, goalID)
		if err != nil {
			return false, err
		}
		prev := g.CurrentAmount
		g.CurrentAmount = prev.Sub(amount)
		if completedIt && g.CurrentAmount.LessThan(g.TargetAmount) {
			g.IsCompleted, g.CompletedAt = false, nil
		}
		return s.store.CompareAndSetGoalProgress(ctx, g, prev)
	})
}

// ListContributions returns the goal's ledger, newest first.
func (s *FinanceService) ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error) {
	ctx, end := s.startOp(ctx, "ListContributions", userID)
	defer end()

	if _, err := s.store.GetGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	return s.store.ListContributions(ctx, userID, goalID)
}
