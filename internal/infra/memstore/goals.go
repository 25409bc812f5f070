package memstore

import (
	"context"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

func (s *Store) ListGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListGoals"); err != nil {
		return nil, err
	}
	out := filter(s.goals, func(g *domain.SavingsGoal) bool { return g.UserID == userID })
	byCreated(out, func(g *domain.SavingsGoal) time.Time { return g.CreatedAt }, false)
	return out, nil
}

func (s *Store) GetGoal(ctx context.Context, userID, goalID string) (*domain.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetGoal"); err != nil {
		return nil, err
	}
	i := indexOf(s.goals, func(g *domain.SavingsGoal) bool { return g.ID == goalID && g.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	g := s.goals[i]
	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateGoal"); err != nil {
		return nil, err
	}
	g := *goal
	g.ID = newID(g.ID)
	g.CreatedAt = s.stamp()
	s.goals = append(s.goals, g)
	return &g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID, goalID string, fields map[string]any) (*domain.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateGoal"); err != nil {
		return nil, err
	}
	i := indexOf(s.goals, func(g *domain.SavingsGoal) bool { return g.ID == goalID && g.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	if err := overlay(&s.goals[i], fields); err != nil {
		return nil, err
	}
	g := s.goals[i]
	return &g, nil
}

// DeleteGoal cascades to the contribution ledger.
func (s *Store) DeleteGoal(ctx context.Context, userID, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeleteGoal"); err != nil {
		return err
	}
	if i := indexOf(s.goals, func(g *domain.SavingsGoal) bool { return g.ID == goalID && g.UserID == userID }); i >= 0 {
		s.goals = removeAt(s.goals, i)
		s.contributions = filter(s.contributions, func(c *domain.GoalContribution) bool { return c.GoalID != goalID })
	}
	return nil
}

func (s *Store) CompareAndSetGoalProgress(ctx context.Context, goal *domain.SavingsGoal, prev decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CompareAndSetGoalProgress"); err != nil {
		return false, err
	}
	i := indexOf(s.goals, func(g *domain.SavingsGoal) bool {
		return g.ID == goal.ID && g.UserID == goal.UserID && g.CurrentAmount.Equal(prev)
	})
	if i < 0 {
		return false, nil
	}
	s.goals[i].CurrentAmount = goal.CurrentAmount
	s.goals[i].IsCompleted = goal.IsCompleted
	s.goals[i].CompletedAt = goal.CompletedAt
	return true, nil
}

func (s *Store) InsertContribution(ctx context.Context, c *domain.GoalContribution) (*domain.GoalContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("InsertContribution"); err != nil {
		return nil, err
	}
	row := *c
	row.ID = newID(row.ID)
	row.CreatedAt = s.stamp()
	s.contributions = append(s.contributions, row)
	return &row, nil
}

func (s *Store) DeleteContribution(ctx context.Context, userID, contributionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeleteContribution"); err != nil {
		return err
	}
	if i := indexOf(s.contributions, func(c *domain.GoalContribution) bool { return c.ID == contributionID && c.UserID == userID }); i >= 0 {
		s.contributions = removeAt(s.contributions, i)
	}
	return nil
}

func (s *Store) ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListContributions"); err != nil {
		return nil, err
	}
	out := filter(s.contributions, func(c *domain.GoalContribution) bool { return c.UserID == userID && c.GoalID == goalID })
	byCreated(out, func(c *domain.GoalContribution) time.Time { return c.CreatedAt }, true)
	return out, nil
}
