package memstore

import (
	"context"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

func (s *Store) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetUserStats"); err != nil {
		return nil, err
	}
	st, ok := s.stats[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user_stats", ID: userID}
	}
	return &st, nil
}

func (s *Store) CreateUserStats(ctx context.Context, stats *domain.UserStats) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateUserStats"); err != nil {
		return nil, err
	}
	if _, ok := s.stats[stats.UserID]; !ok {
		s.stats[stats.UserID] = *stats
	}
	st := s.stats[stats.UserID]
	return &st, nil
}

func (s *Store) CompareAndSetCheckIn(ctx context.Context, stats *domain.UserStats, prev domain.Date) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CompareAndSetCheckIn"); err != nil {
		return false, err
	}
	cur, ok := s.stats[stats.UserID]
	if !ok || !cur.LastActive.Equal(prev) {
		return false, nil
	}
	cur.Streak = stats.Streak
	cur.LongestStreak = stats.LongestStreak
	cur.XP = stats.XP
	cur.Level = stats.Level
	cur.LastActive = stats.LastActive
	s.stats[stats.UserID] = cur
	return true, nil
}

func (s *Store) SetFinancialScore(ctx context.Context, userID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("SetFinancialScore"); err != nil {
		return err
	}
	cur, ok := s.stats[userID]
	if !ok {
		return &domain.ErrNotFound{Resource: "user_stats", ID: userID}
	}
	cur.FinancialScore = score
	s.stats[userID] = cur
	return nil
}

// UpdateUserStats mirrors update_user_stats, creating the row when absent.
func (s *Store) UpdateUserStats(ctx context.Context, userID string, amount decimal.Decimal, hasEmotion bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateUserStats"); err != nil {
		return err
	}
	cur, ok := s.stats[userID]
	if !ok {
		cur = *domain.NewUserStats(userID)
	}
	cur.RecordTransaction(hasEmotion)
	s.stats[userID] = cur
	return nil
}

// RevertUserStats mirrors revert_user_stats.
func (s *Store) RevertUserStats(ctx context.Context, userID string, amount decimal.Decimal, hasEmotion bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("RevertUserStats"); err != nil {
		return err
	}
	cur, ok := s.stats[userID]
	if !ok {
		return nil
	}
	cur.RevertTransaction(hasEmotion)
	s.stats[userID] = cur
	return nil
}

func (s *Store) ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListAchievements"); err != nil {
		return nil, err
	}
	out := filter(s.achievements, func(a *domain.Achievement) bool { return a.UserID == userID })
	byCreated(out, func(a *domain.Achievement) time.Time { return a.EarnedAt }, false)
	return out, nil
}

func (s *Store) GrantAchievement(ctx context.Context, userID, badgeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GrantAchievement"); err != nil {
		return false, err
	}
	if indexOf(s.achievements, func(a *domain.Achievement) bool { return a.UserID == userID && a.BadgeID == badgeID }) >= 0 {
		return false, nil
	}
	s.achievements = append(s.achievements, domain.Achievement{UserID: userID, BadgeID: badgeID, EarnedAt: s.stamp()})
	return true, nil
}
