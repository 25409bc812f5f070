package service

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Gamification
// ============================================================

// ensureStats reads the owner's stats row, creating the default row on first read.
func (s *FinanceService) ensureStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	st, err := s.store.GetUserStats(ctx, userID)
	if err == nil {
		return st, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return s.store.CreateUserStats(ctx, domain.NewUserStats(userID))
}

func (s *FinanceService) GetStats(ctx context.Context, userID string) (*domain.StatsResponse, error) {
	ctx, end := s.startOp(ctx, "GetStats", userID)
	defer end()

	st, err := s.ensureStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned, err := s.store.ListAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.StatsResponse{
		Stats:        st,
		Achievements: earned,
		NextLevelXP:  domain.NextLevelXP(st.Level),
	}, nil
}

// CheckIn advances the daily streak once per calendar day. The write is a
// compare-and-set on last_active so concurrent check-ins award XP once.
func (s *FinanceService) CheckIn(ctx context.Context, userID string) (*domain.CheckInResult, error) {
	ctx, end := s.startOp(ctx, "CheckIn", userID)
	defer end()

	today := s.today()
	var st *domain.UserStats
	already := false
	err := s.retryCAS(ctx, "user_stats", func(ctx context.Context) (bool, error) {
		cur, err := s.ensureStats(ctx, userID)
		if err != nil {
			return false, err
		}
		prev := cur.LastActive
		st = cur
		if !cur.CheckIn(today) {
			already = true
			return true, nil
		}
		return s.store.CompareAndSetCheckIn(ctx, cur, prev)
	})
	if err != nil {
		return nil, err
	}

	res := &domain.CheckInResult{Stats: st, AlreadyCheckedIn: already, Achievements: []string{}}
	if already {
		return res, nil
	}
	res.XPAwarded = domain.CheckInXP
	res.Achievements = s.grant(ctx, userID, domain.StreakBadges(st.Streak)...)
	s.logger.Info("check-in recorded",
		zap.String("user_id", userID),
		zap.Int("streak", st.Streak),
		zap.Int("xp", st.XP),
		zap.Int("level", st.Level),
	)
	return res, nil
}

// ListAchievements returns the full badge catalog with the owner's earned state.
func (s *FinanceService) ListAchievements(ctx context.Context, userID string) ([]domain.AchievementView, error) {
	ctx, end := s.startOp(ctx, "ListAchievements", userID)
	defer end()

	earned, err := s.store.ListAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.AchievementCatalog(earned), nil
}
