package supabase

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Gamification: user_stats + achievements
// ============================================================

func (c *Client) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetUserStats")
	defer span.End()

	return getOne[domain.UserStats](ctx, c, from("user_stats").eq("user_id", userID), "user_stats", userID)
}

// CreateUserStats upserts with ignore-duplicates, then reads the stored row
// so a concurrent first read sees the same stats.
func (c *Client) CreateUserStats(ctx context.Context, s *domain.UserStats) (*domain.UserStats, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateUserStats")
	defer span.End()

	row := map[string]any{
		"user_id":            s.UserID,
		"level":              s.Level,
		"xp":                 s.XP,
		"streak":             s.Streak,
		"longest_streak":     s.LongestStreak,
		"last_active":        s.LastActive,
		"total_transactions": s.TotalTransactions,
		"financial_score":    s.FinancialScore,
	}
	path := from("user_stats").onConflict("user_id").String()
	err := c.exec(ctx, "user_stats", true, func() error {
		_, err := c.doPost(ctx, path, row, preferIgnore)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.GetUserStats(ctx, s.UserID)
}

// CompareAndSetCheckIn patches streak fields guarded by the previous last_active.
func (c *Client) CompareAndSetCheckIn(ctx context.Context, s *domain.UserStats, prev domain.Date) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CompareAndSetCheckIn")
	defer span.End()

	q := from("user_stats").eq("user_id", s.UserID)
	if prev.IsZero() {
		q.is("last_active", "null")
	} else {
		q.eq("last_active", prev.String())
	}
	return compareAndSet(ctx, c, q, "user_stats", map[string]any{
		"streak":         s.Streak,
		"longest_streak": s.LongestStreak,
		"xp":             s.XP,
		"level":          s.Level,
		"last_active":    s.LastActive,
	})
}

func (c *Client) SetFinancialScore(ctx context.Context, userID string, score int) error {
	ctx, span := tracer.Start(ctx, "Supabase.SetFinancialScore")
	defer span.End()

	_, err := patch[domain.UserStats](ctx, c, from("user_stats").eq("user_id", userID), "user_stats", userID,
		map[string]any{"financial_score": score})
	return err
}

// UpdateUserStats calls update_user_stats(p_user_id, p_amount, p_has_emotion).
func (c *Client) UpdateUserStats(ctx context.Context, userID string, amount decimal.Decimal, hasEmotion bool) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateUserStats")
	defer span.End()

	return rpc(ctx, c, "update_user_stats", map[string]any{
		"p_user_id":     userID,
		"p_amount":      amount,
		"p_has_emotion": hasEmotion,
	})
}

// RevertUserStats calls revert_user_stats(p_user_id, p_amount, p_has_emotion).
func (c *Client) RevertUserStats(ctx context.Context, userID string, amount decimal.Decimal, hasEmotion bool) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevertUserStats")
	defer span.End()

	return rpc(ctx, c, "revert_user_stats", map[string]any{
		"p_user_id":     userID,
		"p_amount":      amount,
		"p_has_emotion": hasEmotion,
	})
}

func (c *Client) ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAchievements")
	defer span.End()

	q := from("achievements").eq("user_id", userID).order("earned_at.asc")
	return list[domain.Achievement](ctx, c, q, "achievement")
}

// GrantAchievement upserts on (user_id, badge_id) ignoring duplicates.
// PostgREST only returns rows it actually inserted.
func (c *Client) GrantAchievement(ctx context.Context, userID, badgeID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GrantAchievement")
	defer span.End()

	path := from("achievements").onConflict("user_id,badge_id").String()
	var granted bool
	err := c.exec(ctx, "achievement", true, func() error {
		body, err := c.doPost(ctx, path, map[string]any{"user_id": userID, "badge_id": badgeID}, preferIgnore)
		if err != nil {
			return err
		}
		rows, err := decodeRows[domain.Achievement](body, "achievement")
		if err != nil {
			return err
		}
		granted = len(rows) > 0
		return nil
	})
	return granted, err
}
