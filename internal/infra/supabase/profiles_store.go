package supabase

import (
	"context"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// ============================================================
// Profiles
// ============================================================

func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProfile")
	defer span.End()

	return getOne[domain.Profile](ctx, c, from("profiles").eq("user_id", userID), "profile", userID)
}

// CreateProfile inserts with ignore-duplicates; an empty representation
// means the profile already existed.
func (c *Client) CreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, bool, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProfile")
	defer span.End()

	row := map[string]any{
		"user_id":               p.UserID,
		"display_name":          p.DisplayName,
		"bio":                   p.Bio,
		"avatar_url":            p.AvatarURL,
		"theme":                 p.Theme,
		"accent_color":          p.AccentColor,
		"currency":              p.Currency,
		"language":              p.Language,
		"date_format":           p.DateFormat,
		"notify_budget_alerts":  p.NotifyBudgetAlerts,
		"notify_goal_reminders": p.NotifyGoalReminders,
		"notify_debt_reminders": p.NotifyDebtReminders,
		"notify_weekly_report":  p.NotifyWeeklyReport,
		"privacy_hide_amounts":  p.PrivacyHideAmounts,
		"onboarding_completed":  p.OnboardingCompleted,
	}
	path := from("profiles").onConflict("user_id").String()

	var created bool
	err := c.exec(ctx, "profile", true, func() error {
		body, err := c.doPost(ctx, path, row, preferIgnore)
		if err != nil {
			return err
		}
		rows, err := decodeRows[domain.Profile](body, "profile")
		if err != nil {
			return err
		}
		created = len(rows) > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	stored, err := c.GetProfile(ctx, p.UserID)
	return stored, created, err
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateProfile")
	defer span.End()

	fields["updated_at"] = time.Now().UTC()
	return patch[domain.Profile](ctx, c, from("profiles").eq("user_id", userID), "profile", userID, fields)
}

func (c *Client) ListUserIDs(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListUserIDs")
	defer span.End()

	rows, err := list[struct {
		UserID string `json:"user_id"`
	}](ctx, c, from("profiles").sel("user_id"), "profile")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	return ids, nil
}
