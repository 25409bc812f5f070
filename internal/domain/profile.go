package domain

import "time"

// ============================================================
// User profile
// ============================================================

// Profile holds per-owner personalization settings.
type Profile struct {
	UserID              string    `json:"user_id"`
	DisplayName         string    `json:"display_name"`
	Bio                 string    `json:"bio"`
	AvatarURL           string    `json:"avatar_url"`
	Theme               string    `json:"theme"`
	AccentColor         string    `json:"accent_color"`
	Currency            string    `json:"currency"`
	Language            string    `json:"language"`
	DateFormat          string    `json:"date_format"`
	NotifyBudgetAlerts  bool      `json:"notify_budget_alerts"`
	NotifyGoalReminders bool      `json:"notify_goal_reminders"`
	NotifyDebtReminders bool      `json:"notify_debt_reminders"`
	NotifyWeeklyReport  bool      `json:"notify_weekly_report"`
	PrivacyHideAmounts  bool      `json:"privacy_hide_amounts"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultProfile is the profile created on first read.
func DefaultProfile(userID string, now time.Time) *Profile {
	return &Profile{
		UserID:              userID,
		Theme:               "system",
		AccentColor:         "#6366f1",
		Currency:            "IDR",
		Language:            "en",
		DateFormat:          "DD/MM/YYYY",
		NotifyBudgetAlerts:  true,
		NotifyGoalReminders: true,
		NotifyDebtReminders: true,
		UpdatedAt:           now.UTC(),
	}
}

// ProfilePatch lists the mutable profile fields.
type ProfilePatch struct {
	DisplayName         *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	Bio                 *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL           *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Theme               *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	AccentColor         *string `json:"accent_color,omitempty" validate:"omitempty,hexcolor"`
	Currency            *string `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	Language            *string `json:"language,omitempty" validate:"omitempty,min=2,max=10"`
	DateFormat          *string `json:"date_format,omitempty" validate:"omitempty,max=20"`
	NotifyBudgetAlerts  *bool   `json:"notify_budget_alerts,omitempty"`
	NotifyGoalReminders *bool   `json:"notify_goal_reminders,omitempty"`
	NotifyDebtReminders *bool   `json:"notify_debt_reminders,omitempty"`
	NotifyWeeklyReport  *bool   `json:"notify_weekly_report,omitempty"`
	PrivacyHideAmounts  *bool   `json:"privacy_hide_amounts,omitempty"`
	OnboardingCompleted *bool   `json:"onboarding_completed,omitempty"`
}

func (p *ProfilePatch) Apply(pr *Profile) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&pr.DisplayName, p.DisplayName)
	setStr(&pr.Bio, p.Bio)
	setStr(&pr.AvatarURL, p.AvatarURL)
	setStr(&pr.Theme, p.Theme)
	setStr(&pr.AccentColor, p.AccentColor)
	setStr(&pr.Currency, p.Currency)
	setStr(&pr.Language, p.Language)
	setStr(&pr.DateFormat, p.DateFormat)
	setBool(&pr.NotifyBudgetAlerts, p.NotifyBudgetAlerts)
	setBool(&pr.NotifyGoalReminders, p.NotifyGoalReminders)
	setBool(&pr.NotifyDebtReminders, p.NotifyDebtReminders)
	setBool(&pr.NotifyWeeklyReport, p.NotifyWeeklyReport)
	setBool(&pr.PrivacyHideAmounts, p.PrivacyHideAmounts)
	setBool(&pr.OnboardingCompleted, p.OnboardingCompleted)
}

func (p *ProfilePatch) Fields() map[string]any {
	m := map[string]any{}
	for k, v := range map[string]*string{
		"display_name": p.DisplayName,
		"bio":          p.Bio,
		"avatar_url":   p.AvatarURL,
		"theme":        p.Theme,
		"accent_color": p.AccentColor,
		"currency":     p.Currency,
		"language":     p.Language,
		"date_format":  p.DateFormat,
	} {
		if v != nil {
			m[k] = *v
		}
	}
	for k, v := range map[string]*bool{
		"notify_budget_alerts":  p.NotifyBudgetAlerts,
		"notify_goal_reminders": p.NotifyGoalReminders,
		"notify_debt_reminders": p.NotifyDebtReminders,
		"notify_weekly_report":  p.NotifyWeeklyReport,
		"privacy_hide_amounts":  p.PrivacyHideAmounts,
		"onboarding_completed":  p.OnboardingCompleted,
	} {
		if v != nil {
			m[k] = *v
		}
	}
	return m
}
