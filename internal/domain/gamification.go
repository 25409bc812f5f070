package domain

import "time"

// ============================================================
// Gamification
// ============================================================

// Badge ids.
const (
	BadgeOnFire       = "on_fire"
	BadgeDiamondHands = "diamond_hands"
	BadgeGoalGetter   = "goal_getter"
	BadgeDebtFree     = "debt_free"
)

// Badge describes an achievement that can be earned.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Badges is the catalog of known achievements.
var Badges = []Badge{
	{ID: BadgeOnFire, Name: "On Fire", Description: "Check in 7 days in a row", Icon: "flame"},
	{ID: BadgeDiamondHands, Name: "Diamond Hands", Description: "Check in 30 days in a row", Icon: "gem"},
	{ID: BadgeGoalGetter, Name: "Goal Getter", Description: "Complete a savings goal", Icon: "target"},
	{ID: BadgeDebtFree, Name: "Debt Free", Description: "Settle every open debt", Icon: "party-popper"},
}

// Streak badge thresholds.
const (
	OnFireStreak       = 7
	DiamondHandsStreak = 30
)

// CheckInXP is awarded once per calendar day.
const CheckInXP = 20

// Transaction XP, mirrored from the update_user_stats procedure.
const (
	TransactionXP = 10
	EmotionXP     = 5
)

// LevelThresholds[i] is the XP needed to leave level i (levels start at 1).
var LevelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2500, 4000, 6000, 10000}

// LevelForXP walks the threshold table upward while xp reaches the next threshold.
func LevelForXP(xp int) int {
	level := 1
	for level < len(LevelThresholds) && xp >= LevelThresholds[level] {
		level++
	}
	return level
}

// NextLevelXP is the XP at which level ends, or 0 at the top level.
func NextLevelXP(level int) int {
	if level < 1 || level >= len(LevelThresholds) {
		return 0
	}
	return LevelThresholds[level]
}

// UserStats is the per-owner gamification row.
type UserStats struct {
	UserID            string `json:"user_id"`
	Level             int    `json:"level"`
	XP                int    `json:"xp"`
	Streak            int    `json:"streak"`
	LongestStreak     int    `json:"longest_streak"`
	LastActive        Date   `json:"last_active"`
	TotalTransactions int    `json:"total_transactions"`
	FinancialScore    int    `json:"financial_score"`
}

// NewUserStats is the row created on first read.
func NewUserStats(userID string) *UserStats {
	return &UserStats{UserID: userID, Level: 1}
}

// CheckIn advances the streak for today. It reports false when the owner
// already checked in today, leaving s untouched.
func (s *UserStats) CheckIn(today Date) bool {
	if !s.LastActive.IsZero() && s.LastActive.Equal(today) {
		return false
	}
	if !s.LastActive.IsZero() && s.LastActive.Equal(today.AddDays(-1)) {
		s.Streak++
	} else {
		s.Streak = 1
	}
	if s.Streak > s.LongestStreak {
		s.LongestStreak = s.Streak
	}
	s.XP += CheckInXP
	s.Level = LevelForXP(s.XP)
	s.LastActive = today
	return true
}

// RecordTransaction applies the XP for one recorded transaction.
func (s *UserStats) RecordTransaction(hasEmotion bool) {
	s.XP += TransactionXP
	if hasEmotion {
		s.XP += EmotionXP
	}
	s.TotalTransactions++
	s.Level = LevelForXP(s.XP)
}

// RevertTransaction undoes RecordTransaction, never going below zero.
func (s *UserStats) RevertTransaction(hasEmotion bool) {
	s.XP -= TransactionXP
	if hasEmotion {
		s.XP -= EmotionXP
	}
	if s.XP < 0 {
		s.XP = 0
	}
	if s.TotalTransactions > 0 {
		s.TotalTransactions--
	}
	s.Level = LevelForXP(s.XP)
}

// StreakBadges lists the badges a streak qualifies for.
func StreakBadges(streak int) []string {
	var out []string
	if streak >= OnFireStreak {
		out = append(out, BadgeOnFire)
	}
	if streak >= DiamondHandsStreak {
		out = append(out, BadgeDiamondHands)
	}
	return out
}

// Achievement is an earned badge, unique per (user, badge).
type Achievement struct {
	UserID   string    `json:"user_id"`
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// StatsResponse is returned by GET /gamification/stats.
type StatsResponse struct {
	Stats        *UserStats    `json:"stats"`
	Achievements []Achievement `json:"achievements"`
	NextLevelXP  int           `json:"nextLevelXp"`
}

// CheckInResult is returned by POST /gamification/check-in.
type CheckInResult struct {
	Stats            *UserStats `json:"stats"`
	XPAwarded        int        `json:"xpAwarded"`
	AlreadyCheckedIn bool       `json:"alreadyCheckedIn"`
	Achievements     []string   `json:"newAchievements"`
}

// AchievementView pairs a catalog badge with its earned state.
type AchievementView struct {
	Badge
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// AchievementCatalog merges earned achievements into the full badge catalog.
func AchievementCatalog(earned []Achievement) []AchievementView {
	byID := make(map[string]time.Time, len(earned))
	for _, a := range earned {
		byID[a.BadgeID] = a.EarnedAt
	}
	out := make([]AchievementView, 0, len(Badges))
	for _, b := range Badges {
		v := AchievementView{Badge: b}
		if at, ok := byID[b.ID]; ok {
			at := at
			v.Earned = true
			v.EarnedAt = &at
		}
		out = append(out, v)
	}
	return out
}
