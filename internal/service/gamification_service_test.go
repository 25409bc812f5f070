package service_test

import (
	"testing"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats_LazilyCreates(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.GetStats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Level)
	assert.Equal(t, 0, res.Stats.XP)
	assert.Equal(t, 100, res.NextLevelXP)
	assert.Empty(t, res.Achievements)
}

func TestCheckIn_OncePerDay(t *testing.T) {
	h := newHarness(t)

	first, err := h.svc.CheckIn(ctx, owner)
	require.NoError(t, err)
	assert.False(t, first.AlreadyCheckedIn)
	assert.Equal(t, domain.CheckInXP, first.XPAwarded)
	assert.Equal(t, 1, first.Stats.Streak)

	again, err := h.svc.CheckIn(ctx, owner)
	require.NoError(t, err)
	assert.True(t, again.AlreadyCheckedIn)
	assert.Equal(t, 0, again.XPAwarded)
	assert.Equal(t, domain.CheckInXP, h.stats(t).XP)
}

func TestCheckIn_StreakBadgesAndReset(t *testing.T) {
	h := newHarness(t)

	var granted [][]string
	for i := 0; i < 8; i++ {
		res, err := h.svc.CheckIn(ctx, owner)
		require.NoError(t, err)
		granted = append(granted, res.Achievements)
		h.clock.advanceDays(1)
	}
	assert.Equal(t, []string{domain.BadgeOnFire}, granted[6])
	assert.Empty(t, granted[7])

	st := h.stats(t)
	assert.Equal(t, 8, st.Streak)
	assert.Equal(t, 8, st.LongestStreak)
	assert.Equal(t, 8*domain.CheckInXP, st.XP)
	assert.Equal(t, domain.LevelForXP(8*domain.CheckInXP), st.Level)

	h.clock.advanceDays(2)
	res, err := h.svc.CheckIn(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Streak)
	assert.Equal(t, 8, res.Stats.LongestStreak)
}

func TestListAchievements_Catalog(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.GrantAchievement(ctx, owner, domain.BadgeGoalGetter)
	require.NoError(t, err)

	views, err := h.svc.ListAchievements(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, len(domain.Badges))
	for _, v := range views {
		assert.Equal(t, v.ID == domain.BadgeGoalGetter, v.Earned, v.ID)
	}
}
