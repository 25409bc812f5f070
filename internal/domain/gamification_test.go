package domain_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

func TestCheckIn_Yesterday(t *testing.T) {
	today := domain.NewDate(2026, 10, 14)
	s := &domain.UserStats{Level: 1, XP: 90, Streak: 3, LongestStreak: 3, LastActive: today.AddDays(-1)}

	if !s.CheckIn(today) {
		t.Fatal("expected check-in to apply")
	}
	if s.Streak != 4 || s.LongestStreak != 4 {
		t.Errorf("expected streak 4/4, got %d/%d", s.Streak, s.LongestStreak)
	}
	if s.XP != 110 || s.Level != 2 {
		t.Errorf("expected xp 110 level 2, got %d level %d", s.XP, s.Level)
	}
	if !s.LastActive.Equal(today) {
		t.Errorf("expected last_active %s, got %s", today, s.LastActive)
	}
}

func TestCheckIn_Today_NoOp(t *testing.T) {
	today := domain.NewDate(2026, 10, 14)
	s := &domain.UserStats{Level: 1, XP: 40, Streak: 2, LastActive: today}
	before := *s

	if s.CheckIn(today) {
		t.Fatal("expected second check-in to be a no-op")
	}
	if !reflect.DeepEqual(before, *s) {
		t.Errorf("stats changed on no-op: %+v", *s)
	}
}

func TestCheckIn_GapResetsStreak(t *testing.T) {
	today := domain.NewDate(2026, 10, 14)
	s := &domain.UserStats{Level: 1, Streak: 9, LongestStreak: 9, LastActive: today.AddDays(-3)}

	s.CheckIn(today)
	if s.Streak != 1 || s.LongestStreak != 9 {
		t.Errorf("expected streak 1 longest 9, got %d/%d", s.Streak, s.LongestStreak)
	}
}

func TestLevelForXP(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 100: 2, 299: 2, 300: 3, 10000: 10, 50000: 10}
	for xp, want := range cases {
		if got := domain.LevelForXP(xp); got != want {
			t.Errorf("xp %d: expected level %d, got %d", xp, want, got)
		}
	}
	if domain.NextLevelXP(1) != 100 || domain.NextLevelXP(10) != 0 {
		t.Error("unexpected next level xp")
	}
}

func TestStreakBadges(t *testing.T) {
	if len(domain.StreakBadges(6)) != 0 {
		t.Error("no badge expected below 7")
	}
	if got := domain.StreakBadges(7); !reflect.DeepEqual(got, []string{domain.BadgeOnFire}) {
		t.Errorf("unexpected badges %v", got)
	}
	if got := domain.StreakBadges(30); len(got) != 2 {
		t.Errorf("expected both badges, got %v", got)
	}
}

func TestGoalContribute_CompletionIsOneWay(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	g := &domain.SavingsGoal{TargetAmount: dec("100"), CurrentAmount: dec("60")}

	if g.Contribute(dec("30"), now) {
		t.Fatal("goal should not complete at 90/100")
	}
	if !g.Contribute(dec("10"), now) {
		t.Fatal("goal should complete at exactly the target")
	}
	at := *g.CompletedAt
	if g.Contribute(dec("5"), now.Add(time.Hour)) {
		t.Error("completion must only be reported once")
	}
	if !g.IsCompleted || !g.CompletedAt.Equal(at) || !g.CurrentAmount.Equal(dec("105")) {
		t.Errorf("unexpected goal state %+v", g)
	}
}

func TestDebtApplyPayment(t *testing.T) {
	now := time.Now()

	owed := &domain.Debt{Amount: dec("-100")}
	owed.ApplyPayment(dec("40"), now)
	if !owed.Amount.Equal(dec("-60")) || owed.IsSettled {
		t.Errorf("expected -60 unsettled, got %s settled=%v", owed.Amount, owed.IsSettled)
	}

	owed.ApplyPayment(dec("500"), now)
	if !owed.Amount.IsZero() || !owed.IsSettled || owed.SettledAt == nil {
		t.Errorf("overpayment should clamp and settle, got %s settled=%v", owed.Amount, owed.IsSettled)
	}

	receivable := &domain.Debt{Amount: dec("80")}
	receivable.ApplyPayment(dec("80"), now)
	if !receivable.Amount.IsZero() || !receivable.IsSettled {
		t.Error("exact payment should settle")
	}
}
