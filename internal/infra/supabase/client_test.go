package supabase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/infra/resilience"
	"github.com/boddenberg/spendwise-api/internal/infra/supabase"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cb := resilience.NewCircuitBreaker("supabase-test", supabase.IsSuccessful)
	cfg := resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxConcurrency: 4}
	return supabase.NewClient(&http.Client{Timeout: 2 * time.Second}, srv.URL, "anon", "service", cb, cfg, zap.NewNop())
}

func TestGetAccount_SendsFiltersAndHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/accounts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user_id") != "eq.user-1" || q.Get("id") != "eq.acc-1" || q.Get("is_active") != "eq.true" {
			t.Errorf("unexpected filters: %s", r.URL.RawQuery)
		}
		if r.Header.Get("apikey") != "anon" || r.Header.Get("Authorization") != "Bearer service" {
			t.Errorf("missing auth headers")
		}
		w.Write([]byte(`[{"id":"acc-1","user_id":"user-1","name":"Wallet","type":"cash","balance":125.5,"is_asset":true,"is_active":true}]`))
	})

	acc, err := c.GetAccount(context.Background(), "user-1", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.Name != "Wallet" || !acc.Balance.Equal(decimal.RequireFromString("125.5")) {
		t.Errorf("unexpected account: %+v", acc)
	}
}

func TestGetAccount_EmptyIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := c.GetAccount(context.Background(), "user-1", "missing")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReads_RetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	})

	goals, err := c.ListGoals(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(goals) != 0 || calls.Load() != 3 {
		t.Errorf("goals=%d calls=%d", len(goals), calls.Load())
	}
}

func TestInsert_NotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.InsertTransaction(context.Background(), &domain.Transaction{
		UserID: "user-1", AccountID: "acc-1", Amount: decimal.NewFromInt(10),
		Type: domain.TypeExpense, Date: domain.NewDate(2026, 10, 1),
	})
	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("insert attempted %d times, want 1", calls.Load())
	}
}

func TestConflictMapsToErrConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505"}`))
	})

	_, err := c.CreateBudget(context.Background(), &domain.Budget{UserID: "user-1", CategoryID: "cat-1"})
	var cf *domain.ErrConflict
	if !errors.As(err, &cf) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCompareAndSetDebtAmount_GuardMiss(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("amount"); got != "eq.-50" {
			t.Errorf("guard = %q", got)
		}
		w.Write([]byte(`[]`))
	})

	d := &domain.Debt{ID: "debt-1", UserID: "user-1", Amount: decimal.NewFromInt(-20)}
	ok, err := c.CompareAndSetDebtAmount(context.Background(), d, decimal.NewFromInt(-50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected guard miss")
	}
}

func TestCompareAndSetCheckIn_NullGuard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("last_active"); got != "is.null" {
			t.Errorf("guard = %q", got)
		}
		w.Write([]byte(`[{"user_id":"user-1"}]`))
	})

	s := &domain.UserStats{UserID: "user-1", Streak: 1, LastActive: domain.NewDate(2026, 10, 14)}
	ok, err := c.CompareAndSetCheckIn(context.Background(), s, domain.Date{})
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestGrantAchievement_IgnoresDuplicates(t *testing.T) {
	var granted atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("on_conflict") != "user_id,badge_id" {
			t.Errorf("on_conflict = %q", r.URL.Query().Get("on_conflict"))
		}
		if !strings.Contains(r.Header.Get("Prefer"), "ignore-duplicates") {
			t.Errorf("prefer = %q", r.Header.Get("Prefer"))
		}
		if granted.Swap(true) {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"user_id":"user-1","badge_id":"on_fire"}]`))
	})

	first, err := c.GrantAchievement(context.Background(), "user-1", domain.BadgeOnFire)
	if err != nil || !first {
		t.Fatalf("first grant: granted=%v err=%v", first, err)
	}
	second, err := c.GrantAchievement(context.Background(), "user-1", domain.BadgeOnFire)
	if err != nil || second {
		t.Fatalf("second grant: granted=%v err=%v", second, err)
	}
}

func TestRPC_SendsNamedArguments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/rpc/increment_balance" {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"p_account_id":"acc-1"`) || !strings.Contains(string(body), `"p_amount":-12.5`) {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.IncrementBalance(context.Background(), "acc-1", decimal.RequireFromString("-12.5")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotFoundDoesNotOpenBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	for i := 0; i < 30; i++ {
		_, err := c.GetDebt(context.Background(), "user-1", "missing")
		var open *domain.ErrCircuitOpen
		if errors.As(err, &open) {
			t.Fatalf("breaker opened after %d not-found reads", i)
		}
	}
}

func TestCompareAndSet_NotRetriedAfterCommit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The update lands, then the answer is lost.
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	d := &domain.Debt{ID: "debt-1", UserID: "user-1", Amount: decimal.NewFromInt(-20)}
	ok, err := c.CompareAndSetDebtAmount(context.Background(), d, decimal.NewFromInt(-50))
	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Fatalf("expected ErrExternalService, got ok=%v err=%v", ok, err)
	}
	if calls.Load() != 1 {
		t.Errorf("compare-and-set attempted %d times, want 1", calls.Load())
	}
}

func TestDeleteTransaction_ReportsMissingRow(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer = %q", got)
		}
		if calls.Load() == 1 {
			w.Write([]byte(`[{"id":"txn-1"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})

	if err := c.DeleteTransaction(context.Background(), "user-1", "txn-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.DeleteTransaction(context.Background(), "user-1", "txn-1")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
