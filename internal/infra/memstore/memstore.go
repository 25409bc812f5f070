// Package memstore is an in-process implementation of port.Store used for
// local development (STORE_BACKEND=memory) and tests. It mirrors the
// PostgREST adapter's semantics, including the stored procedures, the
// compare-and-swap guards and the unique constraints.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/port"

	"github.com/google/uuid"
)

var _ port.Store = (*Store)(nil)

// Store keeps every table in memory behind one mutex.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	faults map[string][]error

	accounts      []domain.Account
	categories    []domain.Category
	transactions  []domain.Transaction
	budgets       []domain.Budget
	goals         []domain.SavingsGoal
	contributions []domain.GoalContribution
	debts         []domain.Debt
	payments      []domain.DebtPayment
	stats         map[string]domain.UserStats
	achievements  []domain.Achievement
	snapshots     []domain.NetWorthSnapshot
	profiles      map[string]domain.Profile
}

// New creates an empty store. A nil clock means time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:      now,
		faults:   map[string][]error{},
		stats:    map[string]domain.UserStats{},
		profiles: map[string]domain.Profile{},
	}
}

// FailNext makes the next call of the named operation (the method name,
// e.g. "IncrementBalance") return err without touching state. Calls queue up.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], err)
}

// fault pops a queued failure for op. Callers hold s.mu.
func (s *Store) fault(op string) error {
	q := s.faults[op]
	if len(q) == 0 {
		return nil
	}
	s.faults[op] = q[1:]
	return q[0]
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault("Ping")
}

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// indexOf returns the position of the first row matching, or -1.
func indexOf[T any](rows []T, match func(*T) bool) int {
	for i := range rows {
		if match(&rows[i]) {
			return i
		}
	}
	return -1
}

// filter copies the rows matching.
func filter[T any](rows []T, match func(*T) bool) []T {
	out := []T{}
	for i := range rows {
		if match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

func removeAt[T any](rows []T, i int) []T {
	return append(rows[:i], rows[i+1:]...)
}

// overlay applies a column map onto row the way a PATCH would: every key is
// a JSON column name, values are encoded with the row's own JSON rules.
func overlay[T any](row *T, fields map[string]any) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	cols := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &cols); err != nil {
		return err
	}
	for k, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		cols[k] = b
	}
	merged, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return err
	}
	*row = out
	return nil
}

// byCreated sorts rows by their creation time, oldest first, keeping
// insertion order for ties.
func byCreated[T any](rows []T, created func(*T) time.Time, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := created(&rows[i]), created(&rows[j])
		if desc {
			return a.After(b)
		}
		return a.Before(b)
	})
}
