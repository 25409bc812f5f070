package memstore

import (
	"context"
	"sort"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

func (s *Store) UpsertNetWorthSnapshot(ctx context.Context, snapshot *domain.NetWorthSnapshot) (*domain.NetWorthSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpsertNetWorthSnapshot"); err != nil {
		return nil, err
	}
	i := indexOf(s.snapshots, func(n *domain.NetWorthSnapshot) bool {
		return n.UserID == snapshot.UserID && n.Month.Equal(snapshot.Month)
	})
	if i >= 0 {
		s.snapshots[i].NetWorthBreakdown = snapshot.NetWorthBreakdown
		out := s.snapshots[i]
		return &out, nil
	}
	row := *snapshot
	row.ID = newID(row.ID)
	row.CreatedAt = s.stamp()
	s.snapshots = append(s.snapshots, row)
	return &row, nil
}

func (s *Store) ListNetWorthHistory(ctx context.Context, userID string, since domain.Date) ([]domain.NetWorthSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListNetWorthHistory"); err != nil {
		return nil, err
	}
	out := filter(s.snapshots, func(n *domain.NetWorthSnapshot) bool {
		return n.UserID == userID && !n.Month.Before(since)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}
