package memstore

import (
	"context"
	"sort"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

func (s *Store) ListTransactions(ctx context.Context, userID string, f domain.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListTransactions"); err != nil {
		return nil, err
	}
	out := filter(s.transactions, func(t *domain.Transaction) bool {
		return t.UserID == userID && f.Match(t)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []domain.Transaction{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetTransaction"); err != nil {
		return nil, err
	}
	i := indexOf(s.transactions, func(t *domain.Transaction) bool { return t.ID == transactionID && t.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	t := s.transactions[i]
	return &t, nil
}

func (s *Store) InsertTransaction(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("InsertTransaction"); err != nil {
		return nil, err
	}
	t := *txn
	t.ID = newID(t.ID)
	if indexOf(s.transactions, func(o *domain.Transaction) bool { return o.ID == t.ID }) >= 0 {
		return nil, &domain.ErrConflict{Message: "resource already exists"}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.stamp()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	s.transactions = append(s.transactions, t)
	return &t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, userID, transactionID string, fields map[string]any) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateTransaction"); err != nil {
		return nil, err
	}
	i := indexOf(s.transactions, func(t *domain.Transaction) bool { return t.ID == transactionID && t.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	if err := overlay(&s.transactions[i], fields); err != nil {
		return nil, err
	}
	t := s.transactions[i]
	return &t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeleteTransaction"); err != nil {
		return err
	}
	i := indexOf(s.transactions, func(t *domain.Transaction) bool { return t.ID == transactionID && t.UserID == userID })
	if i < 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: transactionID}
	}
	s.transactions = removeAt(s.transactions, i)
	return nil
}
