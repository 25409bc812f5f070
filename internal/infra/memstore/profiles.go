package memstore

import (
	"context"
	"sort"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetProfile"); err != nil {
		return nil, err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "profile", ID: userID}
	}
	return &p, nil
}

func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateProfile"); err != nil {
		return nil, false, err
	}
	if p, ok := s.profiles[profile.UserID]; ok {
		return &p, false, nil
	}
	p := *profile
	s.profiles[p.UserID] = p
	return &p, true, nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateProfile"); err != nil {
		return nil, err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "profile", ID: userID}
	}
	if err := overlay(&p, fields); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.stamp()
	s.profiles[userID] = p
	return &p, nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListUserIDs"); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
