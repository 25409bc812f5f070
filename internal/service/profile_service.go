package service

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// User profile
// ============================================================

// GetProfile returns the owner's profile, creating the default one on first
// read. Creation also seeds the default categories.
func (s *FinanceService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, end := s.startOp(ctx, "GetProfile", userID)
	defer end()

	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	p, created, err := s.store.CreateProfile(ctx, domain.DefaultProfile(userID, s.now()))
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("profile created", zap.String("user_id", userID))
		if err := s.store.CreateDefaultCategories(ctx, userID); err != nil {
			s.logger.Warn("default category seeding failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return p, nil
}

func (s *FinanceService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	ctx, end := s.startOp(ctx, "UpdateProfile", userID)
	defer end()

	existing, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return existing, nil
	}
	return s.store.UpdateProfile(ctx, userID, fields)
}
