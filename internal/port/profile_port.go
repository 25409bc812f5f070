package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// ProfileStore handles user profiles.
type ProfileStore interface {
	// GetProfile returns ErrNotFound when the owner has no profile yet.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	// CreateProfile inserts the profile. It reports created=false when one already existed.
	CreateProfile(ctx context.Context, profile *domain.Profile) (p *domain.Profile, created bool, err error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*domain.Profile, error)
	// ListUserIDs returns every known owner.
	ListUserIDs(ctx context.Context) ([]string, error)
}
