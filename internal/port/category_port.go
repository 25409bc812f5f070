package port

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// CategoryStore handles category data operations.
type CategoryStore interface {
	// ListCategories returns the owner's categories, filtered by type when categoryType is set.
	ListCategories(ctx context.Context, userID, categoryType string) ([]domain.Category, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, fields map[string]any) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error

	// CreateDefaultCategories seeds the starter set (create_default_categories).
	CreateDefaultCategories(ctx context.Context, userID string) error
}
