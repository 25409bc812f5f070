package service

import (
	"context"
	"strings"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Categories
// ============================================================

// ListCategories seeds the default set the first time an owner has none.
func (s *FinanceService) ListCategories(ctx context.Context, userID, categoryType string) ([]domain.Category, error) {
	ctx, end := s.startOp(ctx, "ListCategories", userID)
	defer end()

	cats, err := s.store.ListCategories(ctx, userID, categoryType)
	if err != nil || len(cats) > 0 {
		return cats, err
	}
	if categoryType != "" {
		all, err := s.store.ListCategories(ctx, userID, "")
		if err != nil || len(all) > 0 {
			return cats, err
		}
	}
	if err := s.store.CreateDefaultCategories(ctx, userID); err != nil {
		return nil, err
	}
	s.logger.Info("default categories seeded", zap.String("user_id", userID))
	return s.store.ListCategories(ctx, userID, categoryType)
}

func (s *FinanceService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, end := s.startOp(ctx, "CreateCategory", category.UserID)
	defer end()

	category.Name = strings.TrimSpace(category.Name)
	if err := s.checkCategoryName(ctx, category.UserID, category.Name, ""); err != nil {
		return nil, err
	}
	return s.store.CreateCategory(ctx, category)
}

func (s *FinanceService) UpdateCategory(ctx context.Context, userID, categoryID string, patch domain.CategoryPatch) (*domain.Category, error) {
	ctx, end := s.startOp(ctx, "UpdateCategory", userID)
	defer end()

	existing, err := s.store.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		if err := s.checkCategoryName(ctx, userID, name, categoryID); err != nil {
			return nil, err
		}
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return existing, nil
	}
	return s.store.UpdateCategory(ctx, userID, categoryID, fields)
}

func (s *FinanceService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	ctx, end := s.startOp(ctx, "DeleteCategory", userID)
	defer end()

	if _, err := s.store.GetCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	return s.store.DeleteCategory(ctx, userID, categoryID)
}

// checkCategoryName rejects a name another category of the owner already uses.
func (s *FinanceService) checkCategoryName(ctx context.Context, userID, name, exceptID string) error {
	all, err := s.store.ListCategories(ctx, userID, "")
	if err != nil {
		return err
	}
	if domain.FindCategoryByName(all, name, exceptID) != nil {
		return &domain.ErrConflict{Message: "Category with this name already exists"}
	}
	return nil
}
