package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

func (s *Store) ListCategories(ctx context.Context, userID, categoryType string) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListCategories"); err != nil {
		return nil, err
	}
	out := filter(s.categories, func(c *domain.Category) bool {
		return c.UserID == userID && (categoryType == "" || c.Type == categoryType)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetCategory"); err != nil {
		return nil, err
	}
	i := indexOf(s.categories, func(c *domain.Category) bool { return c.ID == categoryID && c.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "category", ID: categoryID}
	}
	c := s.categories[i]
	return &c, nil
}

// nameTaken enforces the unique (user_id, lower(name)) index. Callers hold s.mu.
func (s *Store) nameTaken(userID, name, exceptID string) bool {
	return indexOf(s.categories, func(c *domain.Category) bool {
		return c.UserID == userID && c.ID != exceptID &&
			strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name))
	}) >= 0
}

func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateCategory"); err != nil {
		return nil, err
	}
	if s.nameTaken(category.UserID, category.Name, "") {
		return nil, &domain.ErrConflict{Message: "resource already exists"}
	}
	c := *category
	c.ID = newID(c.ID)
	c.CreatedAt = s.stamp()
	s.categories = append(s.categories, c)
	return &c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, userID, categoryID string, fields map[string]any) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("UpdateCategory"); err != nil {
		return nil, err
	}
	i := indexOf(s.categories, func(c *domain.Category) bool { return c.ID == categoryID && c.UserID == userID })
	if i < 0 {
		return nil, &domain.ErrNotFound{Resource: "category", ID: categoryID}
	}
	updated := s.categories[i]
	if err := overlay(&updated, fields); err != nil {
		return nil, err
	}
	if s.nameTaken(userID, updated.Name, categoryID) {
		return nil, &domain.ErrConflict{Message: "resource already exists"}
	}
	s.categories[i] = updated
	return &updated, nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("DeleteCategory"); err != nil {
		return err
	}
	if i := indexOf(s.categories, func(c *domain.Category) bool { return c.ID == categoryID && c.UserID == userID }); i >= 0 {
		s.categories = removeAt(s.categories, i)
	}
	return nil
}

// CreateDefaultCategories mirrors create_default_categories(p_user_id):
// names the owner already has are skipped.
func (s *Store) CreateDefaultCategories(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("CreateDefaultCategories"); err != nil {
		return err
	}
	for _, tmpl := range domain.DefaultCategories {
		if s.nameTaken(userID, tmpl.Name, "") {
			continue
		}
		c := tmpl
		c.ID = newID("")
		c.UserID = userID
		c.CreatedAt = s.stamp()
		s.categories = append(s.categories, c)
	}
	return nil
}
