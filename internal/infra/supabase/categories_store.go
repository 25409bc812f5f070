package supabase

import (
	"context"

	"github.com/boddenberg/spendwise-api/internal/domain"
)

// ============================================================
// Categories
// ============================================================

func (c *Client) ListCategories(ctx context.Context, userID, categoryType string) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCategories")
	defer span.End()

	q := from("categories").eq("user_id", userID).order("name.asc")
	if categoryType != "" {
		q.eq("type", categoryType)
	}
	return list[domain.Category](ctx, c, q, "category")
}

func (c *Client) GetCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCategory")
	defer span.End()

	q := from("categories").eq("user_id", userID).eq("id", categoryID)
	return getOne[domain.Category](ctx, c, q, "category", categoryID)
}

func (c *Client) CreateCategory(ctx context.Context, cat *domain.Category) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCategory")
	defer span.End()

	row := withID(map[string]any{
		"user_id": cat.UserID,
		"name":    cat.Name,
		"color":   cat.Color,
		"icon":    cat.Icon,
		"type":    cat.Type,
	}, cat.ID)
	return insert[domain.Category](ctx, c, "categories", "category", row)
}

func (c *Client) UpdateCategory(ctx context.Context, userID, categoryID string, fields map[string]any) (*domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateCategory")
	defer span.End()

	q := from("categories").eq("user_id", userID).eq("id", categoryID)
	return patch[domain.Category](ctx, c, q, "category", categoryID, fields)
}

func (c *Client) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteCategory")
	defer span.End()

	return remove(ctx, c, from("categories").eq("user_id", userID).eq("id", categoryID), "category")
}

// CreateDefaultCategories calls create_default_categories(p_user_id).
func (c *Client) CreateDefaultCategories(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateDefaultCategories")
	defer span.End()

	return rpc(ctx, c, "create_default_categories", map[string]any{"p_user_id": userID})
}
