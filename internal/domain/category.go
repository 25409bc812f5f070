package domain

import (
	"strings"
	"time"
)

// Transaction / category kinds.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Category labels transactions. Names are unique per owner, ignoring case.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryPatch lists the mutable category fields.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,max=20"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=50"`
	Type  *string `json:"type,omitempty" validate:"omitempty,oneof=income expense transfer"`
}

func (p *CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
}

func (p *CategoryPatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Color != nil {
		m["color"] = *p.Color
	}
	if p.Icon != nil {
		m["icon"] = *p.Icon
	}
	if p.Type != nil {
		m["type"] = *p.Type
	}
	return m
}

// FindCategoryByName returns the category whose name matches case-insensitively,
// skipping the category with id exceptID.
func FindCategoryByName(categories []Category, name, exceptID string) *Category {
	name = strings.TrimSpace(name)
	for i := range categories {
		if categories[i].ID == exceptID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(categories[i].Name), name) {
			return &categories[i]
		}
	}
	return nil
}

// DefaultCategories is the starter set seeded for new owners.
// The Supabase procedure create_default_categories seeds the same rows.
var DefaultCategories = []Category{
	{Name: "Salary", Type: TypeIncome, Color: "#22c55e", Icon: "briefcase"},
	{Name: "Freelance", Type: TypeIncome, Color: "#14b8a6", Icon: "laptop"},
	{Name: "Investments", Type: TypeIncome, Color: "#0ea5e9", Icon: "trending-up"},
	{Name: "Food & Drinks", Type: TypeExpense, Color: "#f97316", Icon: "utensils"},
	{Name: "Transportation", Type: TypeExpense, Color: "#3b82f6", Icon: "car"},
	{Name: "Shopping", Type: TypeExpense, Color: "#ec4899", Icon: "shopping-bag"},
	{Name: "Bills & Utilities", Type: TypeExpense, Color: "#eab308", Icon: "receipt"},
	{Name: "Entertainment", Type: TypeExpense, Color: "#8b5cf6", Icon: "film"},
	{Name: "Health", Type: TypeExpense, Color: "#ef4444", Icon: "heart-pulse"},
	{Name: "Education", Type: TypeExpense, Color: "#6366f1", Icon: "graduation-cap"},
	{Name: "Transfer", Type: TypeTransfer, Color: "#64748b", Icon: "repeat"},
}
