package domain

import "context"

// Category is a predefined event category. Categories are operator-seeded,
// not created by end users, and sort alphabetically for dropdowns.
// swagger:model Category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines the interface for category storage.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	// Delete fails with ErrCategoryInUse while any event references the category.
	Delete(ctx context.Context, id string) error
}

// CategoryService defines category operations exposed over HTTP.
type CategoryService interface {
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id string) error
}
