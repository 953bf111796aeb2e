package catalog

import "context"

// CategoryRepository defines category data storage.
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	CountProducts(ctx context.Context, categoryID string) (int, error)
}

// ProductRepository defines product data storage.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)

	// Search filters by case-insensitive name substring and/or category ids;
	// empty arguments match everything.
	Search(ctx context.Context, name string, categoryIDs []string) ([]*Product, error)

	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
