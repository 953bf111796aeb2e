package catalog

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*Category
	products   *fakeProductRepo
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*Category, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	c, ok := f.categories[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*Category, error) {
	var out []*Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	uid, _ := uuid.Parse(id)
	delete(f.categories, uid)
	return nil
}

func (f *fakeCategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range f.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryRepo) CountProducts(ctx context.Context, categoryID string) (int, error) {
	count := 0
	for _, p := range f.products.products {
		if p.CategoryID != nil && p.CategoryID.String() == categoryID {
			count++
		}
	}
	return count, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*Product
}

func (f *fakeProductRepo) Create(ctx context.Context, p *Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	p, ok := f.products[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeProductRepo) List(ctx context.Context) ([]*Product, error) {
	var out []*Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Search(ctx context.Context, name string, categoryIDs []string) ([]*Product, error) {
	var out []*Product
	for _, p := range f.products {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			continue
		}
		if len(categoryIDs) > 0 {
			matched := false
			for _, id := range categoryIDs {
				if p.CategoryID != nil && p.CategoryID.String() == id {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	uid, _ := uuid.Parse(id)
	delete(f.products, uid)
	return nil
}

func newTestService() (Service, *fakeCategoryRepo, *fakeProductRepo) {
	products := &fakeProductRepo{products: make(map[uuid.UUID]*Product)}
	categories := &fakeCategoryRepo{categories: make(map[uuid.UUID]*Category), products: products}
	return NewService(categories, products), categories, products
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, CategoryRequest{Name: "Electronics"})
	assert.ErrorIs(t, err, ErrCategoryNameTaken)
}

func TestDeleteCategory_InUse(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, ProductRequest{
		Name:       "keyboard",
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: c.ID.String(),
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, c.ID.String())
	assert.ErrorIs(t, err, ErrCategoryInUse)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.GetProduct(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductRequest{
		Name:  "keyboard",
		Price: decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "price")

	_, err = svc.CreateProduct(ctx, ProductRequest{
		Name:          "keyboard",
		Price:         decimal.RequireFromString("1.00"),
		StockQuantity: -5,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "stock_quantity")

	_, err = svc.CreateProduct(ctx, ProductRequest{
		Price: decimal.RequireFromString("1.00"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(ctx, ProductRequest{
		Name:       "keyboard",
		Price:      decimal.RequireFromString("1.00"),
		CategoryID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSearchProducts(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Peripherals"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, ProductRequest{
		Name: "Mechanical Keyboard", Price: decimal.RequireFromString("49.99"),
		StockQuantity: 10, CategoryID: c.ID.String(),
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, ProductRequest{
		Name: "Desk Lamp", Price: decimal.RequireFromString("15.00"), StockQuantity: 4,
	})
	require.NoError(t, err)

	found, err := svc.SearchProducts(ctx, "keyboard", nil)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.SearchProducts(ctx, "", []string{c.ID.String()})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
