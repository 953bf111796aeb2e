package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service defines catalog business logic for categories and products.
type Service interface {
	// Category operations
	CreateCategory(ctx context.Context, req CategoryRequest) (*Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Product operations
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	SearchProducts(ctx context.Context, name string, categoryIDs []string) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
}

// NewService creates a new catalog service.
func NewService(categoryRepo CategoryRepository, productRepo ProductRepository) Service {
	return &service{categoryRepo: categoryRepo, productRepo: productRepo}
}

func (s *service) CreateCategory(ctx context.Context, req CategoryRequest) (*Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	taken, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNameTaken, req.Name)
	}
	c := &Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCategory(ctx context.Context, id string) (*Category, error) {
	c, err := s.categoryRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return c, err
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *service) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != c.Name {
		taken, err := s.categoryRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNameTaken, req.Name)
		}
	}
	c.Name = req.Name
	c.Description = req.Description
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrCategoryInUse, id)
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidInput)
	}

	p := &Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Base64Image:   req.Base64Image,
	}
	if req.CategoryID != "" {
		c, err := s.GetCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &c.ID
		p.CategoryName = c.Name
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, err
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.productRepo.List(ctx)
}

func (s *service) SearchProducts(ctx context.Context, name string, categoryIDs []string) ([]*Product, error) {
	return s.productRepo.Search(ctx, name, categoryIDs)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidInput)
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.StockQuantity = req.StockQuantity
	p.Base64Image = req.Base64Image
	p.CategoryID = nil
	p.CategoryName = ""
	if req.CategoryID != "" {
		c, err := s.GetCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID = &c.ID
		p.CategoryName = c.Name
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
