package catalog

import "errors"

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrCategoryInUse     = errors.New("category has products and cannot be deleted")
	ErrInvalidInput      = errors.New("invalid input")
)
