package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInfo is the slice of a product record the placement engine needs:
// current price for the snapshot, stock for the pre-check, name and image for
// the response view.
type ProductInfo struct {
	ID            uuid.UUID
	Name          string
	Base64Image   string
	Price         decimal.Decimal
	StockQuantity int
}

// Repository defines data access for orders and the stock mutations that
// belong to them.
type Repository interface {
	// GetProduct resolves a product for line validation. Returns sql.ErrNoRows
	// when absent.
	GetProduct(ctx context.Context, productID string) (*ProductInfo, error)

	// CreateOrder reserves stock for every line and persists the order with
	// its lines in one transaction. Any line whose reservation fails aborts
	// the whole transaction with ErrInsufficientStock; no decrement and no
	// order row survive.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its lines.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// ListByUserID returns a user's orders, newest-first by order date.
	ListByUserID(ctx context.Context, userID string) ([]*Order, error)

	// ListByUsername returns a user's orders, newest-first by order date.
	ListByUsername(ctx context.Context, username string) ([]*Order, error)

	// ListAll returns every order, newest-first by order date.
	ListAll(ctx context.Context) ([]*Order, error)

	// ListByStatus returns orders in a given status, newest-first.
	ListByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)

	// UpdateStatus overwrites an order's status.
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error

	// DeleteOrder restores stock for every line of the given order and then
	// removes the order and its lines, all in one transaction.
	DeleteOrder(ctx context.Context, o *Order) error
}
