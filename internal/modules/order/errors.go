package order

import "errors"

var (
	// ErrOrderNotFound covers both a missing order and an order owned by a
	// different user; callers cannot tell the two apart.
	ErrOrderNotFound = errors.New("order not found")

	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is a business-rule violation, deliberately distinct
	// from the not-found errors.
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyOrder        = errors.New("order must contain at least one line")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
)
