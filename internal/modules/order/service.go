package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tkamanga/gostore-backend/internal/modules/user"
	"go.uber.org/zap"
)

// Service defines the order placement and lifecycle business logic. Every
// operation takes the acting identity explicitly; nothing reads an ambient
// session.
type Service interface {
	// CreateOrder validates the requested lines against current stock,
	// snapshots unit prices, reserves stock, and persists the order atomically.
	CreateOrder(ctx context.Context, username string, req CreateOrderRequest) (*Order, error)

	// GetOrder retrieves a single order if it is owned by the given user.
	// A foreign order is reported as not found.
	GetOrder(ctx context.Context, orderID, username string) (*Order, error)

	// ListMyOrders returns the caller's orders, newest-first.
	ListMyOrders(ctx context.Context, username string) ([]*Order, error)

	// ListUserOrders returns any user's orders, newest-first. Privileged.
	ListUserOrders(ctx context.Context, userID string) ([]*Order, error)

	// ListAllOrders returns every order, newest-first. Privileged.
	ListAllOrders(ctx context.Context) ([]*Order, error)

	// ListOrdersByStatus returns orders in one status, newest-first. Privileged.
	ListOrdersByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)

	// UpdateStatus advances an order along the status graph. Privileged.
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)

	// DeleteOrder restores every line's stock and removes the order. Privileged.
	DeleteOrder(ctx context.Context, orderID string) error
}

type service struct {
	repo     Repository
	userRepo user.Repository
	logger   *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, userRepo user.Repository, logger *zap.Logger) Service {
	return &service{repo: repo, userRepo: userRepo, logger: logger}
}

// validTransitions defines the allowed status state machine. DELIVERED and
// CANCELLED are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func (s *service) CreateOrder(ctx context.Context, username string, req CreateOrderRequest) (*Order, error) {
	u, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, err
	}

	if len(req.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	now := time.Now()
	o := &Order{
		ID:              uuid.New(),
		UserID:          u.ID,
		Username:        u.Username,
		OrderDate:       now,
		Status:          StatusPending,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Phase one: resolve every product and snapshot prices without touching
	// stock, so a failure on line k leaves nothing to undo.
	total := decimal.Zero
	for _, lr := range req.Lines {
		if lr.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, lr.ProductID)
		}
		p, err := s.repo.GetProduct(ctx, lr.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, lr.ProductID)
			}
			return nil, err
		}
		if p.StockQuantity < lr.Quantity {
			return nil, fmt.Errorf("%w: product %s has %d, requested %d",
				ErrInsufficientStock, p.Name, p.StockQuantity, lr.Quantity)
		}

		line := &OrderLine{
			ID:           uuid.New(),
			OrderID:      o.ID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.Base64Image,
			Quantity:     lr.Quantity,
			UnitPrice:    p.Price,
			TotalPrice:   p.Price.Mul(decimal.NewFromInt(int64(lr.Quantity))),
		}
		o.Lines = append(o.Lines, line)
		total = total.Add(line.TotalPrice)
	}
	o.TotalAmount = total

	// Phase two: the repository re-checks stock under row locks and commits
	// decrements + order + lines together, or nothing at all.
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("username", o.Username),
		zap.Int("lines", len(o.Lines)),
		zap.String("total_amount", o.TotalAmount.String()))
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, username string) (*Order, error) {
	o, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Ownership is hidden behind not-found on purpose.
	if o.Username != username {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return o, nil
}

func (s *service) ListMyOrders(ctx context.Context, username string) ([]*Order, error) {
	return s.repo.ListByUsername(ctx, username)
}

func (s *service) ListUserOrders(ctx context.Context, userID string) ([]*Order, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *service) ListAllOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListOrdersByStatus(ctx context.Context, status OrderStatus) ([]*Order, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	o, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[o.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = time.Now()

	s.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))
	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, orderID string) error {
	o, err := s.getOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, o); err != nil {
		return err
	}

	s.logger.Info("order deleted, stock restored",
		zap.String("order_id", orderID),
		zap.Int("lines", len(o.Lines)))
	return nil
}

func (s *service) getOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return o, nil
}
