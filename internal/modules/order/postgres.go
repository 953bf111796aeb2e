package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetProduct(ctx context.Context, productID string) (*ProductInfo, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	p := &ProductInfo{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, base64_image, price, stock_quantity
		FROM products WHERE id=$1`, uid).
		Scan(&p.ID, &p.Name, &p.Base64Image, &p.Price, &p.StockQuantity)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateOrder reserves stock and inserts the order and its lines inside a
// single transaction. The conditional UPDATE serializes competing
// reservations through Postgres row locks; a zero rows-affected result means
// another transaction got there first, and the rollback undoes every
// decrement already applied for earlier lines.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, line := range o.Lines {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			WHERE id = $2 AND stock_quantity >= $1`,
			line.Quantity, line.ProductID)
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, line.ProductID)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, user_id, order_date, status, total_amount, shipping_address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.UserID, o.OrderDate, o.Status, o.TotalAmount,
		o.ShippingAddress, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, line := range o.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_lines
			  (id, order_id, product_id, position, quantity, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			line.ID, o.ID, line.ProductID, i,
			line.Quantity, line.UnitPrice, line.TotalPrice)
		if err != nil {
			return fmt.Errorf("insert order_line: %w", err)
		}
	}

	return tx.Commit()
}

const orderColumns = `o.id, o.user_id, u.username, o.order_date, o.status,
       o.total_amount, o.shipping_address, o.created_at, o.updated_at`

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.id=$1`, uid).Scan)
	if err != nil {
		return nil, err
	}
	o.Lines, err = r.listLines(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListByUserID(ctx context.Context, userID string) ([]*Order, error) {
	// A malformed id matches no user; reject it here rather than let the
	// uuid-typed column turn it into a query error.
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.user_id=$1
		ORDER BY o.order_date DESC, o.id ASC`, uid)
}

func (r *postgresRepo) ListByUsername(ctx context.Context, username string) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE u.username=$1
		ORDER BY o.order_date DESC, o.id ASC`, username)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		ORDER BY o.order_date DESC, o.id ASC`)
}

func (r *postgresRepo) ListByStatus(ctx context.Context, status OrderStatus) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o JOIN users u ON u.id = o.user_id
		WHERE o.status=$1
		ORDER BY o.order_date DESC, o.id ASC`, status)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`,
		status, id)
	return err
}

// DeleteOrder restores stock for every line and removes the order in one
// transaction. Restoration is unconditional: it adds back exactly the
// quantity reserved at creation, whatever has happened to the price since.
func (r *postgresRepo) DeleteOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, line := range o.Lines {
		_, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + $1, updated_at = NOW()
			WHERE id = $2`,
			line.Quantity, line.ProductID)
		if err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id=$1`, o.ID); err != nil {
		return fmt.Errorf("delete order_lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, o.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	return tx.Commit()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	err := scan(&o.ID, &o.UserID, &o.Username, &o.OrderDate, &o.Status,
		&o.TotalAmount, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.Lines, err = r.listLines(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) listLines(ctx context.Context, orderID uuid.UUID) ([]*OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.order_id, l.product_id,
		       COALESCE(p.name, ''), COALESCE(p.base64_image, ''),
		       l.quantity, l.unit_price, l.total_price
		FROM order_lines l LEFT JOIN products p ON p.id = l.product_id
		WHERE l.order_id=$1 ORDER BY l.position ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*OrderLine
	for rows.Next() {
		line := &OrderLine{}
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID,
			&line.ProductName, &line.ProductImage,
			&line.Quantity, &line.UnitPrice, &line.TotalPrice); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
