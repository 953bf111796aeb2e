package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type categoryPostgresRepo struct{ db *sql.DB }

// NewCategoryPostgresRepository creates a new PostgreSQL category repository.
func NewCategoryPostgresRepository(db *sql.DB) CategoryRepository {
	return &categoryPostgresRepo{db: db}
}

func (r *categoryPostgresRepo) Create(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.Description)
	return err
}

func (r *categoryPostgresRepo) GetByID(ctx context.Context, id string) (*Category, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	c := &Category{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories WHERE id=$1`, uid).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryPostgresRepo) List(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryPostgresRepo) Update(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name=$1, description=$2, updated_at=NOW()
		WHERE id=$3`,
		c.Name, c.Description, c.ID)
	return err
}

func (r *categoryPostgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return err
}

func (r *categoryPostgresRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *categoryPostgresRepo) CountProducts(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

type productPostgresRepo struct{ db *sql.DB }

// NewProductPostgresRepository creates a new PostgreSQL product repository.
func NewProductPostgresRepository(db *sql.DB) ProductRepository {
	return &productPostgresRepo{db: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.stock_quantity,
       p.category_id, COALESCE(c.name, ''), p.base64_image, p.created_at, p.updated_at`

func (r *productPostgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, stock_quantity, category_id, base64_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.Price, p.StockQuantity, p.CategoryID, p.Base64Image)
	return err
}

func (r *productPostgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id=$1`, uid)
	return scanProduct(row.Scan)
}

func (r *productPostgresRepo) List(ctx context.Context) ([]*Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+`
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC`)
}

func (r *productPostgresRepo) Search(ctx context.Context, name string, categoryIDs []string) ([]*Product, error) {
	query := `SELECT ` + productColumns + `
	          FROM products p LEFT JOIN categories c ON c.id = p.category_id
	          WHERE 1=1`
	args := []interface{}{}
	n := 1
	if name != "" {
		query += fmt.Sprintf(` AND p.name ILIKE $%d`, n)
		args = append(args, "%"+name+"%")
		n++
	}
	if len(categoryIDs) > 0 {
		query += fmt.Sprintf(` AND p.category_id = ANY($%d::uuid[])`, n)
		args = append(args, pq.Array(categoryIDs))
	}
	query += ` ORDER BY p.created_at DESC`
	return r.queryProducts(ctx, query, args...)
}

func (r *productPostgresRepo) Update(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, stock_quantity=$4,
		    category_id=$5, base64_image=$6, updated_at=NOW()
		WHERE id=$7`,
		p.Name, p.Description, p.Price, p.StockQuantity, p.CategoryID, p.Base64Image, p.ID)
	return err
}

func (r *productPostgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var categoryID sql.NullString
	err := scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity,
		&categoryID, &p.CategoryName, &p.Base64Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		uid, _ := uuid.Parse(categoryID.String)
		p.CategoryID = &uid
	}
	return p, nil
}

func (r *productPostgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
