package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository on PostgreSQL (usable with a
// pool or a tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the product adapter.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	id, sku, name, COALESCE(category, ''), COALESCE(unit, ''),
	unit_price, tax_rate, current_stock, min_stock, status,
	created_at, updated_at`

// Create inserts a product. current_stock starts at zero; it only moves
// through ledger appends.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, category, unit, unit_price,
			tax_rate, current_stock, min_stock, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name,
		nullIfEmpty(product.Category), nullIfEmpty(product.Unit),
		product.UnitPrice, product.TaxRate, product.MinStock,
		product.Status, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID returns the product or nil when it does not exist.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU returns the product or nil when it does not exist.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku))
}

// Update writes the mutable catalog fields. current_stock is
// deliberately not in the SET list.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, unit = $4, unit_price = $5,
			tax_rate = $6, min_stock = $7, status = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name,
		nullIfEmpty(product.Category), nullIfEmpty(product.Unit),
		product.UnitPrice, product.TaxRate, product.MinStock,
		product.Status, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns a page of products ordered by SKU.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListLowStock returns active products at or below their minimum.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE status = 'active' AND current_stock <= min_stock
		ORDER BY sku`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Delete removes a product.
func (r *ProductRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ReferentialIntegrityError{Entity: "product", ID: id}
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Unit,
		&p.UnitPrice, &p.TaxRate, &p.CurrentStock, &p.MinStock, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(rows pgx.Rows) ([]*entity.Product, error) {
	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Category, &p.Unit,
			&p.UnitPrice, &p.TaxRate, &p.CurrentStock, &p.MinStock, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
