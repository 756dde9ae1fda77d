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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implements CustomerRepository on PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository builds the customer adapter.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `
	id, name, COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(gstin, ''), COALESCE(address, ''), created_at, updated_at`

func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, email, gstin, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name,
		nullIfEmpty(customer.Phone), nullIfEmpty(customer.Email),
		nullIfEmpty(customer.GSTIN), nullIfEmpty(customer.Address),
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	var c entity.Customer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.GSTIN, &c.Address,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, gstin = $5, address = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name,
		nullIfEmpty(customer.Phone), nullIfEmpty(customer.Email),
		nullIfEmpty(customer.GSTIN), nullIfEmpty(customer.Address),
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email, &c.GSTIN, &c.Address,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CustomerRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ReferentialIntegrityError{Entity: "customer", ID: id}
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
