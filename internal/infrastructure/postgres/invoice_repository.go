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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository on PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the invoice adapter.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, invoice_number, COALESCE(customer_id::text, ''),
	COALESCE(guest_name, ''), COALESCE(guest_phone, ''), invoice_date,
	subtotal, tax_amount, total_amount, COALESCE(notes, ''),
	created_at, updated_at`

func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, customer_id, guest_name,
			guest_phone, invoice_date, subtotal, tax_amount, total_amount,
			notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber,
		nullIfEmpty(invoice.CustomerID),
		nullIfEmpty(invoice.GuestName), nullIfEmpty(invoice.GuestPhone),
		invoice.InvoiceDate, invoice.Subtotal, invoice.TaxAmount,
		invoice.TotalAmount, nullIfEmpty(invoice.Notes),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, description,
			quantity, unit_price, tax_rate, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, nullIfEmpty(item.ProductID),
		item.Description, item.Quantity, item.UnitPrice, item.TaxRate,
		item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("create invoice item: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $2, guest_name = $3, guest_phone = $4,
			invoice_date = $5, subtotal = $6, tax_amount = $7,
			total_amount = $8, notes = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, nullIfEmpty(invoice.CustomerID),
		nullIfEmpty(invoice.GuestName), nullIfEmpty(invoice.GuestPhone),
		invoice.InvoiceDate, invoice.Subtotal, invoice.TaxAmount,
		invoice.TotalAmount, nullIfEmpty(invoice.Notes), invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID,
		&inv.GuestName, &inv.GuestPhone, &inv.InvoiceDate,
		&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, COALESCE(product_id::text, ''), description,
			quantity, unit_price, tax_rate, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TaxRate, &it.LineTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *InvoiceRepo) DeleteItems(invoiceID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// Delete removes the invoice; items go with it via ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices ORDER BY created_at DESC, invoice_number DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.CustomerID,
			&inv.GuestName, &inv.GuestPhone, &inv.InvoiceDate,
			&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.Notes,
			&inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, &inv)
	}
	return out, rows.Err()
}

// LatestNumber returns the most recently created number with the
// prefix, or "" when none exists.
func (r *InvoiceRepo) LatestNumber(prefix string) (string, error) {
	query := `
		SELECT invoice_number FROM invoices
		WHERE invoice_number LIKE $1 || '-%'
		ORDER BY created_at DESC, invoice_number DESC
		LIMIT 1`
	var number string
	err := r.q.QueryRow(context.Background(), query, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest invoice number: %w", err)
	}
	return number, nil
}

const referenceSampleSize = 3

func (r *InvoiceRepo) CountItemsByProduct(productID string) (repository.ProductReference, error) {
	var ref repository.ProductReference
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM invoice_items WHERE product_id = $1`, productID,
	).Scan(&ref.Count)
	if err != nil {
		return ref, fmt.Errorf("count invoice items: %w", err)
	}
	if ref.Count == 0 {
		return ref, nil
	}

	query := `
		SELECT DISTINCT i.invoice_number
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id
		WHERE it.product_id = $1
		ORDER BY i.invoice_number
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, productID, referenceSampleSize)
	if err != nil {
		return ref, fmt.Errorf("sample invoice numbers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return ref, fmt.Errorf("scan invoice number: %w", err)
		}
		ref.Sample = append(ref.Sample, number)
	}
	return ref, rows.Err()
}

func (r *InvoiceRepo) CountByCustomer(customerID string) (repository.ProductReference, error) {
	var ref repository.ProductReference
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM invoices WHERE customer_id = $1`, customerID,
	).Scan(&ref.Count)
	if err != nil {
		return ref, fmt.Errorf("count invoices by customer: %w", err)
	}
	if ref.Count == 0 {
		return ref, nil
	}

	query := `
		SELECT invoice_number FROM invoices
		WHERE customer_id = $1
		ORDER BY invoice_number
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, customerID, referenceSampleSize)
	if err != nil {
		return ref, fmt.Errorf("sample invoice numbers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return ref, fmt.Errorf("scan invoice number: %w", err)
		}
		ref.Sample = append(ref.Sample, number)
	}
	return ref, rows.Err()
}
