package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implements LedgerRepository on PostgreSQL.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository builds the ledger adapter.
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserts the entry and bumps the product's cached stock in a
// single statement, so the entry and the counter cannot drift apart.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	query := `
		WITH ins AS (
			INSERT INTO stock_ledger_entries
				(id, product_id, entry_type, quantity_delta, unit_cost, reference_no, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING product_id, quantity_delta
		)
		UPDATE products p
		SET current_stock = p.current_stock + ins.quantity_delta,
			updated_at = now()
		FROM ins
		WHERE p.id = ins.product_id`

	unitCost := decimal.NullDecimal{}
	if entry.UnitCost != nil {
		unitCost = decimal.NullDecimal{Decimal: *entry.UnitCost, Valid: true}
	}
	tag, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.Type, entry.QuantityDelta,
		unitCost, nullIfEmpty(entry.ReferenceNo), nullIfEmpty(entry.Notes),
		entry.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct returns the product's entries oldest first.
func (r *LedgerRepo) ListByProduct(productID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, entry_type, quantity_delta, unit_cost,
			COALESCE(reference_no, ''), COALESCE(notes, ''), created_at
		FROM stock_ledger_entries
		WHERE product_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var unitCost decimal.NullDecimal
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.Type, &e.QuantityDelta, &unitCost,
			&e.ReferenceNo, &e.Notes, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if unitCost.Valid {
			e.UnitCost = &unitCost.Decimal
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// CountByProduct returns how many entries reference the product.
func (r *LedgerRepo) CountByProduct(productID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stock_ledger_entries WHERE product_id = $1`, productID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return count, nil
}
