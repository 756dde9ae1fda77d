package postgres

import (
	"context"
	"fmt"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implements SequenceRepository on PostgreSQL, delegating
// to the next_invoice_number SQL function. The function increments a
// per-prefix counter row and formats the result in one statement, so
// concurrent callers never see the same number.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository builds the sequence adapter.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) NextInvoiceNumber(prefix string, pad int) (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(),
		`SELECT next_invoice_number($1, $2)`, prefix, pad,
	).Scan(&number)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return number, nil
}
