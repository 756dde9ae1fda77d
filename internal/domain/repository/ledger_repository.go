package repository

import "github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"

// LedgerRepository is the persistence port for the append-only stock
// ledger. Append must also bump the owning product's cached
// current_stock by the entry's delta, atomically with the insert, so an
// entry and its counter update cannot drift apart. There is no Update
// or Delete: the ledger is immutable.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	// ListByProduct returns entries ordered by creation time, oldest
	// first, for running-balance computation and audit display.
	ListByProduct(productID string) ([]*entity.LedgerEntry, error)
	CountByProduct(productID string) (int, error)
}
