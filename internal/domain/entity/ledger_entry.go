package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock ledger entry types. Sign convention: purchase and return carry a
// positive delta, sale a negative one; adjustment may be either sign and
// is used for corrections (invoice edits, deletions, manual fixes).
const (
	EntryTypePurchase   = "purchase"
	EntryTypeSale       = "sale"
	EntryTypeAdjustment = "adjustment"
	EntryTypeReturn     = "return"
)

// LedgerEntry is one immutable record of a stock quantity change.
// Entries are append-only: never updated, never deleted.
type LedgerEntry struct {
	ID            string
	ProductID     string
	Type          string
	QuantityDelta decimal.Decimal
	UnitCost      *decimal.Decimal
	ReferenceNo   string // e.g. the invoice number that caused the entry
	Notes         string
	CreatedAt     time.Time
}

// Reduces reports whether the entry removes stock.
func (e *LedgerEntry) Reduces() bool {
	return e.QuantityDelta.IsNegative()
}
