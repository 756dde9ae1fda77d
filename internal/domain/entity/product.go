package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product status values.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product is a catalog item. UnitPrice is the tax-inclusive list price;
// TaxRate is the GST percentage applied when the product is invoiced.
// CurrentStock is derived: it must equal the sum of quantity deltas of
// every ledger entry for the product, and is only ever adjusted as a
// side effect of a ledger append.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Category     string
	Unit         string
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal // percent: 0, 5, 12, 18, 28
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
