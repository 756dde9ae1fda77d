package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the header of a tax invoice. InvoiceNumber is unique and
// monotonically increasing in the format PREFIX-NNNN. Either CustomerID
// points at a customer record or the Guest* fields carry an inline
// walk-in identity; the two are mutually exclusive.
// Subtotal is the aggregate taxable value, TaxAmount the aggregate GST,
// TotalAmount the sum of tax-inclusive line totals.
type Invoice struct {
	ID            string
	InvoiceNumber string
	CustomerID    string // empty for guest invoices
	GuestName     string
	GuestPhone    string
	InvoiceDate   time.Time
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceItem is one line of an invoice. ProductID is empty for custom
// one-off lines, which never touch stock. UnitPrice and TaxRate are
// captured at invoice time and stay fixed when the product changes
// later. On edit the whole item set of an invoice is replaced, not
// patched row by row.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	ProductID   string // empty = custom line
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // tax-inclusive
	TaxRate     decimal.Decimal // percent
	LineTotal   decimal.Decimal // Quantity * UnitPrice
}

// HasProduct reports whether the line is backed by a catalog product.
func (it *InvoiceItem) HasProduct() bool { return it.ProductID != "" }
