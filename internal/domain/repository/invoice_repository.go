package repository

import "github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"

// ProductReference summarizes invoice items that block a product delete.
type ProductReference struct {
	Count  int
	Sample []string // invoice numbers, a few at most
}

// InvoiceRepository is the persistence port for Invoice and its items.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetItems(invoiceID string) ([]*entity.InvoiceItem, error)
	// DeleteItems removes the full item set of an invoice (edit replaces
	// the set wholesale rather than patching rows).
	DeleteItems(invoiceID string) error
	// Delete removes the invoice and cascades to its items.
	Delete(id string) error
	List(limit, offset int) ([]*entity.Invoice, error)
	// LatestNumber returns the invoice number of the most recently
	// created invoice with the given prefix, or "" when none exists.
	LatestNumber(prefix string) (string, error)
	// CountItemsByProduct reports how many invoice items reference the
	// product, with a sample of the owning invoice numbers.
	CountItemsByProduct(productID string) (ProductReference, error)
	CountByCustomer(customerID string) (ProductReference, error)
}
