package dto

import "github.com/shopspring/decimal"

// InvoiceItemRequest one invoice line. Product lines reference a catalog
// product and take the catalog tax rate; custom lines carry a
// description and their own rate, and never touch stock.
// UnitPrice defaults to the product's tax-inclusive list price.
type InvoiceItemRequest struct {
	ProductID   string           `json:"product_id,omitempty"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
}

// CreateInvoiceRequest body for POST /api/invoices. Exactly one of
// CustomerID or GuestName must be set.
type CreateInvoiceRequest struct {
	CustomerID  string               `json:"customer_id,omitempty"`
	GuestName   string               `json:"guest_name,omitempty"`
	GuestPhone  string               `json:"guest_phone,omitempty"`
	InvoiceDate string               `json:"invoice_date,omitempty"` // YYYY-MM-DD, default today
	Notes       string               `json:"notes,omitempty"`
	Items       []InvoiceItemRequest `json:"items"`
}

// UpdateInvoiceRequest body for PUT /api/invoices/:id. Items replace the
// invoice's full item set.
type UpdateInvoiceRequest struct {
	CustomerID  string               `json:"customer_id,omitempty"`
	GuestName   string               `json:"guest_name,omitempty"`
	GuestPhone  string               `json:"guest_phone,omitempty"`
	InvoiceDate string               `json:"invoice_date,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Items       []InvoiceItemRequest `json:"items"`
}

// InvoiceItemResponse one line with its GST decomposition.
type InvoiceItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id,omitempty"`
	Description  string          `json:"description,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// InvoiceResponse invoice with items. NumberDegraded flags numbers that
// came from a fallback allocation tier (review recommended).
type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	NumberTier     string                `json:"number_tier,omitempty"`
	NumberDegraded bool                  `json:"number_degraded,omitempty"`
	CustomerID     string                `json:"customer_id,omitempty"`
	GuestName      string                `json:"guest_name,omitempty"`
	GuestPhone     string                `json:"guest_phone,omitempty"`
	InvoiceDate    string                `json:"invoice_date"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Notes          string                `json:"notes,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
}

// InvoiceListResponse page of invoice headers.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
