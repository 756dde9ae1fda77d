package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body for POST /api/products. InitialStock, when
// positive, is recorded as an opening purchase ledger entry so the
// ledger-sum invariant holds from creation.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	MinStock     decimal.Decimal `json:"min_stock"`
	InitialStock decimal.Decimal `json:"initial_stock"`
}

// UpdateProductRequest body for PUT /api/products/:id. CurrentStock is
// deliberately absent: stock only moves through ledger entries.
type UpdateProductRequest struct {
	Name      *string          `json:"name,omitempty"`
	Category  *string          `json:"category,omitempty"`
	Unit      *string          `json:"unit,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate   *decimal.Decimal `json:"tax_rate,omitempty"`
	MinStock  *decimal.Decimal `json:"min_stock,omitempty"`
	Status    *string          `json:"status,omitempty"`
}

// ProductResponse product in responses.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse page of products.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCustomerRequest body for POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdateCustomerRequest body for PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	GSTIN   *string `json:"gstin,omitempty"`
	Address *string `json:"address,omitempty"`
}

// CustomerResponse customer in responses.
type CustomerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
	Address string `json:"address,omitempty"`
}

// CustomerListResponse page of customers.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
