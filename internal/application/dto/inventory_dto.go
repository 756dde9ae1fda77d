package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordEntryRequest body for the manual stock endpoints
// (POST /api/ledger/purchases, /adjustments, /returns).
// Quantity is positive for purchases and returns; adjustments carry a
// signed quantity.
type RecordEntryRequest struct {
	ProductID   string           `json:"product_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceNo string           `json:"reference_no,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// LedgerEntryResponse one ledger entry in responses.
type LedgerEntryResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Type          string           `json:"type"`
	QuantityDelta decimal.Decimal  `json:"quantity_delta"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceNo   string           `json:"reference_no,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// StatementLine one ledger entry with the balance after applying it.
type StatementLine struct {
	Entry   LedgerEntryResponse `json:"entry"`
	Balance decimal.Decimal     `json:"balance"`
}

// LedgerStatementResponse ordered entries plus running balance for one
// product (audit display). CurrentStock is the cached counter; the last
// line's balance must equal it.
type LedgerStatementResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Lines        []StatementLine `json:"lines"`
}
