package billing

import (
	"context"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
)

// StockLedger is the slice of the inventory use case that billing
// drives: sale entries on create, adjustment entries on edit and
// delete. Billing never reads the ledger directly.
type StockLedger interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	AppendIfSufficientStock(ctx context.Context, entry *entity.LedgerEntry) error
}

// NotificationSink receives a best-effort notification after an invoice
// is created. Implementations must not block invoice creation: failures
// are logged by the sink, never returned.
type NotificationSink interface {
	InvoiceCreated(ctx context.Context, invoice *dto.InvoiceResponse)
}
