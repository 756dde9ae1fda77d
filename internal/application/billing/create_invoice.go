package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
)

// Create validates the request, allocates an invoice number, computes
// the GST decomposition, and persists the invoice, its items, and one
// sale ledger entry per product-backed line, in that fixed order.
//
// Everything that can fail on bad input fails before the first write.
// A storage failure after the invoice header is in returns a
// PartialWriteError listing what did commit; the committed rows are
// left for the operator to reconcile.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	draft, err := uc.buildDraft(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkStock(draft.products, draft.required); err != nil {
		return nil, err
	}

	alloc := uc.allocator.Next()

	now := uc.now()
	invoice := &entity.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: alloc.Number,
		CustomerID:    draft.customerID,
		GuestName:     draft.guestName,
		GuestPhone:    draft.guestPhone,
		InvoiceDate:   draft.date,
		Subtotal:      draft.totals.Subtotal,
		TaxAmount:     draft.totals.TaxAmount,
		TotalAmount:   draft.totals.TotalAmount,
		Notes:         draft.notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.invoiceRepo.Create(invoice); err != nil {
		return nil, err
	}
	stepsDone := []string{"invoice header"}

	for i, item := range draft.items {
		item.ID = uuid.New().String()
		item.InvoiceID = invoice.ID
		if err := uc.invoiceRepo.CreateItem(item); err != nil {
			return nil, &domain.PartialWriteError{Op: "create invoice", StepsDone: stepsDone, Err: err}
		}
		stepsDone = append(stepsDone, fmt.Sprintf("item %d/%d", i+1, len(draft.items)))
	}

	for _, item := range draft.items {
		if !item.HasProduct() {
			continue
		}
		entry := &entity.LedgerEntry{
			ID:            uuid.New().String(),
			ProductID:     item.ProductID,
			Type:          entity.EntryTypeSale,
			QuantityDelta: item.Quantity.Neg(),
			ReferenceNo:   invoice.InvoiceNumber,
			CreatedAt:     uc.now(),
		}
		if err := uc.stock.AppendIfSufficientStock(ctx, entry); err != nil {
			return nil, &domain.PartialWriteError{Op: "create invoice", StepsDone: stepsDone, Err: err}
		}
		stepsDone = append(stepsDone, "ledger entry "+item.ProductID)
	}

	uc.log.Info().
		Str("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Str("number_tier", string(alloc.Tier)).
		Str("total", invoice.TotalAmount.String()).
		Msg("invoice created")

	resp := toInvoiceResponse(invoice, draft.items, &alloc)
	if uc.notifier != nil {
		uc.notifier.InvoiceCreated(ctx, resp)
	}
	return resp, nil
}
