package billing

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
)

// Update replaces the invoice's header fields and full item set, and
// appends one adjustment ledger entry per product whose invoiced
// quantity changed. The adjustment is the difference between the old
// and new quantities, so stock only moves by the delta: editing an
// invoice without touching quantities appends nothing, and an edit
// followed by the reverse edit nets out to zero.
//
// Write order is fixed: header, delete old items, insert new items,
// ledger adjustments. Stock sufficiency is validated on the deltas
// before the first write.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	oldItems, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}

	draft, err := uc.buildDraft(dto.CreateInvoiceRequest(in))
	if err != nil {
		return nil, err
	}

	// Per-product ledger delta: old quantity minus new quantity.
	// Positive means stock comes back, negative means extra stock is
	// consumed and must be available now.
	oldQty := productQuantities(oldItems)
	deltas := make(map[string]decimal.Decimal)
	for productID, qty := range oldQty {
		deltas[productID] = qty
	}
	for productID, qty := range draft.required {
		deltas[productID] = deltas[productID].Sub(qty)
	}

	extra := make(map[string]decimal.Decimal)
	for productID, delta := range deltas {
		if delta.IsNegative() {
			extra[productID] = delta.Neg()
		}
	}
	if err := uc.checkStock(draft.products, extra); err != nil {
		return nil, err
	}

	invoice.CustomerID = draft.customerID
	invoice.GuestName = draft.guestName
	invoice.GuestPhone = draft.guestPhone
	invoice.InvoiceDate = draft.date
	invoice.Subtotal = draft.totals.Subtotal
	invoice.TaxAmount = draft.totals.TaxAmount
	invoice.TotalAmount = draft.totals.TotalAmount
	invoice.Notes = draft.notes
	invoice.UpdatedAt = uc.now()

	if err := uc.invoiceRepo.Update(invoice); err != nil {
		return nil, err
	}
	stepsDone := []string{"invoice header"}

	if err := uc.invoiceRepo.DeleteItems(id); err != nil {
		return nil, &domain.PartialWriteError{Op: "update invoice", StepsDone: stepsDone, Err: err}
	}
	stepsDone = append(stepsDone, "delete old items")

	for i, item := range draft.items {
		item.ID = uuid.New().String()
		item.InvoiceID = invoice.ID
		if err := uc.invoiceRepo.CreateItem(item); err != nil {
			return nil, &domain.PartialWriteError{Op: "update invoice", StepsDone: stepsDone, Err: err}
		}
		stepsDone = append(stepsDone, fmt.Sprintf("item %d/%d", i+1, len(draft.items)))
	}

	productIDs := make([]string, 0, len(deltas))
	for productID := range deltas {
		productIDs = append(productIDs, productID)
	}
	sort.Strings(productIDs)
	adjustments := 0
	for _, productID := range productIDs {
		delta := deltas[productID]
		if delta.IsZero() {
			continue
		}
		adjustments++
		entry := &entity.LedgerEntry{
			ID:            uuid.New().String(),
			ProductID:     productID,
			Type:          entity.EntryTypeAdjustment,
			QuantityDelta: delta,
			ReferenceNo:   invoice.InvoiceNumber,
			Notes:         "invoice edit",
			CreatedAt:     uc.now(),
		}
		if err := uc.stock.AppendIfSufficientStock(ctx, entry); err != nil {
			return nil, &domain.PartialWriteError{Op: "update invoice", StepsDone: stepsDone, Err: err}
		}
		stepsDone = append(stepsDone, "ledger entry "+productID)
	}

	uc.log.Info().
		Str("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Int("adjustments", adjustments).
		Msg("invoice updated")

	return toInvoiceResponse(invoice, draft.items, nil), nil
}
