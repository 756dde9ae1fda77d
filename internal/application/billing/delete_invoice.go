package billing

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
)

// Delete removes an invoice and returns its sold stock to inventory:
// the invoice row goes first (items cascade), then one positive
// adjustment ledger entry per referenced product. Creating and deleting
// an invoice leaves every product's stock where it started.
//
// A restoration append failing after the row is gone leaves stock
// understated until an operator corrects it; the PartialWriteError
// names the steps that committed.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return err
	}

	restore := productQuantities(items)
	productIDs := make([]string, 0, len(restore))
	for productID := range restore {
		productIDs = append(productIDs, productID)
	}
	sort.Strings(productIDs)

	if err := uc.invoiceRepo.Delete(id); err != nil {
		return err
	}
	stepsDone := []string{"invoice"}

	for _, productID := range productIDs {
		entry := &entity.LedgerEntry{
			ID:            uuid.New().String(),
			ProductID:     productID,
			Type:          entity.EntryTypeAdjustment,
			QuantityDelta: restore[productID],
			ReferenceNo:   invoice.InvoiceNumber,
			Notes:         "invoice deleted",
			CreatedAt:     uc.now(),
		}
		if err := uc.stock.Append(ctx, entry); err != nil {
			return &domain.PartialWriteError{Op: "delete invoice", StepsDone: stepsDone, Err: err}
		}
		stepsDone = append(stepsDone, "ledger entry "+productID)
	}

	uc.log.Info().
		Str("invoice_id", id).
		Str("invoice_number", invoice.InvoiceNumber).
		Int("restored_products", len(productIDs)).
		Msg("invoice deleted")
	return nil
}
