package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/billing"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/inventory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/cache"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/infrastructure/memory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *memory.Store
	stock *inventory.StockLedgerUseCase
	uc    *billing.InvoiceUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	stock := inventory.NewStockLedgerUseCase(
		store.Products(), store.Ledger(), cache.NoopStatementCache{}, 0, logger.Nop())
	alloc := billing.NewNumberAllocator(
		store.Sequences(), store.Invoices(), "INV", 4, logger.Nop())
	uc := billing.NewInvoiceUseCase(
		store.Invoices(), store.Products(), store.Customers(),
		stock, alloc, nil, logger.Nop())
	return &fixture{store: store, stock: stock, uc: uc}
}

// seedProduct creates a product and gives it opening stock through the
// ledger, the same way the catalog use case does.
func (f *fixture) seedProduct(t *testing.T, id, name, price, rate, opening string) {
	t.Helper()
	require.NoError(t, f.store.Products().Create(&entity.Product{
		ID:        id,
		SKU:       "SKU-" + id,
		Name:      name,
		UnitPrice: dec(price),
		TaxRate:   dec(rate),
		Status:    entity.ProductStatusActive,
	}))
	if !dec(opening).IsZero() {
		_, err := f.stock.RecordPurchase(context.Background(), dto.RecordEntryRequest{
			ProductID: id,
			Quantity:  dec(opening),
			Notes:     "opening stock",
		})
		require.NoError(t, err)
	}
}

func (f *fixture) stockOf(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	product, err := f.store.Products().GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, product)
	return product.CurrentStock
}

// ledgerSum replays the product's ledger; the invariant under test in
// most of this file is that it always equals the cached stock.
func (f *fixture) ledgerSum(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	entries, err := f.store.Ledger().ListByProduct(productID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.QuantityDelta)
	}
	return sum
}

func (f *fixture) assertLedgerInvariant(t *testing.T, productID string) {
	t.Helper()
	assert.True(t, f.stockOf(t, productID).Equal(f.ledgerSum(t, productID)),
		"cached stock %s diverged from ledger sum %s",
		f.stockOf(t, productID), f.ledgerSum(t, productID))
}

func TestCreate_ComputesTaxAndDecrementsStock(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	invoice, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p1", Quantity: dec("2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", invoice.InvoiceNumber)
	assert.Equal(t, string(billing.TierSequence), invoice.NumberTier)
	assert.False(t, invoice.NumberDegraded)

	assert.True(t, invoice.Subtotal.Equal(dec("200")), "subtotal = %s", invoice.Subtotal)
	assert.True(t, invoice.TaxAmount.Equal(dec("36")), "tax = %s", invoice.TaxAmount)
	assert.True(t, invoice.TotalAmount.Equal(dec("236")), "total = %s", invoice.TotalAmount)

	require.Len(t, invoice.Items, 1)
	item := invoice.Items[0]
	assert.True(t, item.CGST.Equal(dec("18")))
	assert.True(t, item.SGST.Equal(dec("18")))
	assert.True(t, item.TaxableValue.Equal(dec("200")))

	assert.True(t, f.stockOf(t, "p1").Equal(dec("8")))
	f.assertLedgerInvariant(t, "p1")

	entries, err := f.store.Ledger().ListByProduct("p1")
	require.NoError(t, err)
	require.Len(t, entries, 2) // opening purchase + sale
	sale := entries[1]
	assert.Equal(t, entity.EntryTypeSale, sale.Type)
	assert.True(t, sale.QuantityDelta.Equal(dec("-2")))
	assert.Equal(t, "INV-0001", sale.ReferenceNo)
}

func TestCreate_SequentialNumbers(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	for _, want := range []string{"INV-0001", "INV-0002", "INV-0003"} {
		invoice, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
			GuestName: "Walk-in",
			Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("1")}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, invoice.InvoiceNumber)
	}
}

func TestCreate_InsufficientStock_ReportsEveryShortage(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "1")
	f.seedProduct(t, "p2", "Gadget", "59", "18", "0")

	_, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p1", Quantity: dec("5")},
			{ProductID: "p2", Quantity: dec("3")},
		},
	})

	var shortage *domain.InsufficientStockError
	require.ErrorAs(t, err, &shortage)
	assert.Len(t, shortage.Shortages, 2)

	// nothing written
	invoices, listErr := f.store.Invoices().List(10, 0)
	require.NoError(t, listErr)
	assert.Empty(t, invoices)
	assert.True(t, f.stockOf(t, "p1").Equal(dec("1")))
	f.assertLedgerInvariant(t, "p1")
}

func TestCreate_CustomLinesSkipStock(t *testing.T) {
	f := newFixture()

	invoice, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items: []dto.InvoiceItemRequest{
			{Description: "Delivery charge", Quantity: dec("1"), UnitPrice: decPtr("59"), TaxRate: decPtr("18")},
		},
	})
	require.NoError(t, err)

	assert.True(t, invoice.Subtotal.Equal(dec("50")))
	assert.True(t, invoice.TaxAmount.Equal(dec("9")))
	assert.True(t, invoice.TotalAmount.Equal(dec("59")))
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")
	require.NoError(t, f.store.Customers().Create(&entity.Customer{ID: "c1", Name: "Acme"}))

	cases := []struct {
		name string
		in   dto.CreateInvoiceRequest
	}{
		{"no items", dto.CreateInvoiceRequest{GuestName: "X"}},
		{"no customer or guest", dto.CreateInvoiceRequest{
			Items: []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("1")}},
		}},
		{"both customer and guest", dto.CreateInvoiceRequest{
			CustomerID: "c1", GuestName: "X",
			Items: []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("1")}},
		}},
		{"unknown customer", dto.CreateInvoiceRequest{
			CustomerID: "missing",
			Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("1")}},
		}},
		{"unknown product", dto.CreateInvoiceRequest{
			GuestName: "X",
			Items:     []dto.InvoiceItemRequest{{ProductID: "missing", Quantity: dec("1")}},
		}},
		{"zero quantity", dto.CreateInvoiceRequest{
			GuestName: "X",
			Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("0")}},
		}},
		{"custom line without price", dto.CreateInvoiceRequest{
			GuestName: "X",
			Items:     []dto.InvoiceItemRequest{{Description: "Misc", Quantity: dec("1")}},
		}},
		{"bad date", dto.CreateInvoiceRequest{
			GuestName: "X", InvoiceDate: "31-12-2025",
			Items: []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("1")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// validation failures never touch the store
	invoices, err := f.store.Invoices().List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestCreate_PartialWrite_OnItemFailure(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")
	f.store.CreateItemErr = errors.New("disk full")

	_, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("1")}},
	})

	var partial *domain.PartialWriteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "create invoice", partial.Op)
	assert.Contains(t, partial.StepsDone, "invoice header")

	// the header survived; no stock moved
	invoices, listErr := f.store.Invoices().List(10, 0)
	require.NoError(t, listErr)
	assert.Len(t, invoices, 1)
	assert.True(t, f.stockOf(t, "p1").Equal(dec("10")))
}

func TestUpdate_NoOpEditAppendsNothing(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)

	before, err := f.store.Ledger().CountByProduct("p1")
	require.NoError(t, err)

	updated, err := f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)

	after, err := f.store.Ledger().CountByProduct("p1")
	require.NoError(t, err)
	assert.Equal(t, before, after, "no-op edit must not append ledger entries")
	assert.True(t, f.stockOf(t, "p1").Equal(dec("8")))
	assert.True(t, updated.TotalAmount.Equal(created.TotalAmount))
	f.assertLedgerInvariant(t, "p1")
}

func TestUpdate_AdjustsStockByDifference(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)
	require.True(t, f.stockOf(t, "p1").Equal(dec("8")))

	// 2 -> 5 consumes 3 more
	updated, err := f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("5")}},
	})
	require.NoError(t, err)
	assert.True(t, f.stockOf(t, "p1").Equal(dec("5")))
	assert.True(t, updated.TotalAmount.Equal(dec("590")))
	f.assertLedgerInvariant(t, "p1")

	// 5 -> 2 returns 3; net effect of the two edits is zero
	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)
	assert.True(t, f.stockOf(t, "p1").Equal(dec("8")))
	f.assertLedgerInvariant(t, "p1")
}

func TestUpdate_SwapsProducts(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")
	f.seedProduct(t, "p2", "Gadget", "59", "18", "10")

	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("4")}},
	})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p2", Quantity: dec("3")}},
	})
	require.NoError(t, err)

	assert.True(t, f.stockOf(t, "p1").Equal(dec("10")), "removed product restored")
	assert.True(t, f.stockOf(t, "p2").Equal(dec("7")), "added product consumed")
	f.assertLedgerInvariant(t, "p1")
	f.assertLedgerInvariant(t, "p2")
}

func TestUpdate_InsufficientStockForIncrease(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)

	// needs 11 more, only 8 available
	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("13")}},
	})

	var shortage *domain.InsufficientStockError
	require.ErrorAs(t, err, &shortage)

	// failed edit left everything in place
	assert.True(t, f.stockOf(t, "p1").Equal(dec("8")))
	items, itemsErr := f.store.Invoices().GetItems(created.ID)
	require.NoError(t, itemsErr)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(dec("2")))
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Update(context.Background(), "missing", dto.UpdateInvoiceRequest{
		GuestName: "X",
		Items:     []dto.InvoiceItemRequest{{Description: "Misc", Quantity: dec("1"), UnitPrice: decPtr("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RestoresStock(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)
	require.True(t, f.stockOf(t, "p1").Equal(dec("8")))

	require.NoError(t, f.uc.Delete(context.Background(), created.ID))

	// create followed by delete nets out to the opening stock
	assert.True(t, f.stockOf(t, "p1").Equal(dec("10")))
	f.assertLedgerInvariant(t, "p1")

	_, err = f.uc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := f.store.Ledger().ListByProduct("p1")
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, entity.EntryTypeAdjustment, last.Type)
	assert.True(t, last.QuantityDelta.Equal(dec("2")))
	assert.Equal(t, created.InvoiceNumber, last.ReferenceNo)
}

func TestDelete_RowDeleteFailureLeavesEverythingInPlace(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)

	f.store.DeleteErr = errors.New("connection reset")
	err = f.uc.Delete(context.Background(), created.ID)
	require.Error(t, err)

	// the row delete is the first write of the operation, so its failure
	// is a plain error with nothing committed
	var partial *domain.PartialWriteError
	assert.False(t, errors.As(err, &partial))

	assert.True(t, f.stockOf(t, "p1").Equal(dec("8")))
	f.store.DeleteErr = nil
	_, err = f.uc.Get(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestDelete_PartialWrite_OnRestorationFailure(t *testing.T) {
	f := newFixture()
	f.seedProduct(t, "p1", "Widget", "118", "18", "10")

	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		GuestName: "Walk-in",
		Items:     []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec("2")}},
	})
	require.NoError(t, err)

	f.store.AppendErr = errors.New("connection reset")
	err = f.uc.Delete(context.Background(), created.ID)

	var partial *domain.PartialWriteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "delete invoice", partial.Op)
	assert.Contains(t, partial.StepsDone, "invoice")

	// the row is gone and the restoration never landed: stock stays
	// understated until an operator reconciles it
	f.store.AppendErr = nil
	assert.True(t, f.stockOf(t, "p1").Equal(dec("8")))
	_, err = f.uc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.uc.Delete(context.Background(), "missing"), domain.ErrNotFound)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
