package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/inventory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/usecase"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/cache"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/infrastructure/memory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProductUC(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	stock := inventory.NewStockLedgerUseCase(
		store.Products(), store.Ledger(), cache.NoopStatementCache{}, time.Minute, logger.Nop())
	uc := usecase.NewProductUseCase(
		store.Products(), store.Ledger(), store.Invoices(), stock, logger.Nop())
	return uc, store
}

func TestCreateProduct_SeedsOpeningStockThroughLedger(t *testing.T) {
	uc, store := newProductUC(t)

	product, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU:          "W-001",
		Name:         "Widget",
		UnitPrice:    dec("118"),
		TaxRate:      dec("18"),
		InitialStock: dec("25"),
	})
	require.NoError(t, err)
	assert.True(t, product.CurrentStock.Equal(dec("25")))

	// the stock came from a ledger entry, not a direct counter write
	entries, err := store.Ledger().ListByProduct(product.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EntryTypePurchase, entries[0].Type)
	assert.True(t, entries[0].QuantityDelta.Equal(dec("25")))
	assert.Equal(t, "opening stock", entries[0].Notes)
}

func TestCreateProduct_ZeroInitialStockAppendsNothing(t *testing.T) {
	uc, store := newProductUC(t)

	product, err := uc.Create(context.Background(), dto.CreateProductRequest{
		SKU:       "W-001",
		Name:      "Widget",
		UnitPrice: dec("118"),
		TaxRate:   dec("18"),
	})
	require.NoError(t, err)
	assert.True(t, product.CurrentStock.IsZero())

	count, err := store.Ledger().CountByProduct(product.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "W-001", Name: "Widget"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "W-001", Name: "Other"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_Validation(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	cases := []dto.CreateProductRequest{
		{SKU: "W-001"},                       // no name
		{Name: "Widget"},                     // no sku
		{SKU: "W-001", Name: "Widget", UnitPrice: dec("-1")},
		{SKU: "W-001", Name: "Widget", TaxRate: dec("-5")},
		{SKU: "W-001", Name: "Widget", InitialStock: dec("-3")},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestDeleteProduct_BlockedByInvoiceItems(t *testing.T) {
	uc, store := newProductUC(t)
	ctx := context.Background()

	product, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "W-001", Name: "Widget"})
	require.NoError(t, err)

	require.NoError(t, store.Invoices().Create(&entity.Invoice{ID: "i1", InvoiceNumber: "INV-0001"}))
	require.NoError(t, store.Invoices().CreateItem(&entity.InvoiceItem{
		ID: "it1", InvoiceID: "i1", ProductID: product.ID, Quantity: dec("1"),
	}))

	err = uc.Delete(ctx, product.ID)
	var ref *domain.ReferentialIntegrityError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "product", ref.Entity)
	assert.Equal(t, 1, ref.References)
	assert.Contains(t, ref.Sample, "INV-0001")
}

func TestDeleteProduct_BlockedByLedgerEntries(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	product, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: "W-001", Name: "Widget", InitialStock: dec("5"),
	})
	require.NoError(t, err)

	err = uc.Delete(ctx, product.ID)
	var ref *domain.ReferentialIntegrityError
	require.ErrorAs(t, err, &ref)
}

func TestDeleteProduct_UnreferencedDeletes(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	product, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "W-001", Name: "Widget"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, product.ID))
	_, err = uc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProduct_CannotTouchStock(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	product, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: "W-001", Name: "Widget", InitialStock: dec("5"),
	})
	require.NoError(t, err)

	name := "Widget v2"
	updated, err := uc.Update(ctx, product.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", updated.Name)
	assert.True(t, updated.CurrentStock.Equal(dec("5")), "stock must survive catalog updates")
}

func TestListLowStock(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: "LOW-1", Name: "Low", MinStock: dec("10"), InitialStock: dec("3"),
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{
		SKU: "OK-1", Name: "Fine", MinStock: dec("1"), InitialStock: dec("50"),
	})
	require.NoError(t, err)

	low, err := uc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "LOW-1", low[0].SKU)
}
