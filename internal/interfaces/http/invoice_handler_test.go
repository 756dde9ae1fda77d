package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/billing"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/inventory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/usecase"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/cache"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/infrastructure/memory"
	apphttp "github.com/Faroffcode/gst-zen-lovable-sub000/internal/interfaces/http"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

// buildAPI wires the full router over the in-memory store, API gate
// disabled.
func buildAPI() (*fiber.App, *memory.Store) {
	store := memory.NewStore()
	log := logger.Nop()

	stockUC := inventory.NewStockLedgerUseCase(
		store.Products(), store.Ledger(), cache.NoopStatementCache{}, time.Minute, log)
	productUC := usecase.NewProductUseCase(
		store.Products(), store.Ledger(), store.Invoices(), stockUC, log)
	customerUC := billing.NewCustomerUseCase(store.Customers(), store.Invoices(), log)
	allocator := billing.NewNumberAllocator(store.Sequences(), store.Invoices(), "INV", 4, log)
	invoiceUC := billing.NewInvoiceUseCase(
		store.Invoices(), store.Products(), store.Customers(),
		stockUC, allocator, nil, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:  productUC,
		CustomerUC: customerUC,
		LedgerUC:   stockUC,
		InvoiceUC:  invoiceUC,
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// createProduct seeds a product over the API, including opening stock.
func createProduct(t *testing.T, app *fiber.App, sku, price, rate, stock string) dto.ProductResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"sku": sku, "name": "Product " + sku,
		"unit_price": price, "tax_rate": rate, "initial_stock": stock,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product dto.ProductResponse
	decode(t, resp, &product)
	return product
}

func TestInvoiceAPI_CreateGetDelete(t *testing.T) {
	app, _ := buildAPI()
	product := createProduct(t, app, "W-001", "118", "18", "10")

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", fiber.Map{
		"guest_name": "Walk-in",
		"items": []fiber.Map{
			{"product_id": product.ID, "quantity": "2"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var invoice dto.InvoiceResponse
	decode(t, resp, &invoice)
	assert.Equal(t, "INV-0001", invoice.InvoiceNumber)
	assert.False(t, invoice.NumberDegraded)
	assert.Equal(t, "236", invoice.TotalAmount.String())
	assert.Equal(t, "36", invoice.TaxAmount.String())
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "18", invoice.Items[0].CGST.String())

	// stock moved
	balanceResp := doJSON(t, app, http.MethodGet, "/api/ledger/"+product.ID+"/balance", nil)
	require.Equal(t, http.StatusOK, balanceResp.StatusCode)
	var balance map[string]string
	decode(t, balanceResp, &balance)
	assert.Equal(t, "8", balance["balance"])

	getResp := doJSON(t, app, http.MethodGet, "/api/invoices/"+invoice.ID, nil)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	getResp.Body.Close()

	deleteResp := doJSON(t, app, http.MethodDelete, "/api/invoices/"+invoice.ID, nil)
	assert.Equal(t, http.StatusNoContent, deleteResp.StatusCode)
	deleteResp.Body.Close()

	// stock restored, invoice gone
	balanceResp = doJSON(t, app, http.MethodGet, "/api/ledger/"+product.ID+"/balance", nil)
	decode(t, balanceResp, &balance)
	assert.Equal(t, "10", balance["balance"])

	goneResp := doJSON(t, app, http.MethodGet, "/api/invoices/"+invoice.ID, nil)
	assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
	goneResp.Body.Close()
}

func TestInvoiceAPI_InsufficientStockIs409(t *testing.T) {
	app, _ := buildAPI()
	product := createProduct(t, app, "W-001", "118", "18", "1")

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", fiber.Map{
		"guest_name": "Walk-in",
		"items": []fiber.Map{
			{"product_id": product.ID, "quantity": "5"},
		},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.NotNil(t, body.Details)
}

func TestInvoiceAPI_ValidationIs400(t *testing.T) {
	app, _ := buildAPI()

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", fiber.Map{
		"guest_name": "Walk-in",
		"items":      []fiber.Map{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestInvoiceAPI_EditAdjustsStock(t *testing.T) {
	app, _ := buildAPI()
	product := createProduct(t, app, "W-001", "118", "18", "10")

	createResp := doJSON(t, app, http.MethodPost, "/api/invoices", fiber.Map{
		"guest_name": "Walk-in",
		"items":      []fiber.Map{{"product_id": product.ID, "quantity": "2"}},
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var invoice dto.InvoiceResponse
	decode(t, createResp, &invoice)

	updateResp := doJSON(t, app, http.MethodPut, "/api/invoices/"+invoice.ID, fiber.Map{
		"guest_name": "Walk-in",
		"items":      []fiber.Map{{"product_id": product.ID, "quantity": "5"}},
	})
	require.Equal(t, http.StatusOK, updateResp.StatusCode)
	var updated dto.InvoiceResponse
	decode(t, updateResp, &updated)
	assert.Equal(t, "590", updated.TotalAmount.String())
	assert.Equal(t, invoice.InvoiceNumber, updated.InvoiceNumber, "edit keeps the number")

	balanceResp := doJSON(t, app, http.MethodGet, "/api/ledger/"+product.ID+"/balance", nil)
	var balance map[string]string
	decode(t, balanceResp, &balance)
	assert.Equal(t, "5", balance["balance"])
}

func TestProductAPI_DeleteReferencedIs409(t *testing.T) {
	app, _ := buildAPI()
	product := createProduct(t, app, "W-001", "118", "18", "10")

	createResp := doJSON(t, app, http.MethodPost, "/api/invoices", fiber.Map{
		"guest_name": "Walk-in",
		"items":      []fiber.Map{{"product_id": product.ID, "quantity": "1"}},
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	createResp.Body.Close()

	resp := doJSON(t, app, http.MethodDelete, "/api/products/"+product.ID, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "REFERENTIAL_INTEGRITY", body.Code)
}

func TestLedgerAPI_StatementShowsRunningBalance(t *testing.T) {
	app, _ := buildAPI()
	product := createProduct(t, app, "W-001", "118", "18", "10")

	adjResp := doJSON(t, app, http.MethodPost, "/api/ledger/adjustments", fiber.Map{
		"product_id": product.ID, "quantity": "-4", "notes": "damaged",
	})
	require.Equal(t, http.StatusCreated, adjResp.StatusCode)
	adjResp.Body.Close()

	resp := doJSON(t, app, http.MethodGet, "/api/ledger/"+product.ID+"/statement", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statement dto.LedgerStatementResponse
	decode(t, resp, &statement)
	require.Len(t, statement.Lines, 2)
	assert.Equal(t, "10", statement.Lines[0].Balance.String())
	assert.Equal(t, "6", statement.Lines[1].Balance.String())
	assert.Equal(t, "6", statement.CurrentStock.String())
}
