package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/billing"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/inventory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/usecase"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	CustomerUC *billing.CustomerUseCase
	LedgerUC   *inventory.StockLedgerUseCase
	InvoiceUC  *billing.InvoiceUseCase
	APIKey     string
}

// Router registers the API routes. Everything under /api is gated by
// the API key; /health stays public for probes.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", APIKeyMiddleware(deps.APIKey))

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	ledger := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledger.Post("/purchases", ledgerHandler.RecordPurchase)
	ledger.Post("/adjustments", ledgerHandler.RecordAdjustment)
	ledger.Post("/returns", ledgerHandler.RecordReturn)
	ledger.Get("/:productId/statement", ledgerHandler.Statement)
	ledger.Get("/:productId/balance", ledgerHandler.Balance)

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
}
