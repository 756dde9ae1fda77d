package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/tax"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

const invoiceDateLayout = "2006-01-02"

// InvoiceUseCase owns the invoice lifecycle: create, edit, delete, and
// the stock movements each one implies.
//
// The multi-step writes are sequential repository calls, not a database
// transaction. Validation runs fully before the first write, so a
// validation or stock failure leaves the store untouched; a failure
// after the first write surfaces as a PartialWriteError naming the
// steps that did commit.
type InvoiceUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	stock        StockLedger
	allocator    *NumberAllocator
	notifier     NotificationSink
	log          *logger.Logger
	now          func() time.Time
}

// NewInvoiceUseCase builds the use case. notifier may be nil.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	stock StockLedger,
	allocator *NumberAllocator,
	notifier NotificationSink,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		stock:        stock,
		allocator:    allocator,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Get returns one invoice with its items.
func (uc *InvoiceUseCase) Get(_ context.Context, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, items, nil), nil
}

// List returns a page of invoices with their items.
func (uc *InvoiceUseCase) List(_ context.Context, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(invoices)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, invoice := range invoices {
		items, err := uc.invoiceRepo.GetItems(invoice.ID)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *toInvoiceResponse(invoice, items, nil))
	}
	return out, nil
}

// invoiceDraft is a fully validated, tax-computed invoice payload that
// has not touched the store yet.
type invoiceDraft struct {
	customerID string
	guestName  string
	guestPhone string
	date       time.Time
	notes      string
	items      []*entity.InvoiceItem
	totals     tax.Totals
	// requested quantity per product across all product-backed lines
	required map[string]decimal.Decimal
	products map[string]*entity.Product
}

// buildDraft validates the request and computes the GST decomposition.
// It performs reads only.
func (uc *InvoiceUseCase) buildDraft(in dto.CreateInvoiceRequest) (*invoiceDraft, error) {
	if len(in.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	if in.CustomerID == "" && in.GuestName == "" {
		return nil, &domain.ValidationError{Field: "customer", Reason: "customer_id or guest_name is required"}
	}
	if in.CustomerID != "" && in.GuestName != "" {
		return nil, &domain.ValidationError{Field: "customer", Reason: "customer_id and guest_name are mutually exclusive"}
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, &domain.ValidationError{Field: "customer_id", Reason: "customer does not exist"}
		}
	}

	date := uc.now()
	if in.InvoiceDate != "" {
		parsed, err := time.Parse(invoiceDateLayout, in.InvoiceDate)
		if err != nil {
			return nil, &domain.ValidationError{Field: "invoice_date", Reason: "must be YYYY-MM-DD"}
		}
		date = parsed
	}

	draft := &invoiceDraft{
		customerID: in.CustomerID,
		guestName:  in.GuestName,
		guestPhone: in.GuestPhone,
		date:       date,
		notes:      in.Notes,
		items:      make([]*entity.InvoiceItem, 0, len(in.Items)),
		required:   make(map[string]decimal.Decimal),
		products:   make(map[string]*entity.Product),
	}

	taxLines := make([]tax.Line, 0, len(in.Items))
	for i, item := range in.Items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }
		if !item.Quantity.IsPositive() {
			return nil, &domain.ValidationError{Field: field("quantity"), Reason: "must be positive"}
		}

		var unitPrice, taxRate decimal.Decimal
		description := item.Description
		if item.ProductID != "" {
			product, ok := draft.products[item.ProductID]
			if !ok {
				var err error
				product, err = uc.productRepo.GetByID(item.ProductID)
				if err != nil {
					return nil, err
				}
				if product == nil {
					return nil, &domain.ValidationError{Field: field("product_id"), Reason: "product does not exist"}
				}
				draft.products[item.ProductID] = product
			}
			unitPrice = product.UnitPrice
			taxRate = product.TaxRate
			if description == "" {
				description = product.Name
			}
			draft.required[item.ProductID] = draft.required[item.ProductID].Add(item.Quantity)
		} else {
			if description == "" {
				return nil, &domain.ValidationError{Field: field("description"), Reason: "required for custom lines"}
			}
			if item.UnitPrice == nil {
				return nil, &domain.ValidationError{Field: field("unit_price"), Reason: "required for custom lines"}
			}
		}
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		if item.TaxRate != nil {
			taxRate = *item.TaxRate
		}
		if unitPrice.IsNegative() {
			return nil, &domain.ValidationError{Field: field("unit_price"), Reason: "must not be negative"}
		}
		if taxRate.IsNegative() {
			return nil, &domain.ValidationError{Field: field("tax_rate"), Reason: "must not be negative"}
		}

		line := tax.ComputeLine(unitPrice, taxRate, item.Quantity)
		taxLines = append(taxLines, line)
		draft.items = append(draft.items, &entity.InvoiceItem{
			ProductID:   item.ProductID,
			Description: description,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			TaxRate:     taxRate,
			LineTotal:   line.LineTotal,
		})
	}
	draft.totals = tax.SumLines(taxLines)
	return draft, nil
}

// checkStock compares the requested quantity per product against
// current stock and reports every shortage at once, so the caller can
// fix the whole invoice in one pass.
func (uc *InvoiceUseCase) checkStock(products map[string]*entity.Product, required map[string]decimal.Decimal) error {
	var shortages []domain.StockShortage
	for _, product := range products {
		requested, ok := required[product.ID]
		if !ok {
			continue
		}
		if product.CurrentStock.LessThan(requested) {
			shortages = append(shortages, domain.StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   requested,
				Available:   product.CurrentStock,
			})
		}
	}
	if len(shortages) > 0 {
		return &domain.InsufficientStockError{Shortages: shortages}
	}
	return nil
}

// productQuantities sums item quantities per product, skipping custom
// lines.
func productQuantities(items []*entity.InvoiceItem) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, item := range items {
		if item.HasProduct() {
			out[item.ProductID] = out[item.ProductID].Add(item.Quantity)
		}
	}
	return out
}

func toInvoiceResponse(invoice *entity.Invoice, items []*entity.InvoiceItem, alloc *Allocation) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		GuestName:     invoice.GuestName,
		GuestPhone:    invoice.GuestPhone,
		InvoiceDate:   invoice.InvoiceDate.Format(invoiceDateLayout),
		Subtotal:      invoice.Subtotal,
		TaxAmount:     invoice.TaxAmount,
		TotalAmount:   invoice.TotalAmount,
		Notes:         invoice.Notes,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	if alloc != nil {
		resp.NumberTier = string(alloc.Tier)
		resp.NumberDegraded = alloc.Degraded()
	}
	for _, item := range items {
		line := tax.ComputeLine(item.UnitPrice, item.TaxRate, item.Quantity)
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TaxRate:      item.TaxRate,
			TaxableValue: line.TaxableValue,
			CGST:         line.CGST,
			SGST:         line.SGST,
			LineTotal:    item.LineTotal,
		})
	}
	return resp
}
