package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/inventory"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

// ProductUseCase manages the product catalog. Stock is never set
// through this use case: the only stock field a write accepts is
// InitialStock at creation, which is recorded as an opening ledger
// entry so the ledger remains the source of truth from day one.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	invoiceRepo repository.InvoiceRepository
	stock       *inventory.StockLedgerUseCase
	log         *logger.Logger
}

// NewProductUseCase builds the use case.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	invoiceRepo repository.InvoiceRepository,
	stock *inventory.StockLedgerUseCase,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		invoiceRepo: invoiceRepo,
		stock:       stock,
		log:         log,
	}
}

// Create registers a product. A positive InitialStock is seeded as an
// opening purchase entry in the stock ledger.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if in.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "required"}
	}
	if in.UnitPrice.IsNegative() {
		return nil, &domain.ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	if in.TaxRate.IsNegative() {
		return nil, &domain.ValidationError{Field: "tax_rate", Reason: "must not be negative"}
	}
	if in.InitialStock.IsNegative() {
		return nil, &domain.ValidationError{Field: "initial_stock", Reason: "must not be negative"}
	}
	if existing, err := uc.productRepo.GetBySKU(in.SKU); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      in.Name,
		Category:  in.Category,
		Unit:      in.Unit,
		UnitPrice: in.UnitPrice,
		TaxRate:   in.TaxRate,
		MinStock:  in.MinStock,
		Status:    entity.ProductStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	if in.InitialStock.IsPositive() {
		_, err := uc.stock.RecordPurchase(ctx, dto.RecordEntryRequest{
			ProductID: product.ID,
			Quantity:  in.InitialStock,
			Notes:     "opening stock",
		})
		if err != nil {
			return nil, &domain.PartialWriteError{
				Op:        "create product",
				StepsDone: []string{"product"},
				Err:       err,
			}
		}
		product.CurrentStock = in.InitialStock
	}

	uc.log.Info().
		Str("product_id", product.ID).
		Str("sku", product.SKU).
		Msg("product created")
	return toProductResponse(product), nil
}

// Get returns one product.
func (uc *ProductUseCase) Get(_ context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update applies the non-nil fields of the request. CurrentStock is not
// updatable here.
func (uc *ProductUseCase) Update(_ context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, &domain.ValidationError{Field: "unit_price", Reason: "must not be negative"}
		}
		product.UnitPrice = *in.UnitPrice
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() {
			return nil, &domain.ValidationError{Field: "tax_rate", Reason: "must not be negative"}
		}
		product.TaxRate = *in.TaxRate
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Status != nil {
		if *in.Status != entity.ProductStatusActive && *in.Status != entity.ProductStatusInactive {
			return nil, &domain.ValidationError{Field: "status", Reason: "must be active or inactive"}
		}
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List returns a page of products.
func (uc *ProductUseCase) List(_ context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(products)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, product := range products {
		out.Items = append(out.Items, *toProductResponse(product))
	}
	return out, nil
}

// ListLowStock returns active products at or below their minimum stock.
func (uc *ProductUseCase) ListLowStock(_ context.Context) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		out = append(out, *toProductResponse(product))
	}
	return out, nil
}

// Delete removes a product unless invoice items or ledger entries still
// reference it. A referenced product should be deactivated instead.
func (uc *ProductUseCase) Delete(_ context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	refs, err := uc.invoiceRepo.CountItemsByProduct(id)
	if err != nil {
		return err
	}
	if refs.Count > 0 {
		return &domain.ReferentialIntegrityError{
			Entity:     "product",
			ID:         id,
			References: refs.Count,
			Sample:     refs.Sample,
		}
	}
	entries, err := uc.ledgerRepo.CountByProduct(id)
	if err != nil {
		return err
	}
	if entries > 0 {
		return &domain.ReferentialIntegrityError{
			Entity:     "product",
			ID:         id,
			References: entries,
		}
	}
	return uc.productRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		Unit:         p.Unit,
		UnitPrice:    p.UnitPrice,
		TaxRate:      p.TaxRate,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
