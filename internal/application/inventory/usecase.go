package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/cache"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/entity"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/ledger"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain/repository"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

// StockLedgerUseCase appends to the per-product transaction ledger and
// serves balance projections. The ledger is the source of truth for
// stock; the cached current_stock counter on the product moves only as
// a side effect of appends.
//
// The stock-sufficiency check is read-then-write without a row lock or
// compare-and-swap: two concurrent sales that each pass validation can
// together overdraw stock. Callers needing strict correctness under
// contention must serialize at the backing store.
type StockLedgerUseCase struct {
	productRepo  repository.ProductRepository
	ledgerRepo   repository.LedgerRepository
	statements   cache.StatementCache
	statementTTL time.Duration
	log          *logger.Logger
	now          func() time.Time
}

// NewStockLedgerUseCase builds the use case.
func NewStockLedgerUseCase(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	statements cache.StatementCache,
	statementTTL time.Duration,
	log *logger.Logger,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		productRepo:  productRepo,
		ledgerRepo:   ledgerRepo,
		statements:   statements,
		statementTTL: statementTTL,
		log:          log,
		now:          time.Now,
	}
}

// RecordPurchase appends a positive purchase entry.
func (uc *StockLedgerUseCase) RecordPurchase(ctx context.Context, in dto.RecordEntryRequest) (*dto.LedgerEntryResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	entry := uc.newEntry(entity.EntryTypePurchase, in.ProductID, in.Quantity, in)
	if err := uc.Append(ctx, entry); err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// RecordReturn appends a positive return entry (customer return back
// into stock).
func (uc *StockLedgerUseCase) RecordReturn(ctx context.Context, in dto.RecordEntryRequest) (*dto.LedgerEntryResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	entry := uc.newEntry(entity.EntryTypeReturn, in.ProductID, in.Quantity, in)
	if err := uc.Append(ctx, entry); err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// RecordAdjustment appends a signed adjustment entry. Negative
// adjustments go through the stock-sufficiency gate.
func (uc *StockLedgerUseCase) RecordAdjustment(ctx context.Context, in dto.RecordEntryRequest) (*dto.LedgerEntryResponse, error) {
	entry := uc.newEntry(entity.EntryTypeAdjustment, in.ProductID, in.Quantity, in)
	var err error
	if entry.Reduces() {
		err = uc.AppendIfSufficientStock(ctx, entry)
	} else {
		err = uc.Append(ctx, entry)
	}
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// Append inserts one immutable ledger entry and bumps the product's
// cached stock. Rejects a zero delta and an unknown product.
func (uc *StockLedgerUseCase) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if entry.QuantityDelta.IsZero() {
		return &domain.ValidationError{Field: "quantity_delta", Reason: "must be nonzero"}
	}
	product, err := uc.productRepo.GetByID(entry.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.ValidationError{Field: "product_id", Reason: "product does not exist"}
	}
	if err := uc.ledgerRepo.Append(entry); err != nil {
		return err
	}
	uc.invalidateStatement(ctx, entry.ProductID)
	uc.log.Debug().
		Str("product_id", entry.ProductID).
		Str("type", entry.Type).
		Str("delta", entry.QuantityDelta.String()).
		Msg("ledger entry appended")
	return nil
}

// AppendIfSufficientStock appends a stock-reducing entry only when the
// post-transaction balance stays non-negative. Entries that add stock
// are appended directly.
func (uc *StockLedgerUseCase) AppendIfSufficientStock(ctx context.Context, entry *entity.LedgerEntry) error {
	if entry.QuantityDelta.IsZero() {
		return &domain.ValidationError{Field: "quantity_delta", Reason: "must be nonzero"}
	}
	product, err := uc.productRepo.GetByID(entry.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.ValidationError{Field: "product_id", Reason: "product does not exist"}
	}
	if entry.Reduces() && product.CurrentStock.Add(entry.QuantityDelta).IsNegative() {
		return &domain.InsufficientStockError{Shortages: []domain.StockShortage{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   entry.QuantityDelta.Neg(),
			Available:   product.CurrentStock,
		}}}
	}
	if err := uc.ledgerRepo.Append(entry); err != nil {
		return err
	}
	uc.invalidateStatement(ctx, entry.ProductID)
	return nil
}

// Statement returns the product's ordered ledger with running balances.
// Served from cache when possible; appends invalidate the key.
func (uc *StockLedgerUseCase) Statement(ctx context.Context, productID string) (*dto.LedgerStatementResponse, error) {
	if cached, ok, err := uc.statements.Get(ctx, productID); err == nil && ok {
		return cached, nil
	} else if err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("statement cache read failed")
	}

	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.ledgerRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}

	balances := ledger.Replay(decimal.Zero, entries)
	statement := &dto.LedgerStatementResponse{
		ProductID:    product.ID,
		ProductName:  product.Name,
		CurrentStock: product.CurrentStock,
		Lines:        make([]dto.StatementLine, 0, len(balances)),
	}
	for _, rb := range balances {
		statement.Lines = append(statement.Lines, dto.StatementLine{
			Entry:   *toEntryResponse(rb.Entry),
			Balance: rb.Balance,
		})
	}

	if err := uc.statements.Set(ctx, productID, statement, uc.statementTTL); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("statement cache write failed")
	}
	return statement, nil
}

// CurrentBalance serves the cached current_stock counter. A full replay
// of the product's ledger must always agree with it; divergence is a
// correctness bug.
func (uc *StockLedgerUseCase) CurrentBalance(_ context.Context, productID string) (decimal.Decimal, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return product.CurrentStock, nil
}

func (uc *StockLedgerUseCase) newEntry(entryType, productID string, delta decimal.Decimal, in dto.RecordEntryRequest) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:            uuid.New().String(),
		ProductID:     productID,
		Type:          entryType,
		QuantityDelta: delta,
		UnitCost:      in.UnitCost,
		ReferenceNo:   in.ReferenceNo,
		Notes:         in.Notes,
		CreatedAt:     uc.now(),
	}
}

func (uc *StockLedgerUseCase) invalidateStatement(ctx context.Context, productID string) {
	if err := uc.statements.Invalidate(ctx, productID); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("statement cache invalidation failed")
	}
}

func toEntryResponse(e *entity.LedgerEntry) *dto.LedgerEntryResponse {
	return &dto.LedgerEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		Type:          e.Type,
		QuantityDelta: e.QuantityDelta,
		UnitCost:      e.UnitCost,
		ReferenceNo:   e.ReferenceNo,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}
