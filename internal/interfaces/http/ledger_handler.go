package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/inventory"
)

// LedgerHandler handles the manual stock ledger endpoints.
type LedgerHandler struct {
	uc *inventory.StockLedgerUseCase
}

// NewLedgerHandler builds the handler.
func NewLedgerHandler(uc *inventory.StockLedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// RecordPurchase godoc
// @Summary      Record a stock purchase (positive quantity)
// @Tags         ledger
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEntryRequest  true  "product_id, quantity, optional unit_cost, reference_no, notes"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/purchases [post]
func (h *LedgerHandler) RecordPurchase(c *fiber.Ctx) error {
	var in dto.RecordEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.uc.RecordPurchase(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// RecordAdjustment godoc
// @Summary      Record a signed stock adjustment
// @Description  Negative quantities are rejected when they would drive stock below zero.
// @Tags         ledger
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEntryRequest  true  "product_id, signed quantity, optional reference_no, notes"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/adjustments [post]
func (h *LedgerHandler) RecordAdjustment(c *fiber.Ctx) error {
	var in dto.RecordEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.uc.RecordAdjustment(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// RecordReturn godoc
// @Summary      Record a customer return back into stock (positive quantity)
// @Tags         ledger
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEntryRequest  true  "product_id, quantity, optional reference_no, notes"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/returns [post]
func (h *LedgerHandler) RecordReturn(c *fiber.Ctx) error {
	var in dto.RecordEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.uc.RecordReturn(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Statement godoc
// @Summary      Product ledger statement with running balance
// @Tags         ledger
// @Security     ApiKeyAuth
// @Produce      json
// @Param        productId  path  string  true  "Product ID"
// @Success      200  {object}  dto.LedgerStatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productId}/statement [get]
func (h *LedgerHandler) Statement(c *fiber.Ctx) error {
	statement, err := h.uc.Statement(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(statement)
}

// Balance godoc
// @Summary      Current stock balance of a product
// @Tags         ledger
// @Security     ApiKeyAuth
// @Produce      json
// @Param        productId  path  string  true  "Product ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productId}/balance [get]
func (h *LedgerHandler) Balance(c *fiber.Ctx) error {
	balance, err := h.uc.CurrentBalance(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id": c.Params("productId"),
		"balance":    balance,
	})
}
