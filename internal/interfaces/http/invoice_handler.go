package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/billing"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
)

// InvoiceHandler handles the invoice lifecycle endpoints.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Create an invoice
// @Description  Allocates the invoice number, computes the GST decomposition, persists
//
//	the invoice and records one sale ledger entry per product-backed line.
//
// @Tags         invoices
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "customer_id or guest_name, items"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID godoc
// @Summary      Get an invoice with its items
// @Tags         invoices
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoice)
}

// Update godoc
// @Summary      Edit an invoice
// @Description  Replaces the item set and adjusts stock by the per-product quantity
//
//	difference between the old and new items.
//
// @Tags         invoices
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Invoice ID"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "replacement header fields and items"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoice)
}

// Delete godoc
// @Summary      Delete an invoice and restore its sold stock
// @Tags         invoices
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      List invoices, newest first
// @Tags         invoices
// @Security     ApiKeyAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	invoices, err := h.uc.List(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoices)
}
