package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/usecase"
)

// ProductHandler handles the product catalog endpoints.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler builds the handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "sku, name, unit_price (tax-inclusive), tax_rate, min_stock, initial_stock"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// Update godoc
// @Summary      Update a product (stock is not updatable here)
// @Tags         products
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Product ID"
// @Param        body  body  dto.UpdateProductRequest  true  "fields to change"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Security     ApiKeyAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	products, err := h.uc.List(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

// LowStock godoc
// @Summary      List active products at or below their minimum stock
// @Tags         products
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.uc.ListLowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

// Delete godoc
// @Summary      Delete a product (blocked while invoices or ledger entries reference it)
// @Tags         products
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
