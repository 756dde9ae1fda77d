package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/billing"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
)

// CustomerHandler handles the customer directory endpoints.
type CustomerHandler struct {
	uc *billing.CustomerUseCase
}

// NewCustomerHandler builds the handler.
func NewCustomerHandler(uc *billing.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Create a customer
// @Tags         customers
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "name plus optional phone, email, gstin, address"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetByID godoc
// @Summary      Get a customer
// @Tags         customers
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// Update godoc
// @Summary      Update a customer
// @Tags         customers
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Customer ID"
// @Param        body  body  dto.UpdateCustomerRequest  true  "fields to change"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// List godoc
// @Summary      List customers
// @Tags         customers
// @Security     ApiKeyAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	customers, err := h.uc.List(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customers)
}

// Delete godoc
// @Summary      Delete a customer (blocked while invoices reference it)
// @Tags         customers
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id  path  string  true  "Customer ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
