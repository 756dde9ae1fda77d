package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/domain"
)

// writeError maps domain errors to HTTP responses. Order matters:
// ValidationError also matches ErrInvalidInput, so the typed checks run
// before the sentinel ones.
func writeError(c *fiber.Ctx, err error) error {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: validation.Error(),
		})
	}

	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		details := make([]fiber.Map, 0, len(insufficient.Shortages))
		for _, s := range insufficient.Shortages {
			details = append(details, fiber.Map{
				"product_id":   s.ProductID,
				"product_name": s.ProductName,
				"requested":    s.Requested,
				"available":    s.Available,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: insufficient.Error(), Details: details,
		})
	}

	var referential *domain.ReferentialIntegrityError
	if errors.As(err, &referential) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "REFERENTIAL_INTEGRITY", Message: referential.Error(),
			Details: fiber.Map{
				"references": referential.References,
				"sample":     referential.Sample,
			},
		})
	}

	var partial *domain.PartialWriteError
	if errors.As(err, &partial) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "PARTIAL_WRITE", Message: partial.Error(),
			Details: fiber.Map{"steps_done": partial.StepsDone},
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: "resource not found",
		})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "DUPLICATE", Message: "resource already exists",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: err.Error(),
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "malformed request body",
	})
}
