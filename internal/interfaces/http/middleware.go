package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
)

// APIKeyMiddleware gates the API behind a static shared secret carried
// in the X-API-Key header. An empty configured key disables the gate
// (local development).
func APIKeyMiddleware(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}
		provided := c.Get("X-API-Key")
		if provided == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_API_KEY", Message: "X-API-Key header required",
			})
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "INVALID_API_KEY", Message: "invalid API key",
			})
		}
		return c.Next()
	}
}
