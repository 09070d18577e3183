package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the single error shape the API returns; every failure
// kind, including invalid-credentials, looks identical on the wire.
type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}
