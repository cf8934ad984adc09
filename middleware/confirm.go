package middleware

import (
	"narration-desk/types"

	"github.com/gofiber/fiber/v2"
)

// Confirmed reports whether the request carries confirm=true.
func Confirmed(c *fiber.Ctx) bool {
	return c.Query("confirm") == "true"
}

// ConfirmRequired answers 428 for a destructive request sent without confirm=true.
func ConfirmRequired(c *fiber.Ctx) error {
	return c.Status(fiber.StatusPreconditionRequired).JSON(types.ApiResponse{
		Message: "This action cannot be undone. Repeat the request with confirm=true.",
		Status:  fiber.StatusPreconditionRequired,
	})
}

// RequireConfirm refuses destructive requests that do not carry confirm=true.
func RequireConfirm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Confirmed(c) {
			return ConfirmRequired(c)
		}
		return c.Next()
	}
}
