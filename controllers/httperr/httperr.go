// Package httperr maps service errors onto HTTP status codes.
package httperr

import (
	"errors"

	"narration-desk/services/auth"
	"narration-desk/services/lifecycle"
	"narration-desk/services/storage"

	"github.com/gofiber/fiber/v2"
)

// Status returns the response code for err.
func Status(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, lifecycle.ErrValidation), errors.Is(err, storage.ErrUnsupportedType):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, lifecycle.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidState), errors.Is(err, lifecycle.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Message is safe to show to the caller: client errors carry their own text,
// server errors are replaced by fallback.
func Message(err error, fallback string) string {
	if Status(err) >= fiber.StatusInternalServerError {
		return fallback
	}
	return err.Error()
}
