package httperr

import (
	"errors"
	"fmt"
	"testing"

	"narration-desk/services/lifecycle"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: title is required", lifecycle.ErrValidation), fiber.StatusBadRequest},
		{"not found", fmt.Errorf("%w: booking request 9", lifecycle.ErrNotFound), fiber.StatusNotFound},
		{"transition", &lifecycle.TransitionError{From: "pending", To: "completed"}, fiber.StatusConflict},
		{"conflict", fmt.Errorf("%w: changed", lifecycle.ErrConflict), fiber.StatusConflict},
		{"store failure", errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessageHidesServerErrors(t *testing.T) {
	assert.Equal(t, "Failed to save", Message(errors.New("pq: relation does not exist"), "Failed to save"))
	assert.Equal(t, "validation failed: title is required",
		Message(fmt.Errorf("%w: title is required", lifecycle.ErrValidation), "Failed to save"))
}
