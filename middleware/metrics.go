package middleware

import (
	"strconv"

	"narration-desk/services/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics counts requests by method, route pattern and status code.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		code := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			} else {
				code = fiber.StatusInternalServerError
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.ObserveHTTP(c.Method(), route, strconv.Itoa(code))
		return err
	}
}
