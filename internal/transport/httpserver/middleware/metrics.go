package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"country-pulse-service/internal/metrics"
)

// Metrics records request counts and latencies by route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Route().Path is the pattern, e.g. /api/v1/countries/:code.
		route := c.Route().Path
		method := c.Method()

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		return err
	}
}
