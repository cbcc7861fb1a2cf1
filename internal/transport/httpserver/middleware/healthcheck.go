// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
)

// readinessTimeout bounds the dependency pings of one readiness probe.
const readinessTimeout = 2 * time.Second

// Pinger is a dependency the service needs to serve traffic.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names a Pinger for health reporting.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (snapshot store reachable, Redis up when caching)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(checks ...ReadinessCheck) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			for _, err := range RunChecks(c.UserContext(), checks) {
				if err != nil {
					return false
				}
			}
			return true
		},
	})
}

// RunChecks pings every dependency and returns the error of each by name.
func RunChecks(ctx context.Context, checks []ReadinessCheck) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	results := make(map[string]error, len(checks))
	for _, check := range checks {
		results[check.Name] = check.Pinger.Ping(ctx)
	}

	return results
}
