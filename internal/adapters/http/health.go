package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/areaselector/internal/pkg/metrics"
)

// HealthHandler returns a basic liveness check with the live polygon count.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"uptime":   time.Since(startedAt).String(),
			"version":  "dev",
			"polygons": len(deps.Editor.List()),
		})
	}
}

// backendCheck tests one optional backend. A nil run means the backend
// is not configured.
type backendCheck struct {
	name string
	run  func(ctx context.Context) string
}

func backendChecks(deps *Dependencies) []backendCheck {
	checks := []backendCheck{{name: "database"}, {name: "nats"}, {name: "cache"}}

	if deps.DB != nil {
		checks[0].run = func(ctx context.Context) string {
			defer metrics.UpdateDBPoolMetrics(deps.DB.Pool.Stat())
			if err := deps.DB.Pool.Ping(ctx); err != nil {
				return "error: " + err.Error()
			}
			return "ok"
		}
	}
	if deps.NATS != nil {
		checks[1].run = func(context.Context) string {
			if !deps.NATS.IsConnected() {
				return "disconnected"
			}
			return "ok"
		}
	}
	if deps.Cache != nil {
		checks[2].run = func(ctx context.Context) string {
			if err := deps.Cache.Ping(ctx); err != nil {
				return "error: " + err.Error()
			}
			return "ok"
		}
	}
	return checks
}

// ReadyHandler checks every configured backend. The editor works in memory,
// so backends that are not configured do not fail readiness.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		results := make(map[string]string)
		ready := true
		for _, chk := range backendChecks(deps) {
			if chk.run == nil {
				results[chk.name] = "not configured"
				continue
			}
			res := chk.run(ctx)
			results[chk.name] = res
			if res != "ok" {
				ready = false
			}
		}

		if !ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "checks": results})
		}
		return c.JSON(fiber.Map{"status": "ready", "checks": results})
	}
}
