package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/pkg/httpx"
)

func (rt *Router) healthRouter(r fiber.Router) {
	r.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// readiness: pings the database through the pooled connection
	r.Get("/health/db", func(c *fiber.Ctx) error {
		sqlDB, err := rt.Ctx.DB.DB()
		if err != nil {
			return httpx.WithMessage(c, fiber.StatusServiceUnavailable, "database unavailable")
		}
		if err := sqlDB.PingContext(c.UserContext()); err != nil {
			return httpx.WithMessage(c, fiber.StatusServiceUnavailable, "database unavailable")
		}
		return httpx.WithData(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})
}
