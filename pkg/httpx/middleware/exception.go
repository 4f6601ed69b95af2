package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/log"
)

// ExceptionMiddleware recovers panics and returns a generic 500. Stack
// traces go to the log, never to the client.
func ExceptionMiddleware(c *fiber.Ctx) error {
	defer func() {
		if err := recover(); err != nil {
			log.Errorf("panic: %v\n%s", err, debug.Stack())
			_ = httpx.WithMessage(c, fiber.StatusInternalServerError, "internal server error")
		}
	}()

	return c.Next()
}
