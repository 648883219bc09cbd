package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/planora/backoffice/internal/pkg/logging"
)

// RequestIDLogMiddleware stores a request-scoped *slog.Logger with the
// request ID baked in, so usecases and repos can log through
// logging.FromContext.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ridStr, _ := c.Locals("requestid").(string)
		if ridStr == "" {
			return c.Next()
		}

		reqLogger := slog.Default().With("request_id", ridStr)
		c.SetUserContext(logging.WithLogger(c.UserContext(), reqLogger))

		return c.Next()
	}
}
