package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestContext gives every handler a user context that is cancelled
// after timeout or once the handler chain returns.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
