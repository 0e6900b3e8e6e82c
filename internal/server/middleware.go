package server

import (
	"time"

	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
)

// RequestLogger tags the request context with a logger carrying the request
// id and writes one line per request when it finishes.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		log := logger.L.With("request_id", rid)
		c.SetUserContext(logger.Inject(c.UserContext(), log))

		err := c.Next()
		if err != nil {
			// let the error handler write the status before we read it
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		attrs := []any{
			"method", utils.CopyString(c.Method()),
			"path", utils.CopyString(c.Path()),
			"status", c.Response().StatusCode(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if tid, ok := auth.Tenant(c).TenantID(); ok {
			attrs = append(attrs, "tenant_id", tid)
		}
		log.Info("request", attrs...)
		return nil
	}
}
