package server

import (
	"errors"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the single place errors become HTTP responses. Anything
// that is not an apperr or fiber error is logged in full and answered with a
// generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	log := logger.WithCtx(c.UserContext())

	if e, ok := apperr.From(err); ok {
		if e.Status >= fiber.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(e.Status).JSON(e.Envelope())
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		e := apperr.New(fe.Code, apperr.StatusCode(fe.Code), fe.Message)
		return c.Status(fe.Code).JSON(e.Envelope())
	}

	log.Error("unexpected error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(apperr.Internal.Status).JSON(apperr.Internal.Envelope())
}
