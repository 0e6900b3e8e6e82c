package notification

import (
	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/bind"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/wire"

	"github.com/gofiber/fiber/v2"
)

func toResponse(n *models.Notification) wire.NotificationResponse {
	return wire.NotificationResponse{
		ID:        n.ID,
		OrderID:   n.OrderID,
		Kind:      string(n.Kind),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// POST /api/orders/:id/notify (staff)
func NotifyReadyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		res, err := svc.NotifyReady(c.UserContext(), auth.Tenant(c), id)
		if err != nil {
			return err
		}
		status := fiber.StatusCreated
		if res.AlreadyNotified {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(wire.NotifyResponse{
			NotificationID:  res.Notification.ID,
			Sent:            !res.AlreadyNotified,
			AlreadyNotified: res.AlreadyNotified,
		})
	}
}

// GET /api/notifications (customer)
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext(), auth.Tenant(c))
		if err != nil {
			return err
		}
		out := make([]wire.NotificationResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toResponse(&rows[i]))
		}
		return c.JSON(out)
	}
}

// PATCH /api/notifications/:id (customer)
func MarkReadHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		var body wire.MarkReadRequest
		if err := bind.JSON(c, &body); err != nil {
			return err
		}
		n, err := svc.MarkRead(c.UserContext(), auth.Tenant(c), id, *body.IsRead)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(n))
	}
}
