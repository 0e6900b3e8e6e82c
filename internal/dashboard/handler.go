package dashboard

import (
	"strconv"

	"mealplan-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/order-chart?period=weekly&count=8 (staff)
func OrderChartHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := 0
		if raw := c.Query("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return ErrInvalidCount
			}
			count = n
		}

		resp, err := svc.OrderChart(c.UserContext(), auth.Tenant(c), Period(c.Query("period")), count)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}
