package subscription

import (
	"time"

	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/bind"
	"mealplan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	ID                uint                `json:"id"`
	CustomerID        uint                `json:"customerId"`
	Plan              models.Plan         `json:"plan"`
	DailyMacroTargets models.MacroTargets `json:"dailyMacroTargets"`
	PeriodStart       string              `json:"periodStart"`
	PeriodEnd         string              `json:"periodEnd"`
	Status            string              `json:"status"`
}

func toResponse(s *models.Subscription) Response {
	return Response{
		ID:                s.ID,
		CustomerID:        s.CustomerID,
		Plan:              s.Plan,
		DailyMacroTargets: s.DailyMacroTargets,
		PeriodStart:       models.FormatDate(s.PeriodStart),
		PeriodEnd:         models.FormatDate(s.PeriodEnd),
		Status:            string(s.Status),
	}
}

// GET /api/subscriptions/me?date=2026-03-02 (customer, date defaults to today)
func MySubscriptionHandler(svc *Service, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day := models.DateOnly(time.Now().In(loc))
		if q := c.Query("date"); q != "" {
			d, err := models.ParseDate(q)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			day = d
		}
		tc := auth.Tenant(c)
		sub, err := svc.Active(c.UserContext(), tc, tc.ActorID(), day)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(sub))
	}
}

// POST /api/subscriptions (staff)
func CreateSubscriptionHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInput
		if err := bind.JSON(c, &body); err != nil {
			return err
		}
		sub, err := svc.Create(c.UserContext(), auth.Tenant(c), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(sub))
	}
}
