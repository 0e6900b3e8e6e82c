package catalog

import (
	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/bind"
	"mealplan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/menu-items?category=protein
func ListMenuItemsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Candidates(c.UserContext(), auth.Tenant(c), models.MealCategory(c.Query("category")))
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// POST /api/menu-items (staff)
func CreateMenuItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemInput
		if err := bind.JSON(c, &body); err != nil {
			return err
		}
		item, err := svc.Create(c.UserContext(), auth.Tenant(c), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}
