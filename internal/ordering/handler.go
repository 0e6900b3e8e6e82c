package ordering

import (
	"fmt"
	"time"

	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/bind"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/wire"

	"github.com/gofiber/fiber/v2"
)

func toNutrition(n models.Nutrition) wire.Nutrition {
	return wire.Nutrition{Calories: n.Calories, ProteinGrams: n.ProteinGrams, CarbsGrams: n.CarbsGrams}
}

func toMacroTargets(m models.MacroTargets) wire.MacroTargets {
	return wire.MacroTargets{ProteinGrams: m.ProteinGrams, CarbsGrams: m.CarbsGrams}
}

func ToResponse(o *models.Order) wire.OrderResponse {
	sels := make([]wire.OrderSelection, 0, len(o.Selections))
	for _, s := range o.Selections {
		sels = append(sels, wire.OrderSelection{Slot: s.Slot, ProteinMealID: s.ProteinItemID, CarbMealID: s.CarbItemID})
	}
	return wire.OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		OrderDate:    models.FormatDate(o.OrderDate),
		Status:       string(o.Status),
		Selections:   sels,
		SnackMealID:  o.SnackItemID,
		MacroTargets: toMacroTargets(o.MacroTargetsSnapshot),
		Totals:       toNutrition(o.Totals),
		ClientTotals: toNutrition(o.ClientTotals),
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toResponses(orders []models.Order) []wire.OrderResponse {
	out := make([]wire.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToResponse(&orders[i]))
	}
	return out
}

func orderID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}

func queryDate(c *fiber.Ctx) (time.Time, error) {
	d, err := models.ParseDate(c.Query("date"))
	if err != nil {
		return time.Time{}, ErrInvalidDate.Wrap(err)
	}
	return d, nil
}

// POST /api/orders (customer)
func SubmitOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body wire.SubmitOrderRequest
		if err := bind.JSON(c, &body); err != nil {
			return err
		}
		order, err := svc.Submit(c.UserContext(), auth.Tenant(c), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(wire.SubmitOrderResponse{
			OrderID:      order.ID,
			OrderNumber:  order.OrderNumber,
			Status:       string(order.Status),
			CreatedAt:    order.CreatedAt,
			Totals:       toNutrition(order.Totals),
			MacroTargets: toMacroTargets(order.MacroTargetsSnapshot),
		})
	}
}

// GET /api/orders/mine (customer)
func MyOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := svc.Mine(c.UserContext(), auth.Tenant(c))
		if err != nil {
			return err
		}
		return c.JSON(toResponses(orders))
	}
}

// GET /api/orders?date=2026-03-02 (staff)
func ListOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := queryDate(c)
		if err != nil {
			return err
		}
		orders, err := svc.ForDate(c.UserContext(), auth.Tenant(c), day)
		if err != nil {
			return err
		}
		return c.JSON(toResponses(orders))
	}
}

// GET /api/orders/:id (staff, customer)
func GetOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := orderID(c)
		if err != nil {
			return err
		}
		order, err := svc.Get(c.UserContext(), auth.Tenant(c), id)
		if err != nil {
			return err
		}
		return c.JSON(ToResponse(order))
	}
}

// PATCH /api/orders/:id/status (staff)
func UpdateStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := orderID(c)
		if err != nil {
			return err
		}
		var body wire.UpdateStatusRequest
		if err := bind.JSON(c, &body); err != nil {
			return err
		}
		order, err := svc.UpdateStatus(c.UserContext(), auth.Tenant(c), id, body.Status)
		if err != nil {
			return err
		}
		return c.JSON(wire.StatusResponse{OrderID: order.ID, Status: string(order.Status), UpdatedAt: order.UpdatedAt})
	}
}

// GET /api/orders/export?date=2026-03-02 (staff)
func ExportKitchenSheetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := queryDate(c)
		if err != nil {
			return err
		}
		data, err := svc.KitchenSheet(c.UserContext(), auth.Tenant(c), day)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="kitchen-%s.xlsx"`, models.FormatDate(day)))
		return c.Send(data)
	}
}
