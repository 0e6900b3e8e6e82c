package audit

import (
	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const maxListed = 200

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"createdAt"`
	UserID      uint               `json:"userId"`
	UserName    string             `json:"userName"`
	EntityType  string             `json:"entityType"`
	EntityID    uint               `json:"entityId"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	Before      datatypes.JSON     `json:"before"`
	After       datatypes.JSON     `json:"after"`
}

// GET /api/audit-logs?entity_type=order&entity_id=1&user_id=3 (staff)
func ListAuditLogsHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := repository.Filter{}
		if v := c.Query("entity_type"); v != "" {
			filter["entity_type"] = v
		}
		if v := c.QueryInt("entity_id"); v > 0 {
			filter["entity_id"] = uint(v)
		}
		if v := c.QueryInt("user_id"); v > 0 {
			filter["user_id"] = uint(v)
		}

		logs, err := store.AuditLogs().Find(c.UserContext(), auth.Tenant(c), repository.Query{
			Filter: filter,
			Order:  "created_at desc, id desc",
			Limit:  maxListed,
		})
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          log.ID,
				CreatedAt:   log.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      log.UserID,
				UserName:    log.UserName,
				EntityType:  log.EntityType,
				EntityID:    log.EntityID,
				Action:      log.Action,
				Description: log.Description,
				Before:      log.BeforeData,
				After:       log.AfterData,
			})
		}
		return c.JSON(resp)
	}
}
