package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"

	"gorm.io/datatypes"
)

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog records one audit row for the caller's tenant. Pass the Store of
// the transaction that made the change so the row commits with it.
func WriteLog(ctx context.Context, store *repository.Store, tc tenant.Context, opts LogOptions) error {
	// jsonb wants the literal null rather than an empty string
	log := models.AuditLog{
		UserID:      tc.ActorID(),
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}
	if u, err := store.UserByID(ctx, tc.ActorID()); err == nil {
		log.UserName = u.Name
	}

	if err := store.AuditLogs().Create(ctx, tc, &log); err != nil {
		return fmt.Errorf("audit log could not be written: %w", err)
	}
	return nil
}

func snapshot(v any) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
