package ordering

import (
	"context"
	"errors"
	"fmt"

	"mealplan-backend/internal/audit"
	"mealplan-backend/internal/logger"
	"mealplan-backend/internal/metrics"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CanTransition reports whether an order may move from one status to another.
// Moves are forward or to the same status; skipping ahead is allowed.
func CanTransition(from, to models.OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return to.Rank() >= from.Rank()
}

// UpdateStatus moves an order of the caller's tenant to status. Setting the
// current status again is a no-op that still succeeds.
func (s *Service) UpdateStatus(ctx context.Context, tc tenant.Context, orderID uint, status string) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "ordering.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)), attribute.String("order.status", status))

	order, err := s.updateStatus(ctx, tc, orderID, models.OrderStatus(status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status update rejected")
	}
	return order, err
}

func (s *Service) updateStatus(ctx context.Context, tc tenant.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if err := tc.RequireRole(models.RoleStaff); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, ErrInvalidStatus.WithDetails(map[string]any{"status": string(next)})
	}

	var order *models.Order
	changed := false
	err := s.store.Tx(ctx, func(tx *repository.Store) error {
		current, err := tx.Orders().FindOwned(ctx, tc, orderID)
		if err != nil {
			return err
		}
		order = current
		from := current.Status

		if !CanTransition(from, next) {
			return ErrInvalidStatusTransition.WithDetails(map[string]any{"from": string(from), "to": string(next)})
		}
		if from == next {
			return nil
		}

		now := s.now()
		// compare-and-set on the status read above; a concurrent move wins
		err = tx.Orders().Update(ctx, tc,
			repository.Filter{"id": orderID, "status": from},
			map[string]any{"status": next, "updated_at": now},
		)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStatusChanged
		}
		if err != nil {
			return err
		}
		order.Status = next
		order.UpdatedAt = now
		changed = true

		return audit.WriteLog(ctx, tx, tc, audit.LogOptions{
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionStatusChange,
			Description: fmt.Sprintf("order #%d %s -> %s", order.OrderNumber, from, next),
			Before:      map[string]any{"status": from},
			After:       map[string]any{"status": next},
		})
	})
	if err != nil {
		return nil, err
	}

	if changed {
		metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
		logger.WithCtx(ctx).Info("order status changed",
			"order_id", order.ID,
			"tenant_id", order.TenantID,
			"status", next,
		)
	}
	return order, nil
}
