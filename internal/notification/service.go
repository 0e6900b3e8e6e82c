// Package notification sends the "order ready" notice, at most once per order.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/audit"
	"mealplan-backend/internal/logger"
	"mealplan-backend/internal/metrics"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrOrderNotReady = apperr.New(http.StatusConflict, apperr.CodeOrderNotReady, "order is not ready yet")

const DefaultPageSize = 20

type Service struct {
	store    *repository.Store
	pageSize int
	tracer   trace.Tracer
}

func NewService(store *repository.Store, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{store: store, pageSize: pageSize, tracer: otel.Tracer("mealplan-backend/notification")}
}

type Result struct {
	Notification    *models.Notification
	AlreadyNotified bool
}

// NotifyReady creates the ready notification for an order of the caller's
// tenant, or returns the existing one with AlreadyNotified set. The order
// must be ready or completed.
func (s *Service) NotifyReady(ctx context.Context, tc tenant.Context, orderID uint) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "notification.NotifyReady")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(orderID)))

	res, err := s.notifyReady(ctx, tc, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "notify rejected")
		return res, err
	}
	span.SetAttributes(attribute.Bool("notification.deduplicated", res.AlreadyNotified))
	metrics.ReadyNotifications.WithLabelValues(metrics.Bool(res.AlreadyNotified)).Inc()
	return res, nil
}

func (s *Service) notifyReady(ctx context.Context, tc tenant.Context, orderID uint) (Result, error) {
	if err := tc.RequireRole(models.RoleStaff); err != nil {
		return Result{}, err
	}
	order, err := s.store.Orders().FindOwned(ctx, tc, orderID)
	if err != nil {
		return Result{}, err
	}
	if order.Status.Rank() < models.OrderReady.Rank() {
		return Result{}, ErrOrderNotReady.WithDetails(map[string]any{"status": string(order.Status)})
	}

	if existing, err := s.existing(ctx, tc, orderID); err == nil {
		return Result{Notification: existing, AlreadyNotified: true}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Result{}, err
	}

	n := &models.Notification{
		CustomerID: order.CustomerID,
		OrderID:    order.ID,
		Kind:       models.NotificationOrderReady,
	}
	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		if err := tx.Notifications().Create(ctx, tc, n); err != nil {
			return err
		}
		return audit.WriteLog(ctx, tx, tc, audit.LogOptions{
			EntityType:  "notification",
			EntityID:    n.ID,
			Action:      models.AuditActionNotify,
			Description: fmt.Sprintf("order #%d ready notice", order.OrderNumber),
			After:       n,
		})
	})
	if errors.Is(err, repository.ErrConflict) {
		// lost the race to a concurrent request; its row is the notification
		existing, err := s.existing(ctx, tc, orderID)
		if err != nil {
			return Result{}, err
		}
		return Result{Notification: existing, AlreadyNotified: true}, nil
	}
	if err != nil {
		return Result{}, err
	}

	logger.WithCtx(ctx).Info("ready notification created",
		"notification_id", n.ID,
		"order_id", order.ID,
		"tenant_id", n.TenantID,
		"customer_id", n.CustomerID,
	)
	return Result{Notification: n}, nil
}

func (s *Service) existing(ctx context.Context, tc tenant.Context, orderID uint) (*models.Notification, error) {
	return s.store.Notifications().FindOne(ctx, tc, repository.Query{
		Filter: repository.Filter{"order_id": orderID, "kind": models.NotificationOrderReady},
	})
}

// List returns the caller's notifications, unread first then newest, one page.
func (s *Service) List(ctx context.Context, tc tenant.Context) ([]models.Notification, error) {
	if err := tc.RequireRole(models.RoleCustomer); err != nil {
		return nil, err
	}
	return s.store.Notifications().Find(ctx, tc, repository.Query{
		Filter: repository.Filter{"customer_id": tc.ActorID()},
		Order:  "is_read asc, created_at desc, id desc",
		Limit:  s.pageSize,
	})
}

// MarkRead sets the read flag on one of the caller's notifications.
func (s *Service) MarkRead(ctx context.Context, tc tenant.Context, id uint, isRead bool) (*models.Notification, error) {
	if err := tc.RequireRole(models.RoleCustomer); err != nil {
		return nil, err
	}
	owned := repository.Filter{"id": id, "customer_id": tc.ActorID()}
	if err := s.store.Notifications().Update(ctx, tc, owned, map[string]any{"is_read": isRead}); err != nil {
		return nil, err
	}
	return s.store.Notifications().FindOne(ctx, tc, repository.Query{Filter: owned})
}
