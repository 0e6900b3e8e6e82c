// Package ordering accepts customer orders and moves them through the
// kitchen lifecycle.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/audit"
	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/logger"
	"mealplan-backend/internal/metrics"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/subscription"
	"mealplan-backend/internal/tenant"
	"mealplan-backend/internal/wire"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxSnacks = 1

type Service struct {
	store   *repository.Store
	subs    *subscription.Service
	catalog *catalog.Service
	tracer  trace.Tracer
	now     func() time.Time
}

func NewService(store *repository.Store, subs *subscription.Service, cat *catalog.Service) *Service {
	return &Service{
		store:   store,
		subs:    subs,
		catalog: cat,
		tracer:  otel.Tracer("mealplan-backend/ordering"),
		now:     time.Now,
	}
}

// Submit validates req against the customer's plan and the tenant catalog
// and persists it as a new order in status received. Every check runs before
// the single write transaction, so a rejected submission writes nothing.
func (s *Service) Submit(ctx context.Context, tc tenant.Context, req wire.SubmitOrderRequest) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "ordering.Submit")
	defer span.End()

	order, err := s.submit(ctx, tc, req)
	result := "accepted"
	if err != nil {
		result = resultLabel(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
	} else {
		span.SetAttributes(
			attribute.Int64("order.id", int64(order.ID)),
			attribute.Int64("order.number", int64(order.OrderNumber)),
		)
	}
	metrics.OrdersSubmitted.WithLabelValues(result).Inc()
	return order, err
}

func (s *Service) submit(ctx context.Context, tc tenant.Context, req wire.SubmitOrderRequest) (*models.Order, error) {
	if err := tc.RequireRole(models.RoleCustomer); err != nil {
		return nil, err
	}
	if _, err := tc.RequireTenant(); err != nil {
		return nil, err
	}
	day, err := models.ParseDate(req.OrderDate)
	if err != nil {
		return nil, ErrInvalidDate.Wrap(err)
	}

	sub, err := s.subs.Active(ctx, tc, tc.ActorID(), day)
	if err != nil {
		return nil, err
	}

	if len(req.Selections) != sub.Plan.MealsPerDay {
		return nil, ErrPlanMismatch.WithDetails(map[string]any{
			"expected": sub.Plan.MealsPerDay,
			"received": len(req.Selections),
		})
	}

	if len(req.SnackMealIDs) > maxSnacks {
		return nil, ErrSnackNotAllowed.WithDetails(map[string]any{"max": maxSnacks, "received": len(req.SnackMealIDs)})
	}
	if len(req.SnackMealIDs) > 0 && !sub.Plan.IncludesSnack {
		return nil, ErrSnackNotAllowed.WithDetails(map[string]any{"includesSnack": false})
	}

	totals, err := s.checkReferences(ctx, tc, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Orders().Count(ctx, tc, repository.Query{
		Filter: repository.Filter{"customer_id": tc.ActorID(), "order_date": day},
	})
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrOrderAlreadyExists.WithDetails(map[string]any{"orderDate": req.OrderDate})
	}

	order := &models.Order{
		CustomerID:           tc.ActorID(),
		OrderDate:            day,
		Status:               models.OrderReceived,
		MacroTargetsSnapshot: sub.DailyMacroTargets,
		Totals:               totals,
		Notes:                req.Notes,
		Selections:           make([]models.OrderSelection, 0, len(req.Selections)),
	}
	for i, sel := range req.Selections {
		order.Selections = append(order.Selections, models.OrderSelection{
			Slot:          i,
			ProteinItemID: sel.ProteinMealID,
			CarbItemID:    sel.CarbMealID,
		})
	}
	if len(req.SnackMealIDs) == 1 {
		snack := req.SnackMealIDs[0]
		order.SnackItemID = &snack
	}
	if req.Totals != nil {
		order.ClientTotals = models.Nutrition{
			Calories:     req.Totals.Calories,
			ProteinGrams: req.Totals.ProteinGrams,
			CarbsGrams:   req.Totals.CarbsGrams,
		}
	}

	err = s.store.Tx(ctx, func(tx *repository.Store) error {
		number, err := tx.NextOrderNumber(ctx, tc)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := tx.Orders().Create(ctx, tc, order); err != nil {
			return err
		}
		return audit.WriteLog(ctx, tx, tc, audit.LogOptions{
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("order #%d for %s", order.OrderNumber, req.OrderDate),
			After:       order,
		})
	})
	if err != nil {
		// the unique index on (tenant, customer, date) is what actually
		// settles a race between two submissions
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrOrderAlreadyExists.WithDetails(map[string]any{"orderDate": req.OrderDate}).Wrap(err)
		}
		return nil, err
	}

	logger.WithCtx(ctx).Info("order accepted",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"tenant_id", order.TenantID,
		"customer_id", order.CustomerID,
		"order_date", req.OrderDate,
	)
	return order, nil
}

// checkReferences verifies every meal id against the tenant's catalog and
// returns the nutrition totals computed from the catalog rows.
func (s *Service) checkReferences(ctx context.Context, tc tenant.Context, req wire.SubmitOrderRequest) (models.Nutrition, error) {
	ids := make([]uint, 0, len(req.Selections)*2+len(req.SnackMealIDs))
	for _, sel := range req.Selections {
		ids = append(ids, sel.ProteinMealID, sel.CarbMealID)
	}
	ids = append(ids, req.SnackMealIDs...)

	items, err := s.catalog.Lookup(ctx, tc, ids)
	if err != nil {
		return models.Nutrition{}, err
	}

	var total models.Nutrition
	check := func(field string, id uint, want models.MealCategory) error {
		item, ok := items[id]
		if !ok || !item.IsActive || item.Category != want {
			return ErrInvalidMealReference.WithDetails(map[string]any{
				"field":    field,
				"mealId":   id,
				"expected": string(want),
			})
		}
		total = total.Add(item.Nutrition)
		return nil
	}

	for i, sel := range req.Selections {
		if err := check(fmt.Sprintf("selections[%d].proteinMealId", i), sel.ProteinMealID, models.CategoryProtein); err != nil {
			return models.Nutrition{}, err
		}
		if err := check(fmt.Sprintf("selections[%d].carbMealId", i), sel.CarbMealID, models.CategoryCarb); err != nil {
			return models.Nutrition{}, err
		}
	}
	for i, id := range req.SnackMealIDs {
		if err := check(fmt.Sprintf("snackMealIds[%d]", i), id, models.CategorySnack); err != nil {
			return models.Nutrition{}, err
		}
	}
	return total, nil
}

// resultLabel turns a rejection into a bounded metric label.
func resultLabel(err error) string {
	e, ok := apperr.From(err)
	if !ok {
		return apperr.CodeInternal
	}
	if reason, ok := e.Details["reason"].(string); ok && e.Code == apperr.CodeValidation {
		return reason
	}
	return e.Code
}
