package subscription

import (
	"context"
	"net/http"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"
)

var (
	ErrNoActiveSubscription = apperr.New(http.StatusForbidden, apperr.CodeNoActiveSubscription, "no active subscription for this date")
	ErrUnknownCustomer      = apperr.Validation("UNKNOWN_CUSTOMER", "customer does not exist in this tenant")
	ErrInvalidPlan          = apperr.Validation("INVALID_PLAN", "subscription plan or period is invalid")
)

type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

// Active returns the customer's active subscription covering day. A paused
// subscription, or one whose period excludes day, counts as none.
func (s *Service) Active(ctx context.Context, tc tenant.Context, customerID uint, day time.Time) (*models.Subscription, error) {
	rows, err := s.store.Subscriptions().Find(ctx, tc, repository.Query{
		Filter: repository.Filter{"customer_id": customerID, "status": models.SubscriptionActive},
		Order:  "period_start desc, id desc",
	})
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Covers(day) {
			return &rows[i], nil
		}
	}
	return nil, ErrNoActiveSubscription
}

type CreateInput struct {
	CustomerID    uint    `json:"customerId" validate:"required"`
	MealsPerDay   int     `json:"mealsPerDay" validate:"required,min=1,max=5"`
	IncludesSnack bool    `json:"includesSnack"`
	ProteinGrams  float64 `json:"proteinGrams" validate:"gte=0"`
	CarbsGrams    float64 `json:"carbsGrams" validate:"gte=0"`
	PeriodStart   string  `json:"periodStart" validate:"required,datetime=2006-01-02"`
	PeriodEnd     string  `json:"periodEnd" validate:"required,datetime=2006-01-02"`
	Paused        bool    `json:"paused"`
}

// Create registers a subscription for a customer of the caller's tenant.
func (s *Service) Create(ctx context.Context, tc tenant.Context, in CreateInput) (*models.Subscription, error) {
	users, err := s.store.TenantUsers(ctx, tc, []uint{in.CustomerID})
	if err != nil {
		return nil, err
	}
	if u, ok := users[in.CustomerID]; !ok || u.Role != models.RoleCustomer {
		return nil, ErrUnknownCustomer
	}

	if in.MealsPerDay < models.MinMealsPerDay || in.MealsPerDay > models.MaxMealsPerDay {
		return nil, ErrInvalidPlan.WithDetails(map[string]any{"field": "mealsPerDay"})
	}
	start, err := models.ParseDate(in.PeriodStart)
	if err != nil {
		return nil, ErrInvalidPlan.Wrap(err)
	}
	end, err := models.ParseDate(in.PeriodEnd)
	if err != nil {
		return nil, ErrInvalidPlan.Wrap(err)
	}
	if end.Before(start) {
		return nil, ErrInvalidPlan.WithDetails(map[string]any{"field": "periodEnd"})
	}

	status := models.SubscriptionActive
	if in.Paused {
		status = models.SubscriptionPaused
	}
	sub := &models.Subscription{
		CustomerID:        in.CustomerID,
		Plan:              models.Plan{MealsPerDay: in.MealsPerDay, IncludesSnack: in.IncludesSnack},
		DailyMacroTargets: models.MacroTargets{ProteinGrams: in.ProteinGrams, CarbsGrams: in.CarbsGrams},
		PeriodStart:       start,
		PeriodEnd:         end,
		Status:            status,
	}
	if err := s.store.Subscriptions().Create(ctx, tc, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
