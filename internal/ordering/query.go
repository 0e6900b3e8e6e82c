package ordering

import (
	"context"
	"sort"
	"time"

	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"
)

const selectionsAssoc = "Selections"

// Get loads one order. Customers only ever see their own; anything else,
// including another tenant's order, is ErrNotFound.
func (s *Service) Get(ctx context.Context, tc tenant.Context, id uint) (*models.Order, error) {
	order, err := s.store.Orders().FindOwned(ctx, tc, id, selectionsAssoc)
	if err != nil {
		return nil, err
	}
	sortSelections(order)
	return order, nil
}

// Mine lists the calling customer's orders, newest date first.
func (s *Service) Mine(ctx context.Context, tc tenant.Context) ([]models.Order, error) {
	if err := tc.RequireRole(models.RoleCustomer); err != nil {
		return nil, err
	}
	return s.list(ctx, tc, repository.Query{
		Filter:  repository.Filter{"customer_id": tc.ActorID()},
		Order:   "order_date desc, id desc",
		Preload: []string{selectionsAssoc},
	})
}

// ForDate lists the tenant's orders for one day in order number sequence.
func (s *Service) ForDate(ctx context.Context, tc tenant.Context, day time.Time) ([]models.Order, error) {
	if err := tc.RequireRole(models.RoleStaff); err != nil {
		return nil, err
	}
	return s.list(ctx, tc, repository.Query{
		Filter:  repository.Filter{"order_date": models.DateOnly(day)},
		Order:   "order_number asc",
		Preload: []string{selectionsAssoc},
	})
}

func (s *Service) list(ctx context.Context, tc tenant.Context, q repository.Query) ([]models.Order, error) {
	orders, err := s.store.Orders().Find(ctx, tc, q)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		sortSelections(&orders[i])
	}
	return orders, nil
}

func sortSelections(o *models.Order) {
	sort.Slice(o.Selections, func(i, j int) bool { return o.Selections[i].Slot < o.Selections[j].Slot })
}
