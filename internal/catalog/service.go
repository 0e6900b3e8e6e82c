package catalog

import (
	"context"
	"fmt"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/cache"
	"mealplan-backend/internal/logger"
	"mealplan-backend/internal/metrics"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"

	"golang.org/x/sync/singleflight"
)

var ErrInvalidCategory = apperr.Validation("INVALID_CATEGORY", "category must be protein, carb or snack")

// Service reads the tenant's menu. Candidate lists are cached per
// tenant/category; concurrent misses for the same key share one query.
type Service struct {
	store *repository.Store
	cache cache.Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewService(store *repository.Store, c cache.Cache, ttl time.Duration) *Service {
	return &Service{store: store, cache: c, ttl: ttl}
}

func cacheKey(tenantID uint, category models.MealCategory) string {
	return fmt.Sprintf("catalog:%d:%s", tenantID, category)
}

// Candidates lists the active items of one category, name ordered.
func (s *Service) Candidates(ctx context.Context, tc tenant.Context, category models.MealCategory) ([]models.MenuItem, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	tid, err := tc.RequireTenant()
	if err != nil {
		return nil, err
	}
	key := cacheKey(tid, category)

	var items []models.MenuItem
	if s.cache != nil {
		if s.cache.Get(ctx, key, &items) {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return items, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		rows, err := s.store.MenuItems().Find(ctx, tc, repository.Query{
			Filter: repository.Filter{"category": category, "is_active": true},
			Order:  "name asc, id asc",
		})
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, rows, s.ttl); err != nil {
				logger.WithCtx(ctx).Warn("catalog cache set failed", "key", key, "error", err)
			}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.MenuItem), nil
}

// Lookup loads items by id from the authoritative store, never the cache.
// Ids that are missing or belong to another tenant are simply absent.
func (s *Service) Lookup(ctx context.Context, tc tenant.Context, ids []uint) (map[uint]models.MenuItem, error) {
	out := make(map[uint]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.store.MenuItems().Find(ctx, tc, repository.Query{Filter: repository.Filter{"id": uniq(ids)}})
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

type CreateItemInput struct {
	Name               string              `json:"name" validate:"required,max=150"`
	Category           models.MealCategory `json:"category" validate:"required,oneof=protein carb snack"`
	AvailabilityWindow string              `json:"availabilityWindow" validate:"max=50"`
	Calories           float64             `json:"calories" validate:"gte=0"`
	ProteinGrams       float64             `json:"proteinGrams" validate:"gte=0"`
	CarbsGrams         float64             `json:"carbsGrams" validate:"gte=0"`
	IsActive           *bool               `json:"isActive"`
}

// Create adds a menu item for the caller's tenant and drops the cached list.
func (s *Service) Create(ctx context.Context, tc tenant.Context, in CreateItemInput) (*models.MenuItem, error) {
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	item := &models.MenuItem{
		Name:               in.Name,
		Category:           in.Category,
		AvailabilityWindow: in.AvailabilityWindow,
		Nutrition: models.Nutrition{
			Calories:     in.Calories,
			ProteinGrams: in.ProteinGrams,
			CarbsGrams:   in.CarbsGrams,
		},
		IsActive: active,
	}
	if err := s.store.MenuItems().Create(ctx, tc, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, item.TenantID, item.Category)
	return item, nil
}

func (s *Service) invalidate(ctx context.Context, tenantID uint, category models.MealCategory) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(tenantID, category)); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidate failed", "tenant_id", tenantID, "error", err)
	}
}

func uniq(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
