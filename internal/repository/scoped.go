package repository

import (
	"context"

	"mealplan-backend/internal/models"
	"mealplan-backend/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tenantColumn = "tenant_id"

// Scoped is the tenant-filtered view of one model type.
type Scoped[T any, PT interface {
	*T
	models.TenantOwned
}] struct {
	db *gorm.DB
}

func (r Scoped[T, PT]) scope(ctx context.Context, tc tenant.Context) (*gorm.DB, uint, error) {
	tid, err := tc.RequireTenant()
	if err != nil {
		return nil, 0, err
	}
	return r.db.WithContext(ctx).Model(PT(new(T))).Where(tenantColumn+" = ?", tid), tid, nil
}

// mergeTenant strips a tenant key from m after checking it agrees with tid.
func mergeTenant(m map[string]any, tid uint) (map[string]any, error) {
	v, ok := m[tenantColumn]
	if !ok {
		return m, nil
	}
	if !sameTenant(v, tid) {
		return nil, ErrTenantMismatch
	}
	out := make(map[string]any, len(m)-1)
	for k, val := range m {
		if k != tenantColumn {
			out[k] = val
		}
	}
	return out, nil
}

func sameTenant(v any, tid uint) bool {
	switch n := v.(type) {
	case uint:
		return n == tid
	case *uint:
		return n != nil && *n == tid
	case int:
		return n >= 0 && uint(n) == tid
	case int64:
		return n >= 0 && uint(n) == tid
	case uint64:
		return uint(n) == tid
	}
	return false
}

func (r Scoped[T, PT]) query(ctx context.Context, tc tenant.Context, q Query) (*gorm.DB, error) {
	db, tid, err := r.scope(ctx, tc)
	if err != nil {
		return nil, err
	}
	filter, err := mergeTenant(q.Filter, tid)
	if err != nil {
		return nil, err
	}
	if len(filter) > 0 {
		db = db.Where(map[string]any(filter))
	}
	for _, rg := range q.Ranges {
		if rg.Column == tenantColumn {
			return nil, ErrTenantMismatch
		}
		col := clause.Column{Name: rg.Column}
		if rg.From != nil {
			db = db.Where(clause.Gte{Column: col, Value: rg.From})
		}
		if rg.To != nil {
			db = db.Where(clause.Lte{Column: col, Value: rg.To})
		}
	}
	for _, p := range q.Preload {
		db = db.Preload(p)
	}
	if q.Order != "" {
		db = db.Order(q.Order)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db, nil
}

func (r Scoped[T, PT]) Find(ctx context.Context, tc tenant.Context, q Query) ([]T, error) {
	db, err := r.query(ctx, tc, q)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := db.Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// FindOne returns ErrNotFound when nothing in the caller's tenant matches.
func (r Scoped[T, PT]) FindOne(ctx context.Context, tc tenant.Context, q Query) (*T, error) {
	db, err := r.query(ctx, tc, q)
	if err != nil {
		return nil, err
	}
	var row T
	if err := db.Take(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// FindOwned loads a customer-owned row by id. Customers get the compound
// {tenant_id, id, customer_id} filter in the same query; staff get tenant only.
func (r Scoped[T, PT]) FindOwned(ctx context.Context, tc tenant.Context, id uint, preload ...string) (*T, error) {
	filter := Filter{"id": id}
	if tc.Role() == models.RoleCustomer {
		filter["customer_id"] = tc.ActorID()
	}
	return r.FindOne(ctx, tc, Query{Filter: filter, Preload: preload})
}

func (r Scoped[T, PT]) Count(ctx context.Context, tc tenant.Context, q Query) (int64, error) {
	db, err := r.query(ctx, tc, Query{Filter: q.Filter, Ranges: q.Ranges})
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// Create stamps the caller's tenant on entity. A different non-zero tenant
// already on the payload is rejected rather than overwritten.
func (r Scoped[T, PT]) Create(ctx context.Context, tc tenant.Context, entity PT) error {
	tid, err := tc.RequireTenant()
	if err != nil {
		return err
	}
	if owner := entity.OwnerTenantID(); owner != 0 && owner != tid {
		return ErrTenantMismatch
	}
	entity.AssignTenant(tid)
	return translate(r.db.WithContext(ctx).Create(entity).Error)
}

// Update applies updates to the rows matching filter within the caller's
// tenant and returns ErrNotFound when nothing matched.
func (r Scoped[T, PT]) Update(ctx context.Context, tc tenant.Context, filter Filter, updates map[string]any) error {
	db, tid, err := r.scope(ctx, tc)
	if err != nil {
		return err
	}
	if updates, err = mergeTenant(updates, tid); err != nil {
		return err
	}
	if filter, err = mergeTenant(filter, tid); err != nil {
		return err
	}
	if len(filter) > 0 {
		db = db.Where(map[string]any(filter))
	}
	res := db.Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
