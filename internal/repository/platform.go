package repository

import (
	"context"

	"mealplan-backend/internal/models"
	"mealplan-backend/internal/tenant"
)

// Tenants are the isolation root and are never filtered by tenant. Only
// platform actors reach these through the admin routes.

func (s *Store) CreateTenant(ctx context.Context, t *models.Tenant) error {
	return translate(s.db.WithContext(ctx).Create(t).Error)
}

func (s *Store) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := s.db.WithContext(ctx).Order("name asc").Find(&tenants).Error; err != nil {
		return nil, translate(err)
	}
	return tenants, nil
}

func (s *Store) GetTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	var t models.Tenant
	if err := s.db.WithContext(ctx).Take(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// CreateUser inserts an actor; the model hook enforces the role/tenant pairing.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) UserByLoginKey(ctx context.Context, loginKey string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Take(&u, "login_key = ?", loginKey).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Take(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UsersOfTenant(ctx context.Context, tenantID uint) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// TenantUsers loads users of the caller's tenant by id.
func (s *Store) TenantUsers(ctx context.Context, tc tenant.Context, ids []uint) (map[uint]models.User, error) {
	tid, err := tc.RequireTenant()
	if err != nil {
		return nil, err
	}
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("tenant_id = ? AND id IN ?", tid, ids).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UpdateTenant changes display metadata of one tenant.
func (s *Store) UpdateTenant(ctx context.Context, id uint, updates map[string]any) (*models.Tenant, error) {
	res := s.db.WithContext(ctx).Model(&models.Tenant{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTenant(ctx, id)
}

func (s *Store) CountUsersWithRole(ctx context.Context, role models.UserRole) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}
