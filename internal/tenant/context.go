// Package tenant holds the per-request actor context. It is built once from
// a verified credential and is the only source of a tenant id downstream.
package tenant

import (
	"net/http"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/models"
)

var (
	ErrUnauthenticated  = apperr.New(http.StatusUnauthorized, apperr.CodeUnauthenticated, "authentication required")
	ErrTenantIDRequired = apperr.New(http.StatusForbidden, apperr.CodeTenantIDRequired, "this route requires a tenant-bound account")
	ErrForbidden        = apperr.New(http.StatusForbidden, apperr.CodeForbidden, "not allowed for this role")
)

// Context is immutable: fields are unexported and only readable via methods.
type Context struct {
	actorID   uint
	role      models.UserRole
	tenantID  uint
	hasTenant bool
}

// Claims is what a verified credential tells us about the caller.
type Claims struct {
	UserID   uint
	Role     models.UserRole
	TenantID *uint
}

// Resolve validates claims and builds the request context.
func Resolve(c *Claims) (Context, error) {
	if c == nil || c.UserID == 0 || !c.Role.Valid() {
		return Context{}, ErrUnauthenticated
	}
	if c.Role == models.RolePlatform {
		if c.TenantID != nil {
			return Context{}, ErrUnauthenticated
		}
		return Context{actorID: c.UserID, role: c.Role}, nil
	}
	if c.TenantID == nil || *c.TenantID == 0 {
		return Context{}, ErrUnauthenticated
	}
	return Context{actorID: c.UserID, role: c.Role, tenantID: *c.TenantID, hasTenant: true}, nil
}

// For builds a tenant-bound context directly. Used by background jobs and tests.
func For(actorID uint, role models.UserRole, tenantID uint) Context {
	return Context{actorID: actorID, role: role, tenantID: tenantID, hasTenant: tenantID != 0}
}

// Platform builds a platform-level context with no tenant.
func Platform(actorID uint) Context {
	return Context{actorID: actorID, role: models.RolePlatform}
}

func (c Context) ActorID() uint         { return c.actorID }
func (c Context) Role() models.UserRole { return c.role }

// TenantID returns the tenant and whether the context has one.
func (c Context) TenantID() (uint, bool) { return c.tenantID, c.hasTenant }

// RequireTenant fails for platform actors; callers must never fall back to a
// tenant id taken from the request.
func (c Context) RequireTenant() (uint, error) {
	if c.actorID == 0 {
		return 0, ErrUnauthenticated
	}
	if !c.hasTenant {
		return 0, ErrTenantIDRequired
	}
	return c.tenantID, nil
}

func (c Context) IsAuthenticated() bool { return c.actorID != 0 }

// RequireRole fails with Forbidden unless the actor has one of roles.
func (c Context) RequireRole(roles ...models.UserRole) error {
	if !c.IsAuthenticated() {
		return ErrUnauthenticated
	}
	for _, r := range roles {
		if r == c.role {
			return nil
		}
	}
	return ErrForbidden
}
