package auth

import (
	"strings"

	"mealplan-backend/internal/models"
	"mealplan-backend/internal/tenant"

	"github.com/gofiber/fiber/v2"
)

const CtxTenantKey = "tenant_ctx"

// JWTMiddleware verifies the bearer token and stores the resolved
// tenant.Context for the rest of the request.
func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return tenant.ErrUnauthenticated
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return tenant.ErrUnauthenticated
		}

		claims, err := ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		tc, err := tenant.Resolve(claims.tenantClaims())
		if err != nil {
			return err
		}

		c.Locals(CtxTenantKey, tc)
		return c.Next()
	}
}

// Tenant returns the context stored by JWTMiddleware, or the zero
// (unauthenticated) context.
func Tenant(c *fiber.Ctx) tenant.Context {
	tc, _ := c.Locals(CtxTenantKey).(tenant.Context)
	return tc
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := Tenant(c).RequireRole(allowedRoles...); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireTenant rejects platform actors on tenant-scoped route groups.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := Tenant(c).RequireTenant(); err != nil {
			return err
		}
		return c.Next()
	}
}
