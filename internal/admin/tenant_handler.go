// Package admin serves the platform-level routes: tenant onboarding and
// provisioning of staff and customer accounts.
package admin

import (
	"errors"
	"strings"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/bind"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrTenantNameTaken = apperr.Validation("TENANT_NAME_TAKEN", "a tenant with this name already exists")
	ErrLoginKeyTaken   = apperr.Validation("LOGIN_KEY_TAKEN", "login key is already in use")
)

type TenantResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
}

type CreateTenantRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Address string  `json:"address" validate:"max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
}

type UpdateTenantRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
}

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	LoginKey string          `json:"loginKey" validate:"required,max=100"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,oneof=staff customer"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	LoginKey  string `json:"loginKey"`
	Role      string `json:"role"`
	TenantID  *uint  `json:"tenantId"`
	CreatedAt string `json:"createdAt"`
}

func toTenantResponse(t *models.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Address:   t.Address,
		Phone:     t.Phone,
		CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		LoginKey:  u.LoginKey,
		Role:      string(u.Role),
		TenantID:  u.TenantID,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func tenantID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid tenant id")
	}
	return uint(id), nil
}

// ----------------------------------------
// TENANT CRUD
// ----------------------------------------

// POST /api/admin/tenants
func CreateTenantHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTenantRequest
		if err := bind.JSON(c, &body); err != nil {
			return err
		}

		t := models.Tenant{
			Name:    strings.TrimSpace(body.Name),
			Address: strings.TrimSpace(body.Address),
		}
		if body.Phone != nil {
			t.Phone = strings.TrimSpace(*body.Phone)
		}
		if t.Name == "" {
			return bind.ErrInvalidData.WithDetails(map[string]any{"fields": map[string]string{"name": "required"}})
		}

		if err := store.CreateTenant(c.UserContext(), &t); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrTenantNameTaken
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toTenantResponse(&t))
	}
}

// GET /api/admin/tenants
func ListTenantsHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenants, err := store.ListTenants(c.UserContext())
		if err != nil {
			return err
		}
		res := make([]TenantResponse, 0, len(tenants))
		for i := range tenants {
			res = append(res, toTenantResponse(&tenants[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/admin/tenants/:id
func GetTenantHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := tenantID(c)
		if err != nil {
			return err
		}
		t, err := store.GetTenant(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(toTenantResponse(t))
	}
}

// PUT /api/admin/tenants/:id
func UpdateTenantHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := tenantID(c)
		if err != nil {
			return err
		}
		var body UpdateTenantRequest
		if err := bind.JSON(c, &body); err != nil {
			return err
		}

		updates := map[string]any{}
		if body.Name != nil {
			updates["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Address != nil {
			updates["address"] = strings.TrimSpace(*body.Address)
		}
		if body.Phone != nil {
			updates["phone"] = strings.TrimSpace(*body.Phone)
		}
		if len(updates) == 0 {
			t, err := store.GetTenant(c.UserContext(), id)
			if err != nil {
				return err
			}
			return c.JSON(toTenantResponse(t))
		}

		t, err := store.UpdateTenant(c.UserContext(), id, updates)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrTenantNameTaken
			}
			return err
		}
		return c.JSON(toTenantResponse(t))
	}
}

// ----------------------------------------
// TENANT ACCOUNTS
// ----------------------------------------

// POST /api/admin/tenants/:id/users
func CreateTenantUserHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := tenantID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetTenant(c.UserContext(), id); err != nil {
			return err
		}

		var body CreateUserRequest
		if err := bind.JSON(c, &body); err != nil {
			return err
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			return err
		}
		user := models.User{
			TenantID:     &id,
			Name:         strings.TrimSpace(body.Name),
			LoginKey:     strings.TrimSpace(strings.ToLower(body.LoginKey)),
			PasswordHash: hash,
			Role:         body.Role,
		}
		if err := store.CreateUser(c.UserContext(), &user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrLoginKeyTaken
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
	}
}

// GET /api/admin/tenants/:id/users
func ListTenantUsersHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := tenantID(c)
		if err != nil {
			return err
		}
		if _, err := store.GetTenant(c.UserContext(), id); err != nil {
			return err
		}
		users, err := store.UsersOfTenant(c.UserContext(), id)
		if err != nil {
			return err
		}
		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, toUserResponse(&users[i]))
		}
		return c.JSON(res)
	}
}
