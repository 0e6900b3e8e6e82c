package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCredentials  = apperr.New(http.StatusUnauthorized, apperr.CodeUnauthenticated, "login key or password is wrong")
	ErrPlatformExists  = apperr.New(http.StatusForbidden, apperr.CodeForbidden, "a platform account already exists")
	ErrRegisterInvalid = apperr.Validation("INVALID_FIELDS", "name, loginKey and a password of at least 8 characters are required")
)

type RegisterPlatformRequest struct {
	Name     string `json:"name"`
	LoginKey string `json:"loginKey"`
	Password string `json:"password"`
}

type LoginRequest struct {
	LoginKey string `json:"loginKey"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	TenantID *uint  `json:"tenantId"`
}

// POST /api/auth/register-platform
// Bootstraps the first platform account; closed once one exists.
func RegisterPlatformHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterPlatformRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		user, err := CreatePlatformUser(c.UserContext(), store, body.Name, body.LoginKey, body.Password)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(UserResponse{
			ID:   user.ID,
			Name: user.Name,
			Role: string(user.Role),
		})
	}
}

// CreatePlatformUser creates the platform account unless one already exists.
func CreatePlatformUser(ctx context.Context, store *repository.Store, name, loginKey, password string) (*models.User, error) {
	loginKey = strings.TrimSpace(strings.ToLower(loginKey))
	name = strings.TrimSpace(name)
	if loginKey == "" || name == "" || len(password) < 8 {
		return nil, ErrRegisterInvalid
	}

	count, err := store.CountUsersWithRole(ctx, models.RolePlatform)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrPlatformExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		LoginKey:     loginKey,
		PasswordHash: hash,
		Role:         models.RolePlatform,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// POST /api/auth/login
func LoginHandler(store *repository.Store, secret string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.LoginKey = strings.TrimSpace(strings.ToLower(body.LoginKey))
		if body.LoginKey == "" || body.Password == "" {
			return ErrBadCredentials
		}

		user, err := store.UserByLoginKey(c.UserContext(), body.LoginKey)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBadCredentials
		}
		if err != nil {
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return ErrBadCredentials
		}

		token, err := GenerateToken(secret, ttl, user)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": UserResponse{
				ID:       user.ID,
				Name:     user.Name,
				Role:     string(user.Role),
				TenantID: user.TenantID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tc := Tenant(c)
		resp := fiber.Map{
			"actorId":  tc.ActorID(),
			"role":     tc.Role(),
			"tenantId": nil,
		}
		if tid, ok := tc.TenantID(); ok {
			resp["tenantId"] = tid
		}
		return c.JSON(resp)
	}
}

// HashPassword is the bcrypt hash stored on users.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
