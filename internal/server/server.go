// Package server assembles the fiber application: middleware, routes and the
// error boundary.
package server

import (
	"strings"

	"mealplan-backend/internal/admin"
	"mealplan-backend/internal/audit"
	"mealplan-backend/internal/auth"
	"mealplan-backend/internal/cache"
	"mealplan-backend/internal/catalog"
	"mealplan-backend/internal/config"
	"mealplan-backend/internal/dashboard"
	"mealplan-backend/internal/metrics"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/notification"
	"mealplan-backend/internal/ordering"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/subscription"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// New builds the application. cache may be nil.
func New(cfg *config.Config, store *repository.Store, c cache.Cache) *fiber.App {
	catalogSvc := catalog.NewService(store, c, cfg.CatalogCacheTTL)
	subSvc := subscription.NewService(store)
	orderSvc := ordering.NewService(store, subSvc, catalogSvc)
	notifySvc := notification.NewService(store, cfg.NotificationPageSize)
	dashSvc := dashboard.NewService(store, cfg.Location())

	app := fiber.New(fiber.Config{
		AppName:      "mealplan-backend",
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(metrics.Middleware())
	app.Use(RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/healthz", HealthHandler(store))
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-platform", auth.RegisterPlatformHandler(store))
	api.Post("/auth/login", auth.LoginHandler(store, cfg.JWTSecret, cfg.JWTTTL))

	protected := api.Group("", auth.JWTMiddleware(cfg.JWTSecret))
	protected.Get("/auth/me", auth.MeHandler())

	// Platform routes
	adminRoutes := protected.Group("/admin", auth.RequireRole(models.RolePlatform))
	adminRoutes.Post("/tenants", admin.CreateTenantHandler(store))
	adminRoutes.Get("/tenants", admin.ListTenantsHandler(store))
	adminRoutes.Get("/tenants/:id", admin.GetTenantHandler(store))
	adminRoutes.Put("/tenants/:id", admin.UpdateTenantHandler(store))
	adminRoutes.Post("/tenants/:id/users", admin.CreateTenantUserHandler(store))
	adminRoutes.Get("/tenants/:id/users", admin.ListTenantUsersHandler(store))

	// Everything below needs a tenant-bound account
	scoped := protected.Group("", auth.RequireTenant())
	staff := auth.RequireRole(models.RoleStaff)
	customer := auth.RequireRole(models.RoleCustomer)
	anyTenantRole := auth.RequireRole(models.RoleStaff, models.RoleCustomer)

	scoped.Get("/menu-items", anyTenantRole, catalog.ListMenuItemsHandler(catalogSvc))
	scoped.Post("/menu-items", staff, catalog.CreateMenuItemHandler(catalogSvc))

	scoped.Get("/subscriptions/me", customer, subscription.MySubscriptionHandler(subSvc, cfg.Location()))
	scoped.Post("/subscriptions", staff, subscription.CreateSubscriptionHandler(subSvc))

	scoped.Post("/orders", customer, ordering.SubmitOrderHandler(orderSvc))
	scoped.Get("/orders", staff, ordering.ListOrdersHandler(orderSvc))
	scoped.Get("/orders/mine", customer, ordering.MyOrdersHandler(orderSvc))
	scoped.Get("/orders/export", staff, ordering.ExportKitchenSheetHandler(orderSvc))
	scoped.Get("/orders/:id", anyTenantRole, ordering.GetOrderHandler(orderSvc))
	scoped.Patch("/orders/:id/status", staff, ordering.UpdateStatusHandler(orderSvc))
	scoped.Post("/orders/:id/notify", staff, notification.NotifyReadyHandler(notifySvc))

	scoped.Get("/notifications", customer, notification.ListHandler(notifySvc))
	scoped.Patch("/notifications/:id", customer, notification.MarkReadHandler(notifySvc))

	scoped.Get("/audit-logs", staff, audit.ListAuditLogsHandler(store))
	scoped.Get("/dashboard/order-chart", staff, dashboard.OrderChartHandler(dashSvc))

	return app
}

// GET /healthz
func HealthHandler(store *repository.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Ping(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unreachable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
