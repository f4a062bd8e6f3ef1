package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/livetrack/support-service/internal/api/http/handlers"
	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/config"
	"github.com/livetrack/support-service/internal/domain"
	"github.com/livetrack/support-service/internal/observability"
)

// RouterDependencies bundles everything the HTTP layer needs.
type RouterDependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admins         *handlers.AdminsHandler
	Customers      *handlers.CustomersHandler
	Distributors   *handlers.DistributorsHandler
	Tickets        *handlers.TicketsHandler
}

// NewApp builds the fiber application with all routes registered.
func NewApp(deps RouterDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.Config.App.Name,
		ErrorHandler: NewErrorHandler(deps.Logger, deps.Metrics),
	})

	app.Use(recover.New())
	app.Use(RequestTimeout(deps.Config.App))
	app.Use(observability.RequestLogger(deps.Logger, deps.Metrics))

	app.Static(deps.Config.Blob.BaseURL, deps.Config.Blob.Dir)

	health := app.Group("/health")
	health.Get("/live", deps.Health.Live)
	health.Get("/ready", deps.Health.Ready)

	app.Post("/auth/login", deps.Auth.Login)

	authed := app.Group("", deps.AuthMiddleware.Handle)

	admins := authed.Group("/admins")
	admins.Get("/profile", deps.Admins.Profile)
	admins.Get("/profile/:id", deps.Admins.Profile)
	admins.Post("/", auth.RequireRoles(domain.RoleRoot), deps.Admins.Create)
	admins.Get("/", auth.RequireRoles(domain.RoleRoot), deps.Admins.List)
	admins.Patch("/:id/status", auth.RequireRoles(domain.RoleRoot), deps.Admins.ToggleStatus)
	admins.Patch("/:id/password", auth.RequireRoles(domain.RoleRoot), deps.Admins.ChangePassword)
	admins.Patch("/:id", auth.RequireRoles(domain.RoleRoot), deps.Admins.Update)

	customers := authed.Group("/customers")
	customers.Post("/", auth.RequireRoles(domain.RoleRoot, domain.RoleAdmin), deps.Customers.Create)
	customers.Post("/bulk", auth.RequireRoles(domain.RoleRoot, domain.RoleAdmin), deps.Customers.BulkCreate)
	customers.Get("/", auth.RequireRoles(domain.RoleRoot, domain.RoleAdmin), deps.Customers.List)
	customers.Get("/:id", deps.Customers.Get)
	customers.Put("/:id", auth.RequireRoles(domain.RoleRoot, domain.RoleAdmin), deps.Customers.Update)
	customers.Delete("/:id", auth.RequireRoles(domain.RoleRoot), deps.Customers.Delete)

	distributors := authed.Group("/distributors")
	distributors.Post("/", auth.RequireRoles(domain.RoleRoot), deps.Distributors.Create)
	distributors.Get("/", deps.Distributors.List)
	distributors.Get("/:id", deps.Distributors.Get)

	tickets := authed.Group("/tickets")
	tickets.Post("/new-user", auth.RequireRoles(domain.RoleRoot, domain.RoleAdmin), deps.Tickets.CreateNewUser)
	tickets.Post("/maintenance", auth.RequireRoles(domain.RoleRoot, domain.RoleAdmin), deps.Tickets.CreateMaintenance)
	tickets.Post("/:id/replies", deps.Tickets.CreateReply)
	tickets.Get("/", deps.Tickets.List)
	tickets.Patch("/:id/archive", auth.RequireRoles(domain.RoleRoot), deps.Tickets.Archive)
	tickets.Patch("/:id", auth.RequireRoles(domain.RoleRoot), deps.Tickets.Update)
	tickets.Get("/:id", deps.Tickets.Get)

	authed.Get("/dashboard", deps.Tickets.Dashboard)

	return app
}
