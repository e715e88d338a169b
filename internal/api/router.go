package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/confidence/identity-api/internal/api/handler"
	"github.com/confidence/identity-api/internal/api/middleware"
	"github.com/confidence/identity-api/internal/core/domain"
	"github.com/confidence/identity-api/internal/core/ports"
)

// RouterDeps bundles everything the HTTP layer needs. Services are built in
// main so their lifecycles (mail dispatcher, database clients) stay there.
type RouterDeps struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Roles  *handler.RoleHandler
	Health *handler.HealthHandler

	Tokens   ports.TokenService
	UserRepo ports.UserRepository

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	authRequired := middleware.Auth(deps.Tokens, deps.UserRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", deps.Auth.Register)
	e.POST("/auth/login", deps.Auth.Login)
	e.POST("/auth/forgot-password", deps.Auth.ForgotPassword)
	e.POST("/auth/reset-password", deps.Auth.ResetPassword)
	e.GET("/auth/me", deps.Auth.Me, authRequired)

	// --- User routes ---
	users := e.Group("/users", authRequired)
	users.POST("", deps.Users.Create, adminOnly)
	users.GET("", deps.Users.List, adminOnly)
	users.DELETE("/:id", deps.Users.Delete, adminOnly)
	users.PUT("/:id", deps.Users.UpdateName)
	users.PATCH("/email/:id", deps.Users.UpdateEmail)
	users.PATCH("/password/:id", deps.Users.UpdatePassword)
	users.GET("/by-email", deps.Users.FindByEmail)
	users.GET("/by-name", deps.Users.FindByName)

	// --- Role routes (administration only) ---
	roles := e.Group("/roles", authRequired, adminOnly)
	roles.POST("", deps.Roles.Create)
	roles.PUT("/:id", deps.Roles.Update)
	roles.DELETE("/:id", deps.Roles.Delete)
	roles.GET("/search", deps.Roles.Search)
	roles.GET("/:id", deps.Roles.Get)
	roles.GET("", deps.Roles.List)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", deps.Health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", deps.Health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
