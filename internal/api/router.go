package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/debttracker/debt-api/docs"
	"github.com/debttracker/debt-api/internal/api/handler"
	"github.com/debttracker/debt-api/internal/api/middleware"
	"github.com/debttracker/debt-api/internal/core/domain"
	"github.com/debttracker/debt-api/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs, built once in main.
type Dependencies struct {
	Auth  ports.AuthService
	Users ports.UserService
	Debts ports.DebtService
	// Readiness checks run by GET /health/ready, keyed by dependency name.
	Readiness   map[string]handler.DependencyCheck
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
	}))
	e.Use(echoprometheus.NewMiddleware("debt_tracker"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	debtHandler := handler.NewDebtHandler(deps.Debts)
	requireAuth := middleware.Auth(deps.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.GET("/", handler.Home)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Users ---
	e.GET("/users", userHandler.List, requireAuth, adminOnly)
	e.GET("/user/:id", userHandler.Get, requireAuth)
	e.PUT("/user/:id", userHandler.Update, requireAuth)
	e.DELETE("/user/:id", userHandler.Delete, requireAuth)

	// --- Debts ---
	e.POST("/debts/add", debtHandler.Create, requireAuth, adminOnly)
	e.GET("/debts/:userId", debtHandler.List, requireAuth)
	e.PUT("/debts/:debtId", debtHandler.UpdateStatus, requireAuth)
	e.PUT("/debts/:debtId/edit", debtHandler.Edit, requireAuth, adminOnly)
	e.DELETE("/debts/:debtId", debtHandler.Delete, requireAuth, adminOnly)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
