package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/invoicing-system/internal/api/handler"
	"github.com/99minutos/invoicing-system/internal/api/middleware"
	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
	"github.com/99minutos/invoicing-system/internal/infrastructure/http/handlers"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth          ports.AuthService
	Sessions      ports.SessionManager
	Users         ports.UserService
	Invoices      ports.InvoiceService
	Notifications ports.NotificationService
	JWTSecret     string
	HealthChecks  map[string]handlers.Checker
	Logger        zerolog.Logger
	// Metrics receives the HTTP metrics. Nil means the default registry.
	Metrics       *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	log := deps.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.ContextLogger(log))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "invoicing",
		Registerer: registerer,
	}))

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions, log)
	userHandler := handler.NewUserHandler(deps.Users)
	invoiceHandler := handler.NewInvoiceHandler(deps.Invoices)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/verify-email", authHandler.VerifyEmail)
	e.POST("/auth/verification-email", authHandler.SendVerificationEmail)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret), middleware.Session(deps.Sessions))

	v1.POST("/auth/logout", authHandler.Logout)

	v1.GET("/me", userHandler.Me)
	v1.PATCH("/me", userHandler.UpdateMe)
	v1.GET("/me/access/:view", userHandler.Access)

	v1.GET("/invoices", invoiceHandler.ListMine)
	v1.POST("/invoices", invoiceHandler.Create)
	v1.GET("/invoices/next-number", invoiceHandler.NextNumber)
	v1.GET("/invoices/stats", invoiceHandler.Stats)
	v1.GET("/invoices/charts", invoiceHandler.Charts)
	v1.GET("/invoices/:id", invoiceHandler.Get)
	v1.PATCH("/invoices/:id", invoiceHandler.Update)
	v1.DELETE("/invoices/:id", invoiceHandler.Delete)

	v1.GET("/notifications", notificationHandler.List)
	v1.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	v1.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)

	// --- Admin routes ---
	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))

	admin.GET("/invoices", invoiceHandler.ListAll)
	admin.GET("/invoices/stats", invoiceHandler.AllStats)
	admin.GET("/invoices/charts", invoiceHandler.AllCharts)

	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/stats", userHandler.Stats)
	admin.GET("/users/:id", userHandler.Get)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
