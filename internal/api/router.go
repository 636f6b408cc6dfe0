package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/invoice-dashboard/internal/api/handler"
	"github.com/99minutos/invoice-dashboard/internal/api/middleware"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
	"github.com/99minutos/invoice-dashboard/internal/core/service"
	"github.com/99minutos/invoice-dashboard/internal/infrastructure/db/postgres"

	_ "github.com/99minutos/invoice-dashboard/docs"
)

// Dependencies are the live connections and settings the router wires into
// repositories, services and handlers. Mongo, Redis and Audit are optional.
type Dependencies struct {
	DB    *sqlx.DB
	Mongo *mongo.Database
	Redis *redis.Client

	Pages ports.PageCache
	Audit ports.AuditSink

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("dashboard"))
	e.Use(middleware.Session(deps.SessionSecret))

	// --- Dependencies ---
	invoiceRepo := postgres.NewInvoiceRepository(deps.DB)
	customerRepo := postgres.NewCustomerRepository(deps.DB)
	userRepo := postgres.NewUserRepository(deps.DB)

	authService := service.NewAuthService(userRepo, deps.SessionSecret, deps.SessionTTL, deps.Log)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, deps.Pages, deps.Audit, deps.Log)

	authHandler := handler.NewAuthHandler(authService, deps.SecureCookies)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, deps.Pages, deps.Log)

	// --- Auth routes ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- Dashboard (session required) ---
	dash := e.Group("/dashboard", middleware.RequireSession("/login"))
	dash.GET("", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, ports.InvoicesRoute)
	})
	dash.GET("/invoices", invoiceHandler.List)
	dash.GET("/invoices/create", invoiceHandler.CreateForm)
	dash.GET("/invoices/:id/edit", invoiceHandler.EditForm)
	dash.POST("/invoices", invoiceHandler.Create)
	dash.POST("/invoices/:id", invoiceHandler.Update)
	dash.POST("/invoices/:id/delete", invoiceHandler.Delete)
	dash.DELETE("/invoices/:id", invoiceHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
