// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"country-pulse-service/internal/app/service"
	"country-pulse-service/internal/domain"
	"country-pulse-service/internal/transport/httpserver/dto"
	"country-pulse-service/internal/transport/httpserver/handler"
	"country-pulse-service/internal/transport/httpserver/middleware"
	"country-pulse-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	BodyLimit      int
	Debug          bool
	MetricsEnabled bool
	MetricsPath    string
}

// Dependencies are the services the routes are wired to.
// WarmupService and Cache are nil when caching is disabled.
type Dependencies struct {
	CountryService *service.CountryService
	WarmupService  *service.WarmupService
	Cache          domain.Cache
	Checks         []middleware.ReadinessCheck
	Validator      *validator.Validator
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Dependencies, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "country-pulse-service",
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(logger),
		EnablePrintRoutes:     cfg.Debug,
		DisableStartupMessage: !cfg.Debug,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(deps.Checks...))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	if cfg.MetricsEnabled {
		app.Use(middleware.Metrics())
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}
	app.Use(middleware.CORS())
	app.Use(compress.New())

	countryHandler := handler.NewCountryHandler(deps.CountryService, deps.Validator, logger)
	adminHandler := handler.NewAdminHandler(deps.WarmupService, deps.Cache, deps.Checks, deps.Validator, logger)

	registerRoutes(app, countryHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	countryHandler *handler.CountryHandler,
	adminHandler *handler.AdminHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	// Static segments first so "slug" is never read as a country code.
	countries := v1.Group("/countries")
	countries.Get("/", countryHandler.List)
	countries.Get("/slug/:slug", countryHandler.GetBySlug)
	countries.Get("/:code/snapshots", countryHandler.Snapshots)
	countries.Get("/:code", countryHandler.Get)

	admin := v1.Group("/admin")
	admin.Get("/health", adminHandler.Health)
	admin.Post("/warmup", adminHandler.WarmAll)
	admin.Post("/warmup/:code", adminHandler.WarmCountry)
	admin.Delete("/cache", adminHandler.ClearCache)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
