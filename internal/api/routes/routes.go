package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobpilot/internal/api/handlers"
	"jobpilot/internal/api/middleware"
	"jobpilot/internal/config"
	"jobpilot/internal/llm"
	"jobpilot/internal/session"
	"jobpilot/internal/store"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, manager *session.Manager, st store.Store, llmManager *llm.Manager) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(manager, st, llmManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(manager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.StartSessionHandler(manager))
			sessions.POST("/:id/stop", handlers.StopSessionHandler(manager))
			sessions.GET("/:id", handlers.SessionStatusHandler(manager))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "JobPilot Application Engine",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
