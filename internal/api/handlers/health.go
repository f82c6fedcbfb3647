package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobpilot/internal/llm"
	"jobpilot/internal/logging"
	"jobpilot/internal/session"
	"jobpilot/internal/store"
	"jobpilot/pkg/models"
	"jobpilot/pkg/utils"
)

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether the service can accept new sessions.
// The LLM being down does not fail readiness since sessions fall back to
// deterministic answers.
func ReadinessHandler(manager *session.Manager, st store.Store, llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		logger.Debug("Readiness check requested", map[string]interface{}{"request_id": requestID})

		checks := map[string]string{"api": "ok"}
		status := "ready"
		httpStatus := http.StatusOK

		if manager.IsHealthy() {
			checks["sessions"] = "ok"
		} else {
			checks["sessions"] = "unavailable"
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		if err := st.IsHealthy(c.Request().Context()); err == nil {
			checks["store"] = "ok"
		} else {
			checks["store"] = fmt.Sprintf("unhealthy: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		if llmManager.IsHealthy() {
			checks["llm"] = "ok"
		} else {
			checks["llm"] = "degraded"
		}

		return c.JSON(httpStatus, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Liveness check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}

// StatusHandler provides detailed service status
func StatusHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		logger.Debug("Status check requested", map[string]interface{}{"request_id": requestID})

		response := models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api":             "operational",
				"active_sessions": fmt.Sprintf("%d", manager.ActiveSessions()),
			},
		}

		return c.JSON(http.StatusOK, response)
	}
}
