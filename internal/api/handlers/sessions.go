package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"jobpilot/internal/logging"
	"jobpilot/internal/session"
	"jobpilot/pkg/models"
	"jobpilot/pkg/utils"
)

var validate = validator.New()

// StartSessionHandler launches a new automation session for a user
func StartSessionHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.StartSessionRequest
		if err := c.Bind(&req); err != nil {
			logger.Warn("Failed to bind session start request", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Warn("Session start request validation failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		sess, err := manager.StartSession(c.Request().Context(), &req)
		if err != nil {
			logger.Error("Failed to start session", map[string]interface{}{
				"request_id": requestID,
				"user_id":    req.User.UserID,
				"error":      err.Error(),
			})
			return c.JSON(errorStatus(err), models.ErrorResponse{
				Error:     "session_start_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Session start accepted", map[string]interface{}{
			"request_id": requestID,
			"session_id": sess.ID,
			"user_id":    req.User.UserID,
			"platform":   sess.PlatformName,
		})

		return c.JSON(http.StatusAccepted, models.StartSessionResponse{
			Success:   true,
			SessionID: sess.ID,
			Message:   "session started",
			RequestID: requestID,
		})
	}
}

// StopSessionHandler requests cooperative cancellation of a session
func StopSessionHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()
		sessionID := c.Param("id")
		started := time.Now()

		var req models.StopSessionRequest
		if err := c.Bind(&req); err != nil {
			// Stop works without a body
			req = models.StopSessionRequest{}
		}

		status, err := manager.StopSession(c.Request().Context(), sessionID, req.Reason)
		if err != nil {
			return c.JSON(errorStatus(err), models.ErrorResponse{
				Error:     "session_stop_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Session stop handled", map[string]interface{}{
			"request_id": requestID,
			"session_id": sessionID,
			"state":      string(status.State),
		})

		return c.JSON(http.StatusOK, models.StopSessionResponse{
			Success:   true,
			SessionID: sessionID,
			Message:   string(status.State),
			WaitedFor: time.Since(started),
			RequestID: requestID,
		})
	}
}

// SessionStatusHandler returns a point-in-time snapshot of a session
func SessionStatusHandler(manager *session.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		sessionID := c.Param("id")

		status, err := manager.GetStatus(sessionID)
		if err != nil {
			return c.JSON(errorStatus(err), models.ErrorResponse{
				Error:     "session_not_found",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, models.SessionStatusResponse{
			Success:   true,
			Status:    status,
			RequestID: requestID,
		})
	}
}

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	if customErr, ok := err.(*utils.CustomError); ok {
		return customErr.Code
	}
	return http.StatusInternalServerError
}
