package middleware

import (
	"net/http"
	"time"

	"jobpilot/pkg/models"
	"jobpilot/pkg/utils"

	"github.com/labstack/echo/v4"
)

// maxBodyBytes bounds request payloads; a session start carries a user
// profile plus criteria and stays far below this
const maxBodyBytes = 256 * 1024

// RequestValidation tags every request with an id and rejects oversized bodies
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().Method == http.MethodPost && c.Request().ContentLength > maxBodyBytes {
				return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:     "request_too_large",
					Message:   "Request body too large",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			return next(c)
		}
	}
}
