package models

import "time"

// StartSessionResponse represents the response to a session start request
type StartSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id"`
}

// StopSessionResponse represents the response to a session stop request
type StopSessionResponse struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"session_id,omitempty"`
	Message   string        `json:"message,omitempty"`
	WaitedFor time.Duration `json:"waited_for,omitempty"`
	RequestID string        `json:"request_id"`
}

// SessionStatusResponse wraps a session snapshot for the status endpoint
type SessionStatusResponse struct {
	Success   bool           `json:"success"`
	Status    *SessionStatus `json:"status,omitempty"`
	RequestID string         `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
