package models

import "time"

// SessionState enumerates the lifecycle states of an automation session
type SessionState string

const (
	SessionPending   SessionState = "pending"
	SessionRunning   SessionState = "running"
	SessionStopping  SessionState = "stopping"
	SessionCompleted SessionState = "completed"
	SessionStopped   SessionState = "stopped"
	SessionFailed    SessionState = "failed"
)

// Finished reports whether the session has reached a terminal state
func (s SessionState) Finished() bool {
	switch s {
	case SessionCompleted, SessionStopped, SessionFailed:
		return true
	}
	return false
}

// SessionStats tracks progress counters for a running session
type SessionStats struct {
	Searched  int `json:"jobs_searched"`
	Matched   int `json:"jobs_matched"`
	Applied   int `json:"applications_attempted"`
	Succeeded int `json:"applications_succeeded"`
	Failed    int `json:"applications_failed"`
	Skipped   int `json:"jobs_skipped"`
}

// SessionStatus is the point-in-time snapshot returned by the status endpoint
type SessionStatus struct {
	SessionID     string       `json:"session_id"`
	UserID        string       `json:"user_id"`
	Platform      string       `json:"platform"`
	State         SessionState `json:"state"`
	CurrentAction string       `json:"current_action,omitempty"`
	Stats         SessionStats `json:"stats"`
	RecentErrors  []string     `json:"recent_errors,omitempty"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    *time.Time   `json:"finished_at,omitempty"`
}
