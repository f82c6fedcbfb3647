package models

// StartSessionRequest represents the request payload for starting an automation session
type StartSessionRequest struct {
	User     UserContext     `json:"user" validate:"required"`
	Criteria SearchCriteria  `json:"criteria" validate:"required"`
	Options  *SessionOptions `json:"options,omitempty"`
}

// SessionOptions provides per-session overrides of configured defaults
type SessionOptions struct {
	Platform        string `json:"platform,omitempty"`
	MaxApplications int    `json:"max_applications,omitempty"`
	Headless        *bool  `json:"headless,omitempty"`
}

// StopSessionRequest represents the request payload for stopping a session
type StopSessionRequest struct {
	Reason string `json:"reason,omitempty"`
}
