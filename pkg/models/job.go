package models

import "time"

// JobListing represents a single job card surfaced by a platform search
type JobListing struct {
	PlatformJobID string    `json:"platform_job_id" validate:"required"`
	Platform      string    `json:"platform" validate:"required"`
	Title         string    `json:"title" validate:"required"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	Remote        bool      `json:"remote"`
	SalaryText    string    `json:"salary_text,omitempty"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	EasyApply     bool      `json:"easy_apply"`
	PostedDate    time.Time `json:"posted_date,omitempty"`
	Score         int       `json:"score"`
}

// MatchResult captures the outcome of gating a listing against user preferences
type MatchResult struct {
	Matched bool   `json:"matched"`
	Reason  string `json:"reason,omitempty"`
}
