package models

import "time"

// ApplicationStatus enumerates the terminal states of a single application attempt
type ApplicationStatus string

const (
	ApplicationSucceeded       ApplicationStatus = "succeeded"
	ApplicationFailed          ApplicationStatus = "failed"
	ApplicationSkippedMatch    ApplicationStatus = "skipped_no_match"
	ApplicationSkippedDupe     ApplicationStatus = "skipped_duplicate"
	ApplicationSkippedExternal ApplicationStatus = "skipped_external_apply"
)

// ApplicationOutcome is the durable record of one application attempt
type ApplicationOutcome struct {
	UserID        string            `json:"user_id" validate:"required"`
	Platform      string            `json:"platform" validate:"required"`
	PlatformJobID string            `json:"platform_job_id" validate:"required"`
	Title         string            `json:"title"`
	Company       string            `json:"company"`
	URL           string            `json:"url,omitempty"`
	Status        ApplicationStatus `json:"status"`
	Score         int               `json:"score"`
	Reason        string            `json:"reason,omitempty"`
	StepsUsed     int               `json:"steps_used,omitempty"`
	AppliedAt     time.Time         `json:"applied_at"`
}

// CountsTowardCap reports whether the outcome consumes daily application budget
func (s ApplicationStatus) CountsTowardCap() bool {
	return s == ApplicationSucceeded
}
