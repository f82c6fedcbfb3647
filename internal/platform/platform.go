package platform

import (
	"context"
	"errors"

	"jobpilot/pkg/models"
)

var (
	// ErrNoQuickApply is returned by TriggerApply when the listing has no
	// in-platform application flow at all
	ErrNoQuickApply = errors.New("listing has no quick apply")

	// ErrExternalApply is returned by TriggerApply when applying would
	// leave the platform for an external site
	ErrExternalApply = errors.New("listing applies on an external site")

	// ErrLoginFailed is fatal for the session; login is attempted once
	ErrLoginFailed = errors.New("platform login failed")
)

// SubmissionResult reports how a driven application flow ended
type SubmissionResult struct {
	Status    models.ApplicationStatus
	StepsUsed int
	Reason    string
}

// Platform defines the operations the automation engine needs from a job
// board. Implementations own every platform-specific selector and URL.
type Platform interface {
	// Name returns the platform identifier, e.g. "linkedin"
	Name() string

	// Login signs in with the given credentials. It is attempted exactly
	// once per session; any error is fatal.
	Login(ctx context.Context, creds models.PlatformCredentials) error

	// SearchJobs runs a search for the criteria and returns the surfaced
	// listings. Calling it again with the same criteria must not redo the
	// search.
	SearchJobs(ctx context.Context, criteria *models.SearchCriteria) ([]*models.JobListing, error)

	// OpenListing opens a listing's detail view and enriches the listing
	// with the full description
	OpenListing(ctx context.Context, job *models.JobListing) error

	// TriggerApply starts the in-platform application flow for the
	// currently open listing
	TriggerApply(ctx context.Context) error

	// DriveSubmission works through the application flow until it reaches
	// a terminal outcome or exhausts its step budget
	DriveSubmission(ctx context.Context, user *models.UserContext, job *models.JobListing) (*SubmissionResult, error)

	// Cleanup releases the platform's browser resources
	Cleanup()

	// IsHealthy returns true if the platform driver is ready
	IsHealthy() bool
}

// PlatformFactory creates platforms by name
type PlatformFactory interface {
	// CreatePlatform creates a new platform instance for the given name
	CreatePlatform(name string) (Platform, error)

	// GetSupportedPlatforms returns a list of supported platform names
	GetSupportedPlatforms() []string
}
