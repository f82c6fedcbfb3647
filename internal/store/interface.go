package store

import (
	"context"

	"jobpilot/pkg/models"
)

// Store is the persistence collaborator for application outcomes. The
// engine only consumes this interface; schema and retention belong to the
// backing implementation.
type Store interface {
	// SaveOutcome records an application outcome. The write is idempotent
	// on (user, platform, job): a second attempt reports inserted=false
	// and leaves the first record untouched.
	SaveOutcome(ctx context.Context, outcome *models.ApplicationOutcome) (inserted bool, err error)

	// HasApplied reports whether an outcome already exists for the job
	HasApplied(ctx context.Context, userID, platform, platformJobID string) (bool, error)

	// CountToday returns how many cap-consuming applications the user has
	// submitted since local midnight
	CountToday(ctx context.Context, userID string) (int, error)

	// IsHealthy checks connectivity to the backing store
	IsHealthy(ctx context.Context) error

	// Close releases the store's resources
	Close() error
}
