package store

import (
	"context"
	"sync"
	"time"

	"jobpilot/pkg/models"
)

// MemoryStore is an in-process Store for tests and redis-less development
type MemoryStore struct {
	mu       sync.Mutex
	outcomes map[string]*models.ApplicationOutcome
	daily    map[string]int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		outcomes: make(map[string]*models.ApplicationOutcome),
		daily:    make(map[string]int),
	}
}

func (m *MemoryStore) SaveOutcome(ctx context.Context, outcome *models.ApplicationOutcome) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := outcomeKey(outcome.UserID, outcome.Platform, outcome.PlatformJobID)
	if _, exists := m.outcomes[key]; exists {
		return false, nil
	}

	if outcome.AppliedAt.IsZero() {
		outcome.AppliedAt = time.Now()
	}
	copied := *outcome
	m.outcomes[key] = &copied

	if outcome.Status.CountsTowardCap() {
		m.daily[dailyKey(outcome.UserID, time.Now())]++
	}
	return true, nil
}

func (m *MemoryStore) HasApplied(ctx context.Context, userID, platform, platformJobID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.outcomes[outcomeKey(userID, platform, platformJobID)]
	return exists, nil
}

func (m *MemoryStore) CountToday(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.daily[dailyKey(userID, time.Now())], nil
}

func (m *MemoryStore) IsHealthy(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Outcomes returns a snapshot of every stored outcome, oldest insertion
// order not preserved
func (m *MemoryStore) Outcomes() []*models.ApplicationOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.ApplicationOutcome, 0, len(m.outcomes))
	for _, o := range m.outcomes {
		copied := *o
		out = append(out, &copied)
	}
	return out
}
