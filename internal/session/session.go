package session

import (
	"sync"
	"time"

	"jobpilot/pkg/models"
)

// maxRecentErrors bounds the error tail kept per session for status reporting
const maxRecentErrors = 3

// Session is the live state of one automation run. All mutation goes
// through the methods; the worker goroutine and the API read concurrently.
type Session struct {
	ID           string
	UserID       string
	PlatformName string

	mu            sync.RWMutex
	state         models.SessionState
	stats         models.SessionStats
	currentAction string
	recentErrors  []string
	stopReason    string
	startedAt     time.Time
	finishedAt    *time.Time
	stopRequested bool

	// done is closed by the worker once the session reaches a terminal state
	done chan struct{}
}

func newSession(id, userID, platformName string) *Session {
	return &Session{
		ID:           id,
		UserID:       userID,
		PlatformName: platformName,
		state:        models.SessionPending,
		startedAt:    time.Now(),
		done:         make(chan struct{}),
	}
}

// Status returns a point-in-time snapshot safe to serialize
func (s *Session) Status() *models.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := &models.SessionStatus{
		SessionID:     s.ID,
		UserID:        s.UserID,
		Platform:      s.PlatformName,
		State:         s.state,
		CurrentAction: s.currentAction,
		Stats:         s.stats,
		StartedAt:     s.startedAt,
	}
	if len(s.recentErrors) > 0 {
		status.RecentErrors = append([]string(nil), s.recentErrors...)
	}
	if s.finishedAt != nil {
		finished := *s.finishedAt
		status.FinishedAt = &finished
	}
	return status
}

// State returns the current lifecycle state
func (s *Session) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Done is closed when the session reaches a terminal state
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// requestStop flags the session for cooperative cancellation. The worker
// honors it at the next checkpoint; an in-flight submission finishes first.
func (s *Session) requestStop(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Finished() || s.stopRequested {
		return
	}
	s.stopRequested = true
	s.stopReason = reason
	s.state = models.SessionStopping
}

func (s *Session) stopPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopRequested
}

func (s *Session) setRunning() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopRequested {
		s.state = models.SessionRunning
	}
}

func (s *Session) setAction(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentAction = action
}

func (s *Session) setStats(stats models.SessionStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

func (s *Session) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentErrors = append(s.recentErrors, err.Error())
	if len(s.recentErrors) > maxRecentErrors {
		s.recentErrors = s.recentErrors[len(s.recentErrors)-maxRecentErrors:]
	}
}

// finish moves the session to its terminal state and releases waiters
func (s *Session) finish(stats models.SessionStats, runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = stats
	now := time.Now()
	s.finishedAt = &now
	s.currentAction = ""

	switch {
	case runErr != nil:
		s.state = models.SessionFailed
		s.recentErrors = append(s.recentErrors, runErr.Error())
		if len(s.recentErrors) > maxRecentErrors {
			s.recentErrors = s.recentErrors[len(s.recentErrors)-maxRecentErrors:]
		}
	case s.stopRequested:
		s.state = models.SessionStopped
	default:
		s.state = models.SessionCompleted
	}

	close(s.done)
}

// expired reports whether the session is past the retention window.
// Finished sessions age from their finish time, stuck ones from start.
func (s *Session) expired(ttl time.Duration, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.finishedAt != nil {
		return now.Sub(*s.finishedAt) > ttl
	}
	return now.Sub(s.startedAt) > ttl
}
