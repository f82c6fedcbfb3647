package session

import (
	"context"
	"testing"
	"time"

	"jobpilot/internal/config"
	"jobpilot/internal/llm"
	"jobpilot/internal/platform"
	"jobpilot/internal/store"
	"jobpilot/pkg/models"
)

// scriptedPlatform completes immediately unless loginGate is set, in which
// case Login blocks until the gate closes or the context ends
type scriptedPlatform struct {
	loginGate chan struct{}
	listings  []*models.JobListing
}

func (p *scriptedPlatform) Name() string { return "linkedin" }

func (p *scriptedPlatform) Login(ctx context.Context, creds models.PlatformCredentials) error {
	if p.loginGate != nil {
		select {
		case <-p.loginGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (p *scriptedPlatform) SearchJobs(ctx context.Context, criteria *models.SearchCriteria) ([]*models.JobListing, error) {
	return p.listings, nil
}

func (p *scriptedPlatform) OpenListing(ctx context.Context, job *models.JobListing) error {
	return nil
}

func (p *scriptedPlatform) TriggerApply(ctx context.Context) error { return nil }

func (p *scriptedPlatform) DriveSubmission(ctx context.Context, user *models.UserContext, job *models.JobListing) (*platform.SubmissionResult, error) {
	return &platform.SubmissionResult{Status: models.ApplicationSucceeded}, nil
}

func (p *scriptedPlatform) Cleanup() {}

func (p *scriptedPlatform) IsHealthy() bool { return true }

type scriptedFactory struct {
	platform platform.Platform
}

func (f *scriptedFactory) CreatePlatform(name string) (platform.Platform, error) {
	return f.platform, nil
}

func (f *scriptedFactory) GetSupportedPlatforms() []string {
	return []string{"linkedin"}
}

func managerFixture(t *testing.T, p platform.Platform) *Manager {
	t.Helper()

	cfg, _ := config.LoadConfig("")
	cfg.Automation.StopTimeout = 50 * time.Millisecond

	m := NewManager(cfg, llm.NewManager(cfg), store.NewMemoryStore())
	m.newFactory = func(cfg *config.Config) platform.PlatformFactory {
		return &scriptedFactory{platform: p}
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("failed to start manager: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		m.Stop(ctx)
	})
	return m
}

func startRequest(userID string) *models.StartSessionRequest {
	return &models.StartSessionRequest{
		User: models.UserContext{
			UserID: userID,
			Skills: []string{"Go"},
			Credentials: map[string]models.PlatformCredentials{
				"linkedin": {Username: "ada", Password: "secret"},
			},
		},
		Criteria: models.SearchCriteria{
			Titles: []string{"Backend Developer"},
		},
	}
}

func waitForState(t *testing.T, sess *Session, want models.SessionState) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if sess.State() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("session state = %s, want %s", sess.State(), want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStartSessionRunsToCompletion(t *testing.T) {
	m := managerFixture(t, &scriptedPlatform{})

	sess, err := m.StartSession(context.Background(), startRequest("u1"))
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}

	if sess.State() != models.SessionCompleted {
		t.Errorf("state = %s, want %s", sess.State(), models.SessionCompleted)
	}

	status, err := m.GetStatus(sess.ID)
	if err != nil {
		t.Fatalf("GetStatus returned error: %v", err)
	}
	if status.FinishedAt == nil {
		t.Error("finished session missing FinishedAt")
	}
	if m.ActiveSessions() != 0 {
		t.Errorf("ActiveSessions = %d, want 0", m.ActiveSessions())
	}
}

func TestStartSessionRequiresCredentials(t *testing.T) {
	m := managerFixture(t, &scriptedPlatform{})

	req := startRequest("u1")
	req.User.Credentials = nil

	if _, err := m.StartSession(context.Background(), req); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestStartSessionReplacesActiveSession(t *testing.T) {
	gate := make(chan struct{})
	m := managerFixture(t, &scriptedPlatform{loginGate: gate})

	first, err := m.StartSession(context.Background(), startRequest("u1"))
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	waitForState(t, first, models.SessionRunning)

	second, err := m.StartSession(context.Background(), startRequest("u1"))
	if err != nil {
		t.Fatalf("second StartSession returned error: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("second session reused the first session's ID")
	}
	if first.State() != models.SessionStopping && !first.State().Finished() {
		t.Errorf("first session state = %s, want stopping or finished", first.State())
	}

	close(gate)

	select {
	case <-first.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("first session did not finish after release")
	}
	if first.State() != models.SessionStopped {
		t.Errorf("first session state = %s, want %s", first.State(), models.SessionStopped)
	}

	select {
	case <-second.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("second session did not finish")
	}
	if second.State() != models.SessionCompleted {
		t.Errorf("second session state = %s, want %s", second.State(), models.SessionCompleted)
	}
}

func TestStopSessionBoundedWait(t *testing.T) {
	gate := make(chan struct{})
	m := managerFixture(t, &scriptedPlatform{loginGate: gate})

	sess, err := m.StartSession(context.Background(), startRequest("u1"))
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	waitForState(t, sess, models.SessionRunning)

	started := time.Now()
	status, err := m.StopSession(context.Background(), sess.ID, "testing stop")
	if err != nil {
		t.Fatalf("StopSession returned error: %v", err)
	}

	// The platform is still blocked, so the call must return at the stop
	// timeout with the session in the stopping state
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Errorf("StopSession blocked for %s, want bounded wait", elapsed)
	}
	if status.State != models.SessionStopping {
		t.Errorf("state = %s, want %s", status.State, models.SessionStopping)
	}

	close(gate)
	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish after release")
	}
	if sess.State() != models.SessionStopped {
		t.Errorf("state = %s, want %s", sess.State(), models.SessionStopped)
	}
}

func TestStopDrainsInFlightSessionBeforeCancel(t *testing.T) {
	gate := make(chan struct{})
	m := managerFixture(t, &scriptedPlatform{loginGate: gate})

	sess, err := m.StartSession(context.Background(), startRequest("u1"))
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	waitForState(t, sess, models.SessionRunning)

	stopErr := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		stopErr <- m.Stop(ctx)
	}()

	// The platform call in flight must keep running while Stop drains; an
	// immediate context cancellation would abort it here
	time.Sleep(30 * time.Millisecond)
	if sess.State().Finished() {
		t.Fatalf("session aborted during drain, state = %s", sess.State())
	}

	close(gate)
	if err := <-stopErr; err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if sess.State() != models.SessionStopped {
		t.Errorf("state = %s, want %s", sess.State(), models.SessionStopped)
	}
}

func TestStopSessionNotFound(t *testing.T) {
	m := managerFixture(t, &scriptedPlatform{})

	if _, err := m.StopSession(context.Background(), "missing", ""); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestEvictExpiredRemovesFinishedSessions(t *testing.T) {
	m := managerFixture(t, &scriptedPlatform{})

	sess, err := m.StartSession(context.Background(), startRequest("u1"))
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}

	// Age the session past the retention window
	old := time.Now().Add(-2 * m.config.Automation.SessionTTL)
	sess.mu.Lock()
	sess.finishedAt = &old
	sess.mu.Unlock()

	m.evictExpired()

	if _, err := m.GetStatus(sess.ID); err == nil {
		t.Error("evicted session still resolvable")
	}
}

func TestEvictExpiredStopsStuckSessions(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	m := managerFixture(t, &scriptedPlatform{loginGate: gate})

	sess, err := m.StartSession(context.Background(), startRequest("u1"))
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	waitForState(t, sess, models.SessionRunning)

	old := time.Now().Add(-2 * m.config.Automation.SessionTTL)
	sess.mu.Lock()
	sess.startedAt = old
	sess.mu.Unlock()

	m.evictExpired()

	if sess.State() != models.SessionStopping {
		t.Errorf("state = %s, want %s", sess.State(), models.SessionStopping)
	}
	// Still registered until it actually finishes
	if _, err := m.GetStatus(sess.ID); err != nil {
		t.Errorf("stuck session evicted before finishing: %v", err)
	}
}
