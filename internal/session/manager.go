package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobpilot/internal/config"
	"jobpilot/internal/engine"
	"jobpilot/internal/llm"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/internal/matcher"
	"jobpilot/internal/platform"
	"jobpilot/internal/store"
	"jobpilot/pkg/models"
	"jobpilot/pkg/utils"
)

// Manager owns every automation session in the process. It enforces one
// active session per user, runs each session on its own goroutine and
// evicts finished sessions after the retention TTL.
type Manager struct {
	config     *config.Config
	llmManager *llm.Manager
	store      store.Store
	logger     types.Logger

	// newFactory builds the platform factory for a session's effective
	// config. Tests swap it for a scripted platform.
	newFactory func(cfg *config.Config) platform.PlatformFactory

	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]*Session

	ctx         context.Context
	cancel      context.CancelFunc
	cleanupStop chan struct{}
	wg          sync.WaitGroup
	running     bool
}

// NewManager creates a session manager
func NewManager(cfg *config.Config, llmManager *llm.Manager, st store.Store) *Manager {
	return &Manager{
		config:     cfg,
		llmManager: llmManager,
		store:      st,
		logger:     logging.GetGlobalLogger(),
		sessions:   make(map[string]*Session),
		byUser:     make(map[string]*Session),
		newFactory: func(cfg *config.Config) platform.PlatformFactory {
			return engine.NewPlatformFactory(cfg, llmManager)
		},
	}
}

// Start launches the background cleanup loop
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("session manager is already running")
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.cleanupStop = make(chan struct{})
	m.running = true

	m.wg.Add(1)
	go m.cleanupRoutine()

	m.logger.Info("Session manager started", map[string]interface{}{
		"session_ttl":      m.config.Automation.SessionTTL.String(),
		"cleanup_interval": m.config.Automation.CleanupInterval.String(),
	})
	return nil
}

// Stop requests cancellation of every active session and waits for the
// workers to wind down, bounded by the given context
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	for _, sess := range m.sessions {
		sess.requestStop("server shutting down")
	}
	close(m.cleanupStop)
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	// The engine context stays alive through the drain window so a session
	// mid submission can reach a safe stopping point before it exits
	select {
	case <-done:
		m.cancel()
		m.logger.Info("Session manager stopped")
		return nil
	case <-ctx.Done():
		m.cancel()
		return fmt.Errorf("session manager shutdown timed out: %w", ctx.Err())
	}
}

// StartSession validates the request, replaces any session the user already
// has running and launches a new worker. The returned session is in the
// pending state; login and search happen on the worker goroutine.
func (m *Manager) StartSession(ctx context.Context, req *models.StartSessionRequest) (*Session, error) {
	m.mu.RLock()
	running := m.running
	m.mu.RUnlock()
	if !running {
		return nil, fmt.Errorf("session manager is not running")
	}

	platformName := m.resolvePlatform(req)
	if _, ok := req.User.Credentials[platformName]; !ok {
		return nil, utils.NewValidationError(fmt.Sprintf("no credentials provided for platform %s", platformName))
	}

	if prior := m.activeSessionFor(req.User.UserID); prior != nil {
		m.logger.Info("Replacing active session for user", map[string]interface{}{
			"user_id":    req.User.UserID,
			"session_id": prior.ID,
		})
		m.stopAndWait(ctx, prior, "replaced by a new session")
	}

	sessCfg := m.sessionConfig(req.Options)
	user := req.User
	criteria := req.Criteria
	if req.Options != nil && req.Options.MaxApplications > 0 {
		criteria.MaxApplications = req.Options.MaxApplications
	}

	sess := newSession(utils.GenerateSessionID(), user.UserID, platformName)

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.byUser[user.UserID] = sess
	m.mu.Unlock()

	m.wg.Add(1)
	go m.runSession(sess, sessCfg, &user, &criteria)

	m.logger.Info("Session started", map[string]interface{}{
		"session_id": sess.ID,
		"user_id":    user.UserID,
		"platform":   platformName,
	})
	return sess, nil
}

// StopSession requests cooperative cancellation and waits up to the stop
// timeout for the session to reach a terminal state. A session mid
// submission keeps the stopping state until its current application
// finishes.
func (m *Manager) StopSession(ctx context.Context, sessionID, reason string) (*models.SessionStatus, error) {
	sess, err := m.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = "stop requested"
	}
	m.stopAndWait(ctx, sess, reason)
	return sess.Status(), nil
}

// GetStatus returns the current snapshot of a session
func (m *Manager) GetStatus(sessionID string) (*models.SessionStatus, error) {
	sess, err := m.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Status(), nil
}

// ActiveSessions returns the number of sessions not yet finished
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	active := 0
	for _, sess := range m.sessions {
		if !sess.State().Finished() {
			active++
		}
	}
	return active
}

// IsHealthy reports whether the manager accepts new sessions
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Manager) getSession(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, utils.NewNotFoundError(fmt.Sprintf("session %s not found", sessionID))
	}
	return sess, nil
}

func (m *Manager) activeSessionFor(userID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.byUser[userID]
	if !ok || sess.State().Finished() {
		return nil
	}
	return sess
}

// stopAndWait flags the session and blocks until it finishes or the stop
// timeout elapses, whichever comes first
func (m *Manager) stopAndWait(ctx context.Context, sess *Session, reason string) {
	sess.requestStop(reason)

	timeout := m.config.Automation.StopTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	select {
	case <-sess.Done():
	case <-time.After(timeout):
		m.logger.Info("Session still winding down after stop timeout", map[string]interface{}{
			"session_id": sess.ID,
		})
	case <-ctx.Done():
	}
}

// resolvePlatform picks the platform for the request: an explicit option
// wins, otherwise the highest-priority platform the user has credentials for
func (m *Manager) resolvePlatform(req *models.StartSessionRequest) string {
	if req.Options != nil && req.Options.Platform != "" {
		return req.Options.Platform
	}

	supported := m.newFactory(m.config).GetSupportedPlatforms()
	for _, name := range req.Criteria.PlatformsByPriority(supported) {
		if _, ok := req.User.Credentials[name]; ok {
			return name
		}
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return "linkedin"
}

// sessionConfig applies per-session overrides on a copy of the base config
func (m *Manager) sessionConfig(opts *models.SessionOptions) *config.Config {
	if opts == nil || opts.Headless == nil {
		return m.config
	}
	cfg := *m.config
	cfg.Browser.HeadlessMode = *opts.Headless
	return &cfg
}

// runSession is the worker goroutine for one session
func (m *Manager) runSession(sess *Session, cfg *config.Config, user *models.UserContext, criteria *models.SearchCriteria) {
	defer m.wg.Done()

	plat, err := m.newFactory(cfg).CreatePlatform(sess.PlatformName)
	if err != nil {
		sess.finish(models.SessionStats{}, fmt.Errorf("failed to create platform: %w", err))
		return
	}
	defer plat.Cleanup()

	sess.setRunning()

	eng := engine.NewEngine(plat, matcher.NewScorer(m.llmManager), m.store, cfg)
	hooks := &engine.Hooks{
		OnAction:   sess.setAction,
		OnError:    sess.recordError,
		OnProgress: sess.setStats,
		OnOutcome: func(outcome *models.ApplicationOutcome) {
			m.logger.Info("Application outcome recorded", map[string]interface{}{
				"session_id": sess.ID,
				"job_id":     outcome.PlatformJobID,
				"status":     string(outcome.Status),
			})
		},
		Cancelled: sess.stopPending,
	}

	started := time.Now()
	stats, err := eng.Run(m.ctx, user, criteria, hooks)
	sess.finish(stats, err)

	m.logger.Info("Session finished", map[string]interface{}{
		"session_id": sess.ID,
		"state":      string(sess.State()),
		"searched":   stats.Searched,
		"succeeded":  stats.Succeeded,
		"duration":   utils.FormatDuration(time.Since(started)),
	})
}

// cleanupRoutine evicts sessions past the retention TTL. Sessions still
// running at the TTL get a stop request first and are evicted once done.
func (m *Manager) cleanupRoutine() {
	defer m.wg.Done()

	interval := m.config.Automation.CleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.cleanupStop:
			return
		case <-ticker.C:
			m.evictExpired()
		}
	}
}

func (m *Manager) evictExpired() {
	ttl := m.config.Automation.SessionTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if !sess.expired(ttl, now) {
			continue
		}
		if !sess.State().Finished() {
			sess.requestStop("session ttl exceeded")
			continue
		}
		delete(m.sessions, id)
		if m.byUser[sess.UserID] == sess {
			delete(m.byUser, sess.UserID)
		}
		m.logger.Debug("Evicted expired session", map[string]interface{}{
			"session_id": id,
		})
	}
}
