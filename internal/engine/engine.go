package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"jobpilot/internal/config"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/internal/matcher"
	"jobpilot/internal/platform"
	"jobpilot/internal/store"
	"jobpilot/pkg/models"
)

// Hooks lets the session layer observe engine progress and request
// cooperative cancellation. All callbacks are optional.
type Hooks struct {
	// OnAction is called when the engine moves to a new activity
	OnAction func(action string)
	// OnError is called for recoverable per-listing errors
	OnError func(err error)
	// OnOutcome is called after an application outcome is recorded
	OnOutcome func(outcome *models.ApplicationOutcome)
	// OnProgress is called with updated counters after each listing
	OnProgress func(stats models.SessionStats)
	// Cancelled is polled at checkpoints: before the search, before each
	// listing and before each new application. A submission in flight is
	// never interrupted.
	Cancelled func() bool
}

func (h *Hooks) action(a string) {
	if h.OnAction != nil {
		h.OnAction(a)
	}
}

func (h *Hooks) recoverable(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}

func (h *Hooks) cancelled() bool {
	return h.Cancelled != nil && h.Cancelled()
}

// Engine runs the application state machine for one platform session:
// login, search, then per listing gate, dedupe, apply and drive the
// submission flow to a terminal outcome.
type Engine struct {
	platform platform.Platform
	matcher  *matcher.Matcher
	scorer   *matcher.Scorer
	store    store.Store
	config   *config.Config
	logger   types.Logger
}

// NewEngine assembles an engine around an already-created platform
func NewEngine(p platform.Platform, sc *matcher.Scorer, st store.Store, cfg *config.Config) *Engine {
	return &Engine{
		platform: p,
		matcher:  matcher.NewMatcher(),
		scorer:   sc,
		store:    st,
		config:   cfg,
		logger:   logging.GetGlobalLogger(),
	}
}

// Run executes the session flow and returns the final counters. The error
// is non-nil only for fatal conditions; per-listing problems surface
// through hooks and the stats.
func (e *Engine) Run(ctx context.Context, user *models.UserContext, criteria *models.SearchCriteria, hooks *Hooks) (models.SessionStats, error) {
	var stats models.SessionStats
	if hooks == nil {
		hooks = &Hooks{}
	}

	creds, ok := user.Credentials[e.platform.Name()]
	if !ok {
		return stats, fmt.Errorf("no credentials configured for platform %s", e.platform.Name())
	}

	hooks.action("logging in")
	if err := e.platform.Login(ctx, creds); err != nil {
		return stats, fmt.Errorf("%w: %v", platform.ErrLoginFailed, err)
	}

	if hooks.cancelled() {
		return stats, nil
	}

	budget, err := e.remainingBudget(ctx, user)
	if err != nil {
		hooks.recoverable(fmt.Errorf("daily counter unavailable, assuming full budget: %w", err))
		budget = e.dailyLimit(user)
	}
	if budget <= 0 {
		hooks.action("daily cap reached")
		return stats, nil
	}
	if criteria.MaxApplications > 0 && budget > criteria.MaxApplications {
		budget = criteria.MaxApplications
	}

	hooks.action("searching jobs")
	listings, err := e.platform.SearchJobs(ctx, criteria)
	if err != nil {
		return stats, fmt.Errorf("job search failed: %w", err)
	}
	stats.Searched = len(listings)
	e.progress(hooks, stats)

	candidates := e.rankCandidates(listings, user, criteria, budget)

	for _, job := range candidates {
		if hooks.cancelled() {
			break
		}
		if budget <= 0 {
			hooks.action("daily cap reached")
			break
		}

		outcome, applied := e.processListing(ctx, job, user, criteria, hooks, &stats)
		if outcome != nil && applied {
			budget--
		}
		e.progress(hooks, stats)
	}

	hooks.action("finished")
	return stats, nil
}

// processListing takes one listing through open, gate, dedupe, apply and
// submission. It returns the recorded outcome, if any, and whether the
// outcome consumed application budget.
func (e *Engine) processListing(ctx context.Context, job *models.JobListing, user *models.UserContext, criteria *models.SearchCriteria, hooks *Hooks, stats *models.SessionStats) (*models.ApplicationOutcome, bool) {
	hooks.action("reviewing " + job.Title)

	if applied, err := e.store.HasApplied(ctx, user.UserID, job.Platform, job.PlatformJobID); err == nil && applied {
		e.logger.Debug("Skipping already-applied job", map[string]interface{}{
			"job_id": job.PlatformJobID,
			"title":  job.Title,
		})
		stats.Skipped++
		return nil, false
	}

	if err := e.platform.OpenListing(ctx, job); err != nil {
		hooks.recoverable(fmt.Errorf("failed to open listing %s: %w", job.PlatformJobID, err))
		stats.Skipped++
		return nil, false
	}

	if match := e.matcher.Match(job, criteria); !match.Matched {
		e.logger.Debug("Listing rejected by preference gates", map[string]interface{}{
			"job_id": job.PlatformJobID,
			"reason": match.Reason,
		})
		stats.Skipped++
		return nil, false
	}
	stats.Matched++

	job.Score = e.scorer.Score(ctx, job, user, criteria)

	if hooks.cancelled() {
		return nil, false
	}

	hooks.action("applying to " + job.Title)
	if err := e.platform.TriggerApply(ctx); err != nil {
		switch {
		case errors.Is(err, platform.ErrExternalApply):
			outcome := e.record(ctx, job, user, models.ApplicationSkippedExternal, 0, "listing applies on an external site", hooks)
			stats.Skipped++
			return outcome, false
		case errors.Is(err, platform.ErrNoQuickApply):
			stats.Skipped++
			return nil, false
		default:
			hooks.recoverable(fmt.Errorf("failed to start application for %s: %w", job.PlatformJobID, err))
			stats.Skipped++
			return nil, false
		}
	}

	stats.Applied++
	result, err := e.platform.DriveSubmission(ctx, user, job)
	if err != nil {
		hooks.recoverable(fmt.Errorf("submission flow error for %s: %w", job.PlatformJobID, err))
		result = &platform.SubmissionResult{
			Status: models.ApplicationFailed,
			Reason: err.Error(),
		}
	}

	outcome := e.record(ctx, job, user, result.Status, result.StepsUsed, result.Reason, hooks)
	if result.Status == models.ApplicationSucceeded {
		stats.Succeeded++
		return outcome, true
	}
	stats.Failed++
	return outcome, false
}

// rankCandidates gates on card-level data and orders by rule-based score
// when more listings matched than the remaining budget allows
func (e *Engine) rankCandidates(listings []*models.JobListing, user *models.UserContext, criteria *models.SearchCriteria, budget int) []*models.JobListing {
	candidates := make([]*models.JobListing, 0, len(listings))
	for _, job := range listings {
		if e.matcher.MatchTitle(job.Title, criteria.Titles) {
			candidates = append(candidates, job)
		}
	}

	if len(candidates) > budget {
		for _, job := range candidates {
			job.Score = e.scorer.BasicScore(job, user, criteria)
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})
	}
	return candidates
}

func (e *Engine) record(ctx context.Context, job *models.JobListing, user *models.UserContext, status models.ApplicationStatus, steps int, reason string, hooks *Hooks) *models.ApplicationOutcome {
	outcome := &models.ApplicationOutcome{
		UserID:        user.UserID,
		Platform:      job.Platform,
		PlatformJobID: job.PlatformJobID,
		Title:         job.Title,
		Company:       job.Company,
		URL:           job.URL,
		Status:        status,
		Score:         job.Score,
		Reason:        reason,
		StepsUsed:     steps,
	}

	if _, err := e.store.SaveOutcome(ctx, outcome); err != nil {
		hooks.recoverable(fmt.Errorf("failed to persist outcome for %s: %w", job.PlatformJobID, err))
	}
	if hooks.OnOutcome != nil {
		hooks.OnOutcome(outcome)
	}
	return outcome
}

func (e *Engine) remainingBudget(ctx context.Context, user *models.UserContext) (int, error) {
	count, err := e.store.CountToday(ctx, user.UserID)
	if err != nil {
		return 0, err
	}
	return e.dailyLimit(user) - count, nil
}

func (e *Engine) dailyLimit(user *models.UserContext) int {
	if user.DailyLimit > 0 {
		return user.DailyLimit
	}
	return e.config.Automation.DailyLimitDefault
}

func (e *Engine) progress(hooks *Hooks, stats models.SessionStats) {
	if hooks.OnProgress != nil {
		hooks.OnProgress(stats)
	}
}
