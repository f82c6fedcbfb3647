package engine

import (
	"context"
	"testing"

	"jobpilot/internal/config"
	"jobpilot/internal/matcher"
	"jobpilot/internal/platform"
	"jobpilot/internal/store"
	"jobpilot/pkg/models"
)

// fakePlatform is a scripted platform for exercising the engine state
// machine without a browser
type fakePlatform struct {
	listings     []*models.JobListing
	loginErr     error
	applyErrs    map[string]error
	submission   platform.SubmissionResult
	loginCalls   int
	searchCalls  int
	applyCalls   int
	driveCalls   int
	openedJobIDs []string
}

func (f *fakePlatform) Name() string { return "linkedin" }

func (f *fakePlatform) Login(ctx context.Context, creds models.PlatformCredentials) error {
	f.loginCalls++
	return f.loginErr
}

func (f *fakePlatform) SearchJobs(ctx context.Context, criteria *models.SearchCriteria) ([]*models.JobListing, error) {
	f.searchCalls++
	return f.listings, nil
}

func (f *fakePlatform) OpenListing(ctx context.Context, job *models.JobListing) error {
	f.openedJobIDs = append(f.openedJobIDs, job.PlatformJobID)
	if job.Description == "" {
		job.Description = "Looking for Go developers with PostgreSQL experience."
	}
	return nil
}

func (f *fakePlatform) TriggerApply(ctx context.Context) error {
	f.applyCalls++
	if len(f.openedJobIDs) > 0 {
		last := f.openedJobIDs[len(f.openedJobIDs)-1]
		if err, ok := f.applyErrs[last]; ok {
			return err
		}
	}
	return nil
}

func (f *fakePlatform) DriveSubmission(ctx context.Context, user *models.UserContext, job *models.JobListing) (*platform.SubmissionResult, error) {
	f.driveCalls++
	result := f.submission
	return &result, nil
}

func (f *fakePlatform) Cleanup() {}

func (f *fakePlatform) IsHealthy() bool { return true }

func testConfig() *config.Config {
	cfg, _ := config.LoadConfig("")
	return cfg
}

func testListing(id, title string) *models.JobListing {
	return &models.JobListing{
		PlatformJobID: id,
		Platform:      "linkedin",
		Title:         title,
		Company:       "Acme",
		Location:      "Remote",
		Remote:        true,
		EasyApply:     true,
	}
}

func engineFixture(p *fakePlatform, st store.Store) *Engine {
	return NewEngine(p, matcher.NewScorer(nil), st, testConfig())
}

func sessionUser() *models.UserContext {
	return &models.UserContext{
		UserID:          "u1",
		YearsExperience: 5,
		Skills:          []string{"Go"},
		DailyLimit:      10,
		Credentials: map[string]models.PlatformCredentials{
			"linkedin": {Username: "ada", Password: "secret"},
		},
	}
}

func sessionCriteria() *models.SearchCriteria {
	return &models.SearchCriteria{
		Titles: []string{"Backend Developer"},
		Skills: []string{"Go"},
	}
}

func TestRunAppliesToMatchingListings(t *testing.T) {
	p := &fakePlatform{
		listings: []*models.JobListing{
			testListing("1", "Backend Developer"),
			testListing("2", "Senior Backend Engineer"),
		},
		submission: platform.SubmissionResult{Status: models.ApplicationSucceeded, StepsUsed: 3},
	}
	st := store.NewMemoryStore()

	stats, err := engineFixture(p, st).Run(context.Background(), sessionUser(), sessionCriteria(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if p.loginCalls != 1 {
		t.Errorf("login called %d times, want 1", p.loginCalls)
	}
	if stats.Searched != 2 || stats.Applied != 2 || stats.Succeeded != 2 {
		t.Errorf("stats = %+v, want 2 searched, 2 applied, 2 succeeded", stats)
	}

	count, _ := st.CountToday(context.Background(), "u1")
	if count != 2 {
		t.Errorf("daily count = %d, want 2", count)
	}
}

func TestRunFailsWithoutCredentials(t *testing.T) {
	p := &fakePlatform{}
	user := sessionUser()
	user.Credentials = nil

	_, err := engineFixture(p, store.NewMemoryStore()).Run(context.Background(), user, sessionCriteria(), nil)
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if p.loginCalls != 0 {
		t.Error("login must not be attempted without credentials")
	}
}

func TestRunSkipsAlreadyAppliedJobs(t *testing.T) {
	p := &fakePlatform{
		listings:   []*models.JobListing{testListing("1", "Backend Developer")},
		submission: platform.SubmissionResult{Status: models.ApplicationSucceeded},
	}
	st := store.NewMemoryStore()
	st.SaveOutcome(context.Background(), &models.ApplicationOutcome{
		UserID:        "u1",
		Platform:      "linkedin",
		PlatformJobID: "1",
		Status:        models.ApplicationSucceeded,
	})

	stats, err := engineFixture(p, st).Run(context.Background(), sessionUser(), sessionCriteria(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Applied != 0 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 0 applied and 1 skipped", stats)
	}
	if p.applyCalls != 0 {
		t.Error("apply must not run for an already-applied job")
	}
}

func TestRunRecordsExternalApplySkip(t *testing.T) {
	p := &fakePlatform{
		listings:  []*models.JobListing{testListing("1", "Backend Developer")},
		applyErrs: map[string]error{"1": platform.ErrExternalApply},
	}
	st := store.NewMemoryStore()

	stats, err := engineFixture(p, st).Run(context.Background(), sessionUser(), sessionCriteria(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Skipped != 1 || stats.Applied != 0 {
		t.Errorf("stats = %+v, want skip without application", stats)
	}

	outcomes := st.Outcomes()
	if len(outcomes) != 1 || outcomes[0].Status != models.ApplicationSkippedExternal {
		t.Fatalf("outcomes = %+v, want one external-apply skip record", outcomes)
	}

	// The external-apply record must also dedupe future sessions
	applied, _ := st.HasApplied(context.Background(), "u1", "linkedin", "1")
	if !applied {
		t.Error("external-apply outcome should mark the job as handled")
	}
}

func TestRunStopsAtDailyCap(t *testing.T) {
	p := &fakePlatform{
		listings: []*models.JobListing{
			testListing("1", "Backend Developer"),
			testListing("2", "Backend Developer"),
			testListing("3", "Backend Developer"),
		},
		submission: platform.SubmissionResult{Status: models.ApplicationSucceeded},
	}
	st := store.NewMemoryStore()
	user := sessionUser()
	user.DailyLimit = 2

	stats, err := engineFixture(p, st).Run(context.Background(), user, sessionCriteria(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", stats.Succeeded)
	}
	if p.driveCalls != 2 {
		t.Errorf("submissions driven = %d, want 2", p.driveCalls)
	}
}

func TestRunSkipsSearchWhenCapExhausted(t *testing.T) {
	p := &fakePlatform{
		listings:   []*models.JobListing{testListing("1", "Backend Developer")},
		submission: platform.SubmissionResult{Status: models.ApplicationSucceeded},
	}
	st := store.NewMemoryStore()
	user := sessionUser()
	user.DailyLimit = 1

	// Consume the cap with a prior application
	st.SaveOutcome(context.Background(), &models.ApplicationOutcome{
		UserID:        "u1",
		Platform:      "linkedin",
		PlatformJobID: "999",
		Status:        models.ApplicationSucceeded,
	})

	stats, err := engineFixture(p, st).Run(context.Background(), user, sessionCriteria(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if p.searchCalls != 0 {
		t.Error("search must not run when the daily cap is already reached")
	}
	if stats.Applied != 0 {
		t.Errorf("applied = %d, want 0", stats.Applied)
	}
}

func TestRunHonorsSessionApplicationLimit(t *testing.T) {
	p := &fakePlatform{
		listings: []*models.JobListing{
			testListing("1", "Backend Developer"),
			testListing("2", "Backend Developer"),
		},
		submission: platform.SubmissionResult{Status: models.ApplicationSucceeded},
	}
	criteria := sessionCriteria()
	criteria.MaxApplications = 1

	stats, err := engineFixture(p, store.NewMemoryStore()).Run(context.Background(), sessionUser(), criteria, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", stats.Succeeded)
	}
}

func TestRunCancellationBeforeSearch(t *testing.T) {
	p := &fakePlatform{
		listings: []*models.JobListing{testListing("1", "Backend Developer")},
	}
	hooks := &Hooks{Cancelled: func() bool { return true }}

	stats, err := engineFixture(p, store.NewMemoryStore()).Run(context.Background(), sessionUser(), sessionCriteria(), hooks)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if p.searchCalls != 0 || stats.Applied != 0 {
		t.Error("cancellation before the search checkpoint must stop the run")
	}
}

func TestRunCancellationBetweenListings(t *testing.T) {
	p := &fakePlatform{
		listings: []*models.JobListing{
			testListing("1", "Backend Developer"),
			testListing("2", "Backend Developer"),
		},
		submission: platform.SubmissionResult{Status: models.ApplicationSucceeded},
	}

	cancelled := false
	hooks := &Hooks{
		Cancelled: func() bool { return cancelled },
		OnOutcome: func(outcome *models.ApplicationOutcome) {
			// Request stop after the first application finishes
			cancelled = true
		},
	}

	stats, err := engineFixture(p, store.NewMemoryStore()).Run(context.Background(), sessionUser(), sessionCriteria(), hooks)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1 before the stop took effect", stats.Succeeded)
	}
	if p.driveCalls != 1 {
		t.Errorf("submissions driven = %d, want 1", p.driveCalls)
	}
}

func TestRunRecordsFailedSubmission(t *testing.T) {
	p := &fakePlatform{
		listings:   []*models.JobListing{testListing("1", "Backend Developer")},
		submission: platform.SubmissionResult{Status: models.ApplicationFailed, StepsUsed: 10, Reason: "application not finished within 10 steps"},
	}
	st := store.NewMemoryStore()

	stats, err := engineFixture(p, st).Run(context.Background(), sessionUser(), sessionCriteria(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Failed != 1 || stats.Succeeded != 0 {
		t.Errorf("stats = %+v, want one failed application", stats)
	}

	count, _ := st.CountToday(context.Background(), "u1")
	if count != 0 {
		t.Errorf("failed application consumed daily budget: count = %d", count)
	}
}
