package store

import (
	"context"
	"testing"

	"jobpilot/pkg/models"
)

func outcome(userID, jobID string, status models.ApplicationStatus) *models.ApplicationOutcome {
	return &models.ApplicationOutcome{
		UserID:        userID,
		Platform:      "linkedin",
		PlatformJobID: jobID,
		Title:         "Backend Developer",
		Company:       "Acme",
		Status:        status,
	}
}

func TestSaveOutcomeDeduplicates(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	inserted, err := st.SaveOutcome(ctx, outcome("u1", "1", models.ApplicationSucceeded))
	if err != nil {
		t.Fatalf("SaveOutcome returned error: %v", err)
	}
	if !inserted {
		t.Fatal("first SaveOutcome should insert")
	}

	inserted, err = st.SaveOutcome(ctx, outcome("u1", "1", models.ApplicationFailed))
	if err != nil {
		t.Fatalf("SaveOutcome returned error: %v", err)
	}
	if inserted {
		t.Error("second SaveOutcome for the same job must not insert")
	}

	count, _ := st.CountToday(ctx, "u1")
	if count != 1 {
		t.Errorf("duplicate save changed daily count: got %d, want 1", count)
	}
}

func TestHasApplied(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	st.SaveOutcome(ctx, outcome("u1", "1", models.ApplicationSkippedExternal))

	tests := []struct {
		name     string
		userID   string
		jobID    string
		expected bool
	}{
		{"recorded job", "u1", "1", true},
		{"other job", "u1", "2", false},
		{"other user", "u2", "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := st.HasApplied(ctx, tt.userID, "linkedin", tt.jobID)
			if err != nil {
				t.Fatalf("HasApplied returned error: %v", err)
			}
			if applied != tt.expected {
				t.Errorf("HasApplied = %v, want %v", applied, tt.expected)
			}
		})
	}
}

func TestCountTodayCountsOnlySuccesses(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	st.SaveOutcome(ctx, outcome("u1", "1", models.ApplicationSucceeded))
	st.SaveOutcome(ctx, outcome("u1", "2", models.ApplicationFailed))
	st.SaveOutcome(ctx, outcome("u1", "3", models.ApplicationSkippedExternal))
	st.SaveOutcome(ctx, outcome("u1", "4", models.ApplicationSucceeded))
	st.SaveOutcome(ctx, outcome("u2", "1", models.ApplicationSucceeded))

	count, err := st.CountToday(ctx, "u1")
	if err != nil {
		t.Fatalf("CountToday returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("CountToday = %d, want 2", count)
	}

	count, _ = st.CountToday(ctx, "u2")
	if count != 1 {
		t.Errorf("CountToday for u2 = %d, want 1", count)
	}
}

func TestOutcomesSnapshot(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	st.SaveOutcome(ctx, outcome("u1", "1", models.ApplicationSucceeded))
	st.SaveOutcome(ctx, outcome("u1", "2", models.ApplicationFailed))

	outcomes := st.Outcomes()
	if len(outcomes) != 2 {
		t.Fatalf("Outcomes returned %d records, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if o.AppliedAt.IsZero() {
			t.Error("stored outcome missing AppliedAt timestamp")
		}
	}
}
