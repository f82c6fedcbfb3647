package matcher

import (
	"testing"

	"jobpilot/pkg/models"
)

func TestMatchTitle(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name     string
		jobTitle string
		desired  []string
		want     bool
	}{
		{"exact match", "Backend Developer", []string{"Backend Developer"}, true},
		{"job title contains desired", "Senior Backend Developer", []string{"Backend Developer"}, true},
		{"desired contains job title", "Engineer", []string{"Software Engineer"}, true},
		{"shared significant word", "Senior Backend Engineer", []string{"Backend Developer"}, true},
		{"shared word second candidate", "Senior Backend Engineer", []string{"Data Scientist", "Software Engineer"}, true},
		{"partial word overlap", "DevOps Engineering Lead", []string{"Engineer"}, true},
		{"no overlap", "Accountant", []string{"Backend Developer"}, false},
		{"short words ignored", "VP of IT", []string{"QA at Co"}, false},
		{"empty desired list passes", "Anything", nil, true},
		{"empty job title fails", "", []string{"Backend Developer"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MatchTitle(tt.jobTitle, tt.desired); got != tt.want {
				t.Errorf("MatchTitle(%q, %v) = %v, want %v", tt.jobTitle, tt.desired, got, tt.want)
			}
		})
	}
}

func TestMatchLocation(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name     string
		job      models.JobListing
		criteria models.SearchCriteria
		want     bool
	}{
		{
			"remote only accepts remote flag",
			models.JobListing{Location: "Berlin, Germany", Remote: true},
			models.SearchCriteria{RemoteOnly: true},
			true,
		},
		{
			"remote only accepts remote in text",
			models.JobListing{Location: "Remote - Europe"},
			models.SearchCriteria{RemoteOnly: true},
			true,
		},
		{
			"remote only rejects on-site",
			models.JobListing{Location: "Berlin, Germany"},
			models.SearchCriteria{RemoteOnly: true, Locations: []string{"Berlin"}},
			false,
		},
		{
			"empty preferences pass",
			models.JobListing{Location: "Mumbai, India"},
			models.SearchCriteria{},
			true,
		},
		{
			"remote listing passes any preference",
			models.JobListing{Location: "Remote"},
			models.SearchCriteria{Locations: []string{"Pune"}},
			true,
		},
		{
			"city substring match",
			models.JobListing{Location: "Pune, Maharashtra, India"},
			models.SearchCriteria{Locations: []string{"Pune"}},
			true,
		},
		{
			"city mismatch",
			models.JobListing{Location: "Chennai, India"},
			models.SearchCriteria{Locations: []string{"Pune"}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MatchLocation(&tt.job, &tt.criteria); got != tt.want {
				t.Errorf("MatchLocation(%q) = %v, want %v", tt.job.Location, got, tt.want)
			}
		})
	}
}

func TestMatchSkills(t *testing.T) {
	m := NewMatcher()

	description := "We need strong Go and PostgreSQL experience, Docker a plus."

	tests := []struct {
		name        string
		description string
		skills      []string
		want        bool
	}{
		{"one skill mentioned", description, []string{"Go"}, true},
		{"only one of many needed", description, []string{"Rust", "docker"}, true},
		{"no skills mentioned", description, []string{"Rust", "Kotlin"}, false},
		{"empty skills pass", description, nil, true},
		{"empty description passes", "", []string{"Go"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MatchSkills(tt.description, tt.skills); got != tt.want {
				t.Errorf("MatchSkills = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchGateOrder(t *testing.T) {
	m := NewMatcher()

	job := &models.JobListing{
		Title:       "Accountant",
		Location:    "Chennai, India",
		Description: "Bookkeeping role",
	}
	criteria := &models.SearchCriteria{
		Titles:    []string{"Backend Developer"},
		Locations: []string{"Pune"},
		Skills:    []string{"Go"},
	}

	result := m.Match(job, criteria)
	if result.Matched {
		t.Fatal("expected rejection")
	}
	if result.Reason == "" {
		t.Fatal("expected a rejection reason")
	}

	// Fix the title and the next gate should reject instead
	job.Title = "Backend Developer"
	result = m.Match(job, criteria)
	if result.Matched {
		t.Fatal("expected location rejection")
	}

	job.Location = "Pune, India"
	result = m.Match(job, criteria)
	if result.Matched {
		t.Fatal("expected skills rejection")
	}

	job.Description = "Looking for Go developers"
	result = m.Match(job, criteria)
	if !result.Matched {
		t.Fatalf("expected match, got reason %q", result.Reason)
	}
}
