package matcher

import (
	"fmt"
	"strings"

	"jobpilot/pkg/models"
)

// Matcher gates job listings against a user's search criteria. All three
// gates must pass for a listing to be pursued; score never decides.
type Matcher struct{}

// NewMatcher creates a new matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match runs the title, location and skill gates in order and reports the
// first gate that rejected the listing
func (m *Matcher) Match(job *models.JobListing, criteria *models.SearchCriteria) models.MatchResult {
	if !m.MatchTitle(job.Title, criteria.Titles) {
		return models.MatchResult{Matched: false, Reason: fmt.Sprintf("title %q does not match desired titles", job.Title)}
	}
	if !m.MatchLocation(job, criteria) {
		return models.MatchResult{Matched: false, Reason: fmt.Sprintf("location %q does not match preferences", job.Location)}
	}
	if !m.MatchSkills(job.Description, criteria.Skills) {
		return models.MatchResult{Matched: false, Reason: "description mentions none of the desired skills"}
	}
	return models.MatchResult{Matched: true}
}

// MatchTitle checks a job title against the desired titles using three
// progressively looser comparisons: full substring containment, overlap on
// significant words, then partial containment between long words.
func (m *Matcher) MatchTitle(jobTitle string, desiredTitles []string) bool {
	if len(desiredTitles) == 0 {
		return true
	}

	jobLower := strings.ToLower(strings.TrimSpace(jobTitle))
	if jobLower == "" {
		return false
	}

	for _, desired := range desiredTitles {
		desiredLower := strings.ToLower(strings.TrimSpace(desired))
		if desiredLower == "" {
			continue
		}

		if strings.Contains(jobLower, desiredLower) || strings.Contains(desiredLower, jobLower) {
			return true
		}

		if sharesSignificantWord(jobLower, desiredLower) {
			return true
		}

		if sharesPartialWord(jobLower, desiredLower) {
			return true
		}
	}
	return false
}

// sharesSignificantWord reports whether the titles share any word longer
// than two characters
func sharesSignificantWord(a, b string) bool {
	bWords := make(map[string]bool)
	for _, w := range strings.Fields(b) {
		if len(w) > 2 {
			bWords[w] = true
		}
	}
	for _, w := range strings.Fields(a) {
		if len(w) > 2 && bWords[w] {
			return true
		}
	}
	return false
}

// sharesPartialWord reports whether any word longer than three characters
// from one title is contained in a word of the other
func sharesPartialWord(a, b string) bool {
	for _, aw := range strings.Fields(a) {
		for _, bw := range strings.Fields(b) {
			if len(aw) > 3 && strings.Contains(bw, aw) {
				return true
			}
			if len(bw) > 3 && strings.Contains(aw, bw) {
				return true
			}
		}
	}
	return false
}

// MatchLocation checks the listing's location against preferences. Remote
// listings always pass; an empty preference list passes everything.
func (m *Matcher) MatchLocation(job *models.JobListing, criteria *models.SearchCriteria) bool {
	locationLower := strings.ToLower(job.Location)
	isRemote := job.Remote || strings.Contains(locationLower, "remote")

	if criteria.RemoteOnly {
		return isRemote
	}

	if len(criteria.Locations) == 0 || isRemote {
		return true
	}

	for _, loc := range criteria.Locations {
		locLower := strings.ToLower(strings.TrimSpace(loc))
		if locLower == "" {
			continue
		}
		if strings.Contains(locationLower, locLower) || strings.Contains(locLower, locationLower) {
			return true
		}
	}
	return false
}

// MatchSkills requires at least one desired skill to be mentioned in the
// job description. Listings without a description pass so that sparse
// search cards are not rejected on missing data.
func (m *Matcher) MatchSkills(description string, skills []string) bool {
	if len(skills) == 0 || strings.TrimSpace(description) == "" {
		return true
	}

	descLower := strings.ToLower(description)
	for _, skill := range skills {
		skillLower := strings.ToLower(strings.TrimSpace(skill))
		if skillLower != "" && strings.Contains(descLower, skillLower) {
			return true
		}
	}
	return false
}
