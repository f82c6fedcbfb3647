package matcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"jobpilot/internal/llm"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/pkg/models"
	"jobpilot/pkg/utils"
)

// Scorer produces a 0-100 relevance score for a matched listing. The score
// orders candidates when the daily budget is shorter than the match list;
// it never gates.
type Scorer struct {
	generator llm.Generator
	logger    types.Logger
}

// NewScorer creates a scorer backed by the given generator. A nil generator
// restricts scoring to the rule-based path.
func NewScorer(generator llm.Generator) *Scorer {
	return &Scorer{
		generator: generator,
		logger:    logging.GetGlobalLogger(),
	}
}

// Score rates the listing against the user's criteria. The holistic LLM
// score is preferred; malformed or out-of-range results fall back to the
// weighted rule-based score.
func (s *Scorer) Score(ctx context.Context, job *models.JobListing, user *models.UserContext, criteria *models.SearchCriteria) int {
	if s.generator != nil && s.generator.IsHealthy() {
		if score, err := s.aiScore(ctx, job, user, criteria); err == nil {
			return score
		} else {
			s.logger.Debug("AI scoring unavailable, using rule-based score", map[string]interface{}{
				"job_title": job.Title,
				"error":     err.Error(),
			})
		}
	}
	return s.BasicScore(job, user, criteria)
}

// aiScore asks the generator for a bare integer rating
func (s *Scorer) aiScore(ctx context.Context, job *models.JobListing, user *models.UserContext, criteria *models.SearchCriteria) (int, error) {
	prompt := buildScorePrompt(job, user, criteria)

	response, err := s.generator.Generate(ctx, prompt, 16)
	if err != nil {
		return 0, err
	}

	score, err := strconv.Atoi(strings.TrimSpace(response))
	if err != nil {
		return 0, fmt.Errorf("non-numeric score %q: %w", response, err)
	}
	if score < 0 || score > 100 {
		return 0, fmt.Errorf("score %d out of range", score)
	}
	return score, nil
}

func buildScorePrompt(job *models.JobListing, user *models.UserContext, criteria *models.SearchCriteria) string {
	return fmt.Sprintf(`Rate how well this job matches the candidate's preferences on a scale of 0 to 100.

Job title: %s
Company: %s
Location: %s
Description: %s

Candidate's desired titles: %s
Candidate's preferred locations: %s
Candidate's skills: %s
Candidate's years of experience: %d

Respond with ONLY a single integer between 0 and 100, no other text.`,
		job.Title,
		job.Company,
		job.Location,
		utils.Truncate(job.Description, 2000),
		strings.Join(criteria.Titles, ", "),
		strings.Join(criteria.Locations, ", "),
		strings.Join(user.Skills, ", "),
		user.YearsExperience,
	)
}

// BasicScore computes the deterministic weighted score: title overlap up to
// 30, location fit 20, skill mentions up to 30, plus a 20 point baseline
func (s *Scorer) BasicScore(job *models.JobListing, user *models.UserContext, criteria *models.SearchCriteria) int {
	score := 10

	if strings.TrimSpace(job.Description) != "" {
		score += 10
	}

	switch titleWordMatches(job.Title, criteria.Titles) {
	case 0:
	case 1:
		score += 15
	default:
		score += 30
	}

	m := NewMatcher()
	if m.MatchLocation(job, criteria) {
		score += 20
	}

	skills := criteria.Skills
	if len(skills) == 0 {
		skills = user.Skills
	}
	switch n := skillMentions(job.Description, skills); {
	case n >= 3:
		score += 30
	case n >= 1:
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

// titleWordMatches counts significant words shared between the job title
// and the closest desired title
func titleWordMatches(jobTitle string, desiredTitles []string) int {
	jobWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(jobTitle)) {
		if len(w) > 2 {
			jobWords[w] = true
		}
	}

	best := 0
	for _, desired := range desiredTitles {
		count := 0
		for _, w := range strings.Fields(strings.ToLower(desired)) {
			if len(w) > 2 && jobWords[w] {
				count++
			}
		}
		if count > best {
			best = count
		}
	}
	return best
}

// skillMentions counts how many skills appear in the description
func skillMentions(description string, skills []string) int {
	descLower := strings.ToLower(description)
	count := 0
	for _, skill := range skills {
		skillLower := strings.ToLower(strings.TrimSpace(skill))
		if skillLower != "" && strings.Contains(descLower, skillLower) {
			count++
		}
	}
	return count
}
