package forms

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"jobpilot/internal/llm"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/pkg/models"
)

var (
	clearanceRegex = regexp.MustCompile(`(?i)security clearance`)
	educationRegex = regexp.MustCompile(`(?i)(degree|bachelor|master|diploma|graduated)`)
	immediateRegex = regexp.MustCompile(`(?i)(start immediately|immediate start)`)
)

// Answerer resolves a classified question to an answer string. Questions
// with a confident deterministic rule never reach the generator; the rest
// are answered by the generator with a per-category fallback when it fails.
type Answerer struct {
	generator llm.Generator
	logger    types.Logger
}

// NewAnswerer creates an answerer. A nil generator restricts answering to
// rules and fallbacks.
func NewAnswerer(generator llm.Generator) *Answerer {
	return &Answerer{
		generator: generator,
		logger:    logging.GetGlobalLogger(),
	}
}

// Answer resolves the question for the given user and job
func (a *Answerer) Answer(ctx context.Context, q *Question, user *models.UserContext, job *models.JobListing) string {
	if answer, ok := a.ruleAnswer(q, user); ok {
		return answer
	}

	if a.generator != nil && a.generator.IsHealthy() {
		if answer, err := a.aiAnswer(ctx, q, user, job); err == nil && answer != "" {
			if len(q.Options) == 0 || matchesOption(answer, q.Options) {
				return answer
			}
			a.logger.Debug("AI answer matched no option, using fallback", map[string]interface{}{
				"question": q.Text,
				"answer":   answer,
			})
		} else if err != nil {
			a.logger.Debug("AI answer failed, using fallback", map[string]interface{}{
				"question": q.Text,
				"error":    err.Error(),
			})
		}
	}

	return FallbackAnswer(q.Category, user)
}

// ruleAnswer handles the questions whose correct answer follows directly
// from the user profile
func (a *Answerer) ruleAnswer(q *Question, user *models.UserContext) (string, bool) {
	text := q.Text

	if clearanceRegex.MatchString(text) {
		return "No", true
	}
	if educationRegex.MatchString(text) {
		return "Yes", true
	}
	if immediateRegex.MatchString(text) {
		return "Yes", true
	}

	switch q.Category {
	case CategoryWorkAuth:
		return "Yes", true
	case CategoryVisaSponsorship:
		return "No", true
	case CategoryCommute:
		return "Yes", true
	case CategoryAgreement:
		return "Yes", true
	case CategorySkillPresence:
		if required, ok := RequiredYears(text); ok {
			if user.YearsExperience >= required {
				return "Yes", true
			}
			return "No", true
		}
		for _, skill := range user.Skills {
			if skill != "" && strings.Contains(strings.ToLower(text), strings.ToLower(skill)) {
				return "Yes", true
			}
		}
		return "", false
	case CategoryYearsExperience:
		if q.Kind == KindText || q.Kind == KindNumber {
			return strconv.Itoa(user.YearsExperience), true
		}
		if required, ok := RequiredYears(text); ok {
			if user.YearsExperience >= required {
				return "Yes", true
			}
			return "No", true
		}
	}
	return "", false
}

// aiAnswer asks the generator with a per-category prompt
func (a *Answerer) aiAnswer(ctx context.Context, q *Question, user *models.UserContext, job *models.JobListing) (string, error) {
	prompt := buildAnswerPrompt(q, user, job)

	response, err := a.generator.Generate(ctx, prompt, answerTokenBudget(q.Category))
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(strings.Trim(strings.TrimSpace(response), `"`))
	if answer == "" {
		return "", fmt.Errorf("empty answer from generator")
	}

	if q.Category == CategoryYesNo || q.Kind == KindRadio || q.Kind == KindCheckbox {
		lower := strings.ToLower(answer)
		switch {
		case strings.HasPrefix(lower, "yes"):
			return "Yes", nil
		case strings.HasPrefix(lower, "no"):
			return "No", nil
		}
	}
	return answer, nil
}

// matchesOption reports whether the answer resolves to one of the offered
// options under the same matching rules the filler applies
func matchesOption(answer string, options []string) bool {
	answerLower := strings.ToLower(strings.TrimSpace(answer))
	if answerLower == "" {
		return false
	}
	for _, opt := range options {
		optLower := strings.ToLower(strings.TrimSpace(opt))
		if optLower == "" {
			continue
		}
		if optLower == answerLower || strings.Contains(optLower, answerLower) || strings.Contains(answerLower, optLower) {
			return true
		}
	}
	return false
}

func buildAnswerPrompt(q *Question, user *models.UserContext, job *models.JobListing) string {
	var sb strings.Builder

	sb.WriteString("You are filling out a job application form on behalf of a candidate.\n\n")
	fmt.Fprintf(&sb, "Candidate: %s, %d years of professional experience, based in %s.\n",
		user.FullName(), user.YearsExperience, user.City)
	fmt.Fprintf(&sb, "Candidate skills: %s.\n", strings.Join(user.Skills, ", "))
	if job != nil {
		fmt.Fprintf(&sb, "Job being applied to: %s at %s.\n", job.Title, job.Company)
	}
	fmt.Fprintf(&sb, "\nForm question: %s\n", q.Text)
	if len(q.Options) > 0 {
		fmt.Fprintf(&sb, "Available options: %s\n", strings.Join(q.Options, " | "))
	}

	switch q.Category {
	case CategoryYesNo, CategoryWorkAuth, CategoryVisaSponsorship, CategoryCommute, CategoryAgreement:
		sb.WriteString("\nAnswer with exactly Yes or No, nothing else.")
	case CategoryYearsExperience:
		sb.WriteString("\nAnswer with a single integer number of years, nothing else.")
	case CategorySalary:
		sb.WriteString("\nAnswer with a short salary expectation phrase, no explanation.")
	case CategoryAvailability:
		sb.WriteString("\nAnswer with a short availability phrase such as Immediately or 2 weeks notice.")
	default:
		if len(q.Options) > 0 {
			sb.WriteString("\nAnswer with the text of exactly one of the available options.")
		} else {
			sb.WriteString("\nAnswer in one to three short sentences, first person, no preamble.")
		}
	}

	return sb.String()
}

func answerTokenBudget(category Category) int {
	switch category {
	case CategoryFreeText:
		return 256
	default:
		return 32
	}
}

// FallbackAnswer returns the safe deterministic answer for a category when
// no generator answer is available
func FallbackAnswer(category Category, user *models.UserContext) string {
	switch category {
	case CategoryVisaSponsorship:
		return "No"
	case CategoryYearsExperience:
		if user != nil && user.YearsExperience > 0 {
			return strconv.Itoa(user.YearsExperience)
		}
		return "3"
	case CategorySalary:
		return "Negotiable"
	case CategoryAvailability:
		return "Immediately"
	case CategoryFreeText:
		return "I am excited about this opportunity and believe my background makes me a strong fit for the role."
	default:
		return "Yes"
	}
}
