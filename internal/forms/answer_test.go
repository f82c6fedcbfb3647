package forms

import (
	"context"
	"errors"
	"testing"

	"jobpilot/pkg/models"
)

type stubGenerator struct {
	response string
	err      error
	healthy  bool
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return s.response, s.err
}

func (s *stubGenerator) IsHealthy() bool {
	return s.healthy
}

func testUser() *models.UserContext {
	return &models.UserContext{
		UserID:          "u1",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		YearsExperience: 6,
		Skills:          []string{"Go", "PostgreSQL"},
	}
}

func TestRuleAnswers(t *testing.T) {
	a := NewAnswerer(nil)
	user := testUser()

	tests := []struct {
		name string
		q    Question
		want string
	}{
		{
			"work authorization",
			Question{Text: "Are you legally authorized to work here?", Category: CategoryWorkAuth, Kind: KindRadio},
			"Yes",
		},
		{
			"visa sponsorship",
			Question{Text: "Do you require visa sponsorship?", Category: CategoryVisaSponsorship, Kind: KindRadio},
			"No",
		},
		{
			"security clearance",
			Question{Text: "Do you hold an active security clearance?", Category: CategoryYesNo, Kind: KindRadio},
			"No",
		},
		{
			"education",
			Question{Text: "Do you have a bachelor's degree?", Category: CategoryYesNo, Kind: KindRadio},
			"Yes",
		},
		{
			"commute",
			Question{Text: "Are you comfortable commuting to the office?", Category: CategoryCommute, Kind: KindRadio},
			"Yes",
		},
		{
			"agreement",
			Question{Text: "I agree to the privacy policy", Category: CategoryAgreement, Kind: KindCheckbox},
			"Yes",
		},
		{
			"years as number input",
			Question{Text: "How many years of experience do you have?", Category: CategoryYearsExperience, Kind: KindNumber},
			"6",
		},
		{
			"years threshold met",
			Question{Text: "Do you have 5+ years of experience with Go?", Category: CategorySkillPresence, Kind: KindRadio},
			"Yes",
		},
		{
			"years threshold not met",
			Question{Text: "Do you have at least 10 years of experience with Go?", Category: CategorySkillPresence, Kind: KindRadio},
			"No",
		},
		{
			"known skill named",
			Question{Text: "Do you have experience with PostgreSQL?", Category: CategorySkillPresence, Kind: KindRadio},
			"Yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Answer(context.Background(), &tt.q, user, nil)
			if got != tt.want {
				t.Errorf("Answer = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFallbackAnswer(t *testing.T) {
	user := testUser()

	tests := []struct {
		category Category
		want     string
	}{
		{CategoryVisaSponsorship, "No"},
		{CategoryYearsExperience, "6"},
		{CategorySalary, "Negotiable"},
		{CategoryAvailability, "Immediately"},
		{CategoryWorkAuth, "Yes"},
		{CategoryYesNo, "Yes"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := FallbackAnswer(tt.category, user); got != tt.want {
				t.Errorf("FallbackAnswer(%s) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}

	if got := FallbackAnswer(CategoryYearsExperience, &models.UserContext{}); got != "3" {
		t.Errorf("FallbackAnswer years without profile = %q, want \"3\"", got)
	}
	if got := FallbackAnswer(CategoryFreeText, user); got == "" {
		t.Error("FallbackAnswer free text must not be empty")
	}
}

func TestAnswerNormalizesGeneratorYesNo(t *testing.T) {
	a := NewAnswerer(&stubGenerator{response: "yes, that should be fine", healthy: true})
	q := Question{Text: "Open to weekend shifts?", Category: CategoryYesNo, Kind: KindRadio}

	got := a.Answer(context.Background(), &q, testUser(), nil)
	if got != "Yes" {
		t.Errorf("Answer = %q, want Yes", got)
	}
}

func TestAnswerFallsBackWhenGeneratorFails(t *testing.T) {
	a := NewAnswerer(&stubGenerator{err: errors.New("api down"), healthy: true})
	q := Question{Text: "What are your salary expectations?", Category: CategorySalary, Kind: KindText}

	got := a.Answer(context.Background(), &q, testUser(), nil)
	if got != "Negotiable" {
		t.Errorf("Answer = %q, want Negotiable", got)
	}
}

func TestAnswerAcceptsGeneratorOptionMatch(t *testing.T) {
	a := NewAnswerer(&stubGenerator{response: "2 weeks", healthy: true})
	q := Question{
		Text:     "When can you start?",
		Category: CategoryAvailability,
		Kind:     KindSelect,
		Options:  []string{"Immediately", "2 weeks notice", "1 month"},
	}

	got := a.Answer(context.Background(), &q, testUser(), nil)
	if got != "2 weeks" {
		t.Errorf("Answer = %q, want generator answer \"2 weeks\"", got)
	}
}

func TestAnswerRejectsGeneratorOffOptionAnswer(t *testing.T) {
	a := NewAnswerer(&stubGenerator{response: "whenever works for the team", healthy: true})
	q := Question{
		Text:     "When can you start?",
		Category: CategoryAvailability,
		Kind:     KindSelect,
		Options:  []string{"Immediately", "2 weeks notice", "1 month"},
	}

	got := a.Answer(context.Background(), &q, testUser(), nil)
	if got != "Immediately" {
		t.Errorf("Answer = %q, want fallback Immediately", got)
	}
}

func TestAnswerSkipsUnhealthyGenerator(t *testing.T) {
	a := NewAnswerer(&stubGenerator{response: "2 weeks notice", healthy: false})
	q := Question{Text: "When can you start?", Category: CategoryAvailability, Kind: KindText}

	got := a.Answer(context.Background(), &q, testUser(), nil)
	if got != "Immediately" {
		t.Errorf("Answer = %q, want fallback Immediately", got)
	}
}
