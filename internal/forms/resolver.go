package forms

import (
	"context"
	"strings"

	"jobpilot/internal/browser"
	"jobpilot/internal/llm"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/pkg/models"
)

// Resolver drives the full question pipeline for one form pane: prefill
// structured contact fields, discover the remaining questions, resolve each
// to an answer and write it into its control. Individual question failures
// are logged and skipped; the submission loop decides what an unanswered
// required field means.
type Resolver struct {
	discoverer *Discoverer
	answerer   *Answerer
	filler     *Filler
	logger     types.Logger
}

// NewResolver creates a resolver backed by the given generator
func NewResolver(generator llm.Generator) *Resolver {
	return &Resolver{
		discoverer: NewDiscoverer(),
		answerer:   NewAnswerer(generator),
		filler:     NewFiller(),
		logger:     logging.GetGlobalLogger(),
	}
}

// ResolveAll answers every question found under root and returns how many
// fields were filled
func (r *Resolver) ResolveAll(ctx context.Context, root browser.Element, user *models.UserContext, job *models.JobListing) int {
	r.PrefillContact(root, user)

	filled := 0
	for _, q := range r.discoverer.Discover(root) {
		if q.Kind == KindFile {
			if user.ResumePath != "" {
				if err := r.filler.Fill(q, user.ResumePath); err == nil {
					filled++
				}
			}
			continue
		}

		answer := r.answerer.Answer(ctx, q, user, job)
		if answer == "" {
			continue
		}

		if err := r.filler.Fill(q, answer); err != nil {
			r.logger.Warn("Failed to fill form question", map[string]interface{}{
				"question": q.Text,
				"kind":     string(q.Kind),
				"error":    err.Error(),
			})
			continue
		}

		r.logger.Debug("Filled form question", map[string]interface{}{
			"question": q.Text,
			"category": string(q.Category),
		})
		filled++
	}
	return filled
}

// contactFields maps attribute fragments to the user value they prefill
func contactFields(user *models.UserContext) []struct {
	markers []string
	value   string
} {
	return []struct {
		markers []string
		value   string
	}{
		{[]string{"first-name", "firstname", "first_name", "given-name"}, user.FirstName},
		{[]string{"last-name", "lastname", "last_name", "family-name"}, user.LastName},
		{[]string{"email"}, user.Email},
		{[]string{"phone", "mobile", "tel"}, user.Phone},
		{[]string{"city", "location"}, user.City},
	}
}

// PrefillContact fills the structured identity fields by name, id and
// aria-label heuristics before generic question resolution runs
func (r *Resolver) PrefillContact(root browser.Element, user *models.UserContext) {
	inputs, err := root.FindAll("input")
	if err != nil {
		return
	}

	fields := contactFields(user)
	for _, input := range inputs {
		kind, ok := inputKind(input)
		if !ok || kind != KindText {
			continue
		}

		identity := inputIdentity(input)
		for _, field := range fields {
			if field.value == "" {
				continue
			}
			if matchesAny(identity, field.markers) {
				if err := r.filler.fillText(input, field.value); err != nil {
					r.logger.Debug("Contact prefill failed", map[string]interface{}{
						"field": identity,
						"error": err.Error(),
					})
				}
				break
			}
		}
	}
}

// AttachResume uploads the resume to the first file input under root
func (r *Resolver) AttachResume(root browser.Element, path string) error {
	if path == "" {
		return nil
	}
	fileInput, err := root.Find("input[type=file]")
	if err != nil {
		return err
	}
	return fileInput.SetFiles([]string{path})
}

func inputIdentity(el browser.Element) string {
	parts := make([]string, 0, 3)
	for _, attr := range []string{"name", "id", "aria-label", "placeholder", "autocomplete"} {
		if v, _ := el.Attribute(attr); v != "" {
			parts = append(parts, strings.ToLower(v))
		}
	}
	return strings.Join(parts, " ")
}

func matchesAny(identity string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(identity, marker) {
			return true
		}
	}
	return false
}
