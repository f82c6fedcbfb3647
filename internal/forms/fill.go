package forms

import (
	"fmt"
	"strings"

	"jobpilot/internal/browser"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
)

var yesWords = []string{"yes", "true", "agree", "accept", "confirm"}

// Filler writes resolved answers into their form controls
type Filler struct {
	logger types.Logger
}

// NewFiller creates a filler
func NewFiller() *Filler {
	return &Filler{
		logger: logging.GetGlobalLogger(),
	}
}

// Fill writes the answer into the question's control using the strategy for
// its input kind
func (f *Filler) Fill(q *Question, answer string) error {
	switch q.Kind {
	case KindText, KindNumber, KindTextarea:
		return f.fillText(q.Element, answer)
	case KindSelect:
		return f.fillSelect(q, answer)
	case KindRadio:
		return f.fillRadio(q, answer)
	case KindCheckbox:
		return f.fillCheckbox(q.Element, answer)
	case KindFile:
		return q.Element.SetFiles([]string{answer})
	default:
		return fmt.Errorf("no fill strategy for input kind %q", q.Kind)
	}
}

func (f *Filler) fillText(el browser.Element, answer string) error {
	if err := el.Clear(); err != nil {
		return fmt.Errorf("failed to clear field: %w", err)
	}
	if err := el.Input(answer); err != nil {
		return fmt.Errorf("failed to type answer: %w", err)
	}
	return nil
}

// fillSelect picks an option by visible text, then by experience range for
// years questions, then by value, then the first real option
func (f *Filler) fillSelect(q *Question, answer string) error {
	options, err := q.Element.Options()
	if err != nil || len(options) == 0 {
		return fmt.Errorf("select has no readable options")
	}

	answerLower := strings.ToLower(strings.TrimSpace(answer))

	for _, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt.Text)) == answerLower {
			return q.Element.SelectByText(opt.Text)
		}
	}
	for _, opt := range options {
		optLower := strings.ToLower(opt.Text)
		if answerLower != "" && (strings.Contains(optLower, answerLower) || strings.Contains(answerLower, optLower)) && !isPlaceholderOption(opt) {
			return q.Element.SelectByText(opt.Text)
		}
	}

	if q.Category == CategoryYearsExperience {
		if years, ok := RequiredYears(answer + " years"); ok {
			for _, opt := range options {
				if MatchesExperienceRange(opt.Text, years) {
					return q.Element.SelectByText(opt.Text)
				}
			}
		}
	}

	for _, opt := range options {
		if strings.EqualFold(opt.Value, answer) {
			return q.Element.SelectByValue(opt.Value)
		}
	}

	for _, opt := range options {
		if !isPlaceholderOption(opt) {
			f.logger.Debug("No select option matched answer, choosing first real option", map[string]interface{}{
				"question": q.Text,
				"answer":   answer,
				"chosen":   opt.Text,
			})
			return q.Element.SelectByText(opt.Text)
		}
	}
	return fmt.Errorf("select contains only placeholder options")
}

// fillRadio clicks the group member whose label matches the answer, falling
// back to a value match and then the first option
func (f *Filler) fillRadio(q *Question, answer string) error {
	if len(q.Group) == 0 {
		return fmt.Errorf("radio question has no group members")
	}

	answerLower := strings.ToLower(strings.TrimSpace(answer))

	for i, label := range q.Options {
		if i >= len(q.Group) {
			break
		}
		labelLower := strings.ToLower(label)
		if answerLower != "" && (strings.Contains(labelLower, answerLower) || strings.Contains(answerLower, labelLower)) {
			return f.clickRadio(q.Group[i])
		}
	}

	for _, radio := range q.Group {
		value, _ := radio.Attribute("value")
		if strings.EqualFold(strings.TrimSpace(value), answerLower) {
			return f.clickRadio(radio)
		}
	}

	f.logger.Debug("No radio option matched answer, choosing first", map[string]interface{}{
		"question": q.Text,
		"answer":   answer,
	})
	return f.clickRadio(q.Group[0])
}

func (f *Filler) clickRadio(radio browser.Element) error {
	// Many platforms hide the input and style its label; click the label
	// when the input itself is not interactable
	if radio.Interactable() {
		return radio.Click()
	}
	if parent, err := radio.Parent(); err == nil {
		return parent.Click()
	}
	return radio.Click()
}

func (f *Filler) fillCheckbox(el browser.Element, answer string) error {
	answerLower := strings.ToLower(strings.TrimSpace(answer))
	wantChecked := false
	for _, word := range yesWords {
		if strings.Contains(answerLower, word) {
			wantChecked = true
			break
		}
	}
	if !wantChecked {
		return nil
	}

	if checked, _ := el.Attribute("checked"); checked != "" {
		return nil
	}
	if el.Interactable() {
		return el.Click()
	}
	if parent, err := el.Parent(); err == nil {
		return parent.Click()
	}
	return el.Click()
}

func isPlaceholderOption(opt browser.OptionItem) bool {
	textLower := strings.ToLower(strings.TrimSpace(opt.Text))
	if opt.Value == "" || textLower == "" {
		return true
	}
	for _, marker := range []string{"select", "choose", "please", "--"} {
		if strings.HasPrefix(textLower, marker) {
			return true
		}
	}
	return false
}
