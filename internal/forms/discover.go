package forms

import (
	"strings"

	"jobpilot/internal/browser"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/pkg/utils"
)

// Discoverer walks an application form container and extracts the questions
// it asks. Five strategies run in order: fieldset groups, label-for pairs,
// standalone inputs, textareas and selects. Questions are deduplicated on
// normalized text so overlapping strategies stay harmless.
type Discoverer struct {
	logger types.Logger
}

// NewDiscoverer creates a form discoverer
func NewDiscoverer() *Discoverer {
	return &Discoverer{
		logger: logging.GetGlobalLogger(),
	}
}

// Discover extracts every answerable question under the given form root
func (d *Discoverer) Discover(root browser.Element) []*Question {
	var questions []*Question
	seenText := make(map[string]bool)
	claimed := make(map[string]bool)

	add := func(q *Question) {
		text := utils.NormalizeSpace(q.Text)
		key := strings.ToLower(text)
		if key == "" || seenText[key] {
			return
		}
		seenText[key] = true
		q.Text = text
		q.Category = Classify(text, q.Kind)
		questions = append(questions, q)
	}

	d.discoverFieldsets(root, add, claimed)
	d.discoverLabeledInputs(root, add, claimed)
	d.discoverStandaloneInputs(root, add, claimed)
	d.discoverTextareas(root, add, claimed)
	d.discoverSelects(root, add, claimed)

	d.logger.Debug("Form discovery finished", map[string]interface{}{
		"questions": len(questions),
	})
	return questions
}

// discoverFieldsets handles grouped controls, typically radio groups with a
// legend stating the question
func (d *Discoverer) discoverFieldsets(root browser.Element, add func(*Question), claimed map[string]bool) {
	fieldsets, err := root.FindAll("fieldset")
	if err != nil {
		return
	}

	for _, fs := range fieldsets {
		text := ""
		if legend, err := fs.Find("legend"); err == nil {
			text, _ = legend.Text()
		}
		if strings.TrimSpace(text) == "" {
			if label, err := fs.Find("label, span"); err == nil {
				text, _ = label.Text()
			}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		radios, _ := fs.FindAll("input[type=radio]")
		if len(radios) > 0 {
			q := &Question{
				Text:     text,
				Kind:     KindRadio,
				Element:  radios[0],
				Group:    radios,
				Options:  radioLabels(radios),
				Required: isRequired(radios[0], text),
			}
			for _, r := range radios {
				claim(claimed, r)
			}
			add(q)
			continue
		}

		if checkbox, err := fs.Find("input[type=checkbox]"); err == nil {
			claim(claimed, checkbox)
			add(&Question{
				Text:     text,
				Kind:     KindCheckbox,
				Element:  checkbox,
				Required: isRequired(checkbox, text),
			})
		}
	}
}

// discoverLabeledInputs pairs label[for] elements with their controls
func (d *Discoverer) discoverLabeledInputs(root browser.Element, add func(*Question), claimed map[string]bool) {
	labels, err := root.FindAll("label")
	if err != nil {
		return
	}

	for _, label := range labels {
		forID, _ := label.Attribute("for")
		if forID == "" {
			continue
		}
		text, _ := label.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		input, err := root.Find(`[id="` + forID + `"]`)
		if err != nil || isClaimed(claimed, input) {
			continue
		}

		kind, ok := inputKind(input)
		if !ok {
			continue
		}
		claim(claimed, input)

		q := &Question{
			Text:     text,
			Kind:     kind,
			Element:  input,
			Required: isRequired(input, text),
		}
		if kind == KindSelect {
			q.Options = selectLabels(input)
		}
		add(q)
	}
}

// discoverStandaloneInputs picks up inputs labelled only by placeholder,
// aria-label or surrounding text
func (d *Discoverer) discoverStandaloneInputs(root browser.Element, add func(*Question), claimed map[string]bool) {
	inputs, err := root.FindAll("input")
	if err != nil {
		return
	}

	for _, input := range inputs {
		if isClaimed(claimed, input) {
			continue
		}
		kind, ok := inputKind(input)
		if !ok || kind == KindSelect {
			continue
		}

		text := describeInput(input)
		if text == "" {
			continue
		}
		claim(claimed, input)

		add(&Question{
			Text:     text,
			Kind:     kind,
			Element:  input,
			Required: isRequired(input, text),
		})
	}
}

func (d *Discoverer) discoverTextareas(root browser.Element, add func(*Question), claimed map[string]bool) {
	textareas, err := root.FindAll("textarea")
	if err != nil {
		return
	}

	for _, ta := range textareas {
		if isClaimed(claimed, ta) {
			continue
		}
		text := describeInput(ta)
		if text == "" {
			text = "Additional information"
		}
		claim(claimed, ta)

		add(&Question{
			Text:     text,
			Kind:     KindTextarea,
			Element:  ta,
			Required: isRequired(ta, text),
		})
	}
}

func (d *Discoverer) discoverSelects(root browser.Element, add func(*Question), claimed map[string]bool) {
	selects, err := root.FindAll("select")
	if err != nil {
		return
	}

	for _, sel := range selects {
		if isClaimed(claimed, sel) {
			continue
		}
		text := describeInput(sel)
		if text == "" {
			continue
		}
		claim(claimed, sel)

		add(&Question{
			Text:     text,
			Kind:     KindSelect,
			Element:  sel,
			Options:  selectLabels(sel),
			Required: isRequired(sel, text),
		})
	}
}

// inputKind maps an element to the InputKind handled by the filler.
// Hidden and submit controls report ok=false.
func inputKind(el browser.Element) (InputKind, bool) {
	tag, err := el.TagName()
	if err != nil {
		return "", false
	}
	switch tag {
	case "textarea":
		return KindTextarea, true
	case "select":
		return KindSelect, true
	case "input":
	default:
		return "", false
	}

	inputType, _ := el.Attribute("type")
	switch strings.ToLower(inputType) {
	case "", "text", "email", "tel", "url":
		return KindText, true
	case "number":
		return KindNumber, true
	case "radio":
		return KindRadio, true
	case "checkbox":
		return KindCheckbox, true
	case "file":
		return KindFile, true
	default:
		return "", false
	}
}

// describeInput derives a question text for an unlabelled control
func describeInput(el browser.Element) string {
	if v, _ := el.Attribute("aria-label"); strings.TrimSpace(v) != "" {
		return v
	}
	if v, _ := el.Attribute("placeholder"); strings.TrimSpace(v) != "" {
		return v
	}
	if parent, err := el.Parent(); err == nil {
		if text, err := parent.Text(); err == nil {
			text = utils.NormalizeSpace(text)
			if text != "" && len(text) < 200 {
				return text
			}
		}
	}
	return ""
}

// radioLabels collects the visible label of each radio in a group
func radioLabels(radios []browser.Element) []string {
	labels := make([]string, 0, len(radios))
	for _, r := range radios {
		label := ""
		if parent, err := r.Parent(); err == nil {
			label, _ = parent.Text()
		}
		if strings.TrimSpace(label) == "" {
			label, _ = r.Attribute("value")
		}
		labels = append(labels, utils.NormalizeSpace(label))
	}
	return labels
}

// selectLabels collects the visible option texts of a select
func selectLabels(sel browser.Element) []string {
	options, err := sel.Options()
	if err != nil {
		return nil
	}
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		labels = append(labels, opt.Text)
	}
	return labels
}

func isRequired(el browser.Element, text string) bool {
	if v, _ := el.Attribute("required"); v != "" {
		return true
	}
	if v, _ := el.Attribute("aria-required"); v == "true" {
		return true
	}
	return strings.Contains(text, "*")
}

func claim(claimed map[string]bool, el browser.Element) {
	if key := elementKey(el); key != "" {
		claimed[key] = true
	}
}

func isClaimed(claimed map[string]bool, el browser.Element) bool {
	key := elementKey(el)
	return key != "" && claimed[key]
}

func elementKey(el browser.Element) string {
	if id, _ := el.Attribute("id"); id != "" {
		return "id:" + id
	}
	if name, _ := el.Attribute("name"); name != "" {
		return "name:" + name
	}
	return ""
}
