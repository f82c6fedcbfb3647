package forms

import (
	"testing"

	"jobpilot/internal/browser"
)

// fakeControl is a scripted form element shared by the discovery and fill
// tests. Children resolve from its own selector map.
type fakeControl struct {
	tag          string
	text         string
	attrs        map[string]string
	options      []browser.OptionItem
	parent       browser.Element
	children     map[string][]browser.Element
	interactable bool

	clicks        int
	typed         string
	selectedText  string
	selectedValue string
}

func (e *fakeControl) Text() (string, error)                 { return e.text, nil }
func (e *fakeControl) TagName() (string, error)              { return e.tag, nil }
func (e *fakeControl) Attribute(name string) (string, error) { return e.attrs[name], nil }
func (e *fakeControl) Click() error                          { e.clicks++; return nil }
func (e *fakeControl) Clear() error                          { e.typed = ""; return nil }
func (e *fakeControl) Input(text string) error               { e.typed += text; return nil }
func (e *fakeControl) SelectByText(text string) error        { e.selectedText = text; return nil }
func (e *fakeControl) SelectByValue(value string) error      { e.selectedValue = value; return nil }
func (e *fakeControl) Options() ([]browser.OptionItem, error) {
	return e.options, nil
}
func (e *fakeControl) SetFiles(paths []string) error { return nil }
func (e *fakeControl) Visible() bool                 { return true }
func (e *fakeControl) Interactable() bool            { return e.interactable }

func (e *fakeControl) Find(selector string) (browser.Element, error) {
	els := e.children[selector]
	if len(els) == 0 {
		return nil, browser.ErrElementNotFound
	}
	return els[0], nil
}

func (e *fakeControl) FindAll(selector string) ([]browser.Element, error) {
	return e.children[selector], nil
}

func (e *fakeControl) Parent() (browser.Element, error) {
	if e.parent == nil {
		return nil, browser.ErrElementNotFound
	}
	return e.parent, nil
}

func (e *fakeControl) HTML() (string, error) { return "", nil }
func (e *fakeControl) ScrollIntoView() error { return nil }

func textInput(id, ariaLabel string) *fakeControl {
	return &fakeControl{
		tag:          "input",
		attrs:        map[string]string{"id": id, "type": "text", "aria-label": ariaLabel},
		interactable: true,
	}
}

func radioInput(id, value string) *fakeControl {
	return &fakeControl{
		tag:          "input",
		attrs:        map[string]string{"id": id, "type": "radio", "value": value},
		parent:       &fakeControl{tag: "label", text: value},
		interactable: true,
	}
}

func TestDiscoverDeduplicatesOverlappingStrategies(t *testing.T) {
	yes := radioInput("auth-yes", "Yes")
	no := radioInput("auth-no", "No")
	fieldset := &fakeControl{
		tag: "fieldset",
		children: map[string][]browser.Element{
			"legend":            {&fakeControl{tag: "legend", text: "Are you authorized to work in Germany?"}},
			"input[type=radio]": {yes, no},
		},
	}

	// The same radio carries a label[for], and the email question appears
	// both as a labeled input and as a standalone aria-label input
	radioLabel := &fakeControl{tag: "label", text: "Are you authorized to work in Germany?", attrs: map[string]string{"for": "auth-yes"}}
	emailLabel := &fakeControl{tag: "label", text: "Email address", attrs: map[string]string{"for": "email-1"}}
	email := textInput("email-1", "")
	emailDupe := textInput("email-2", "Email   address")

	root := &fakeControl{
		tag: "div",
		children: map[string][]browser.Element{
			"fieldset":        {fieldset},
			"label":           {radioLabel, emailLabel},
			`[id="auth-yes"]`: {yes},
			`[id="email-1"]`:  {email},
			"input":           {yes, no, email, emailDupe},
		},
	}

	questions := NewDiscoverer().Discover(root)
	if len(questions) != 2 {
		for _, q := range questions {
			t.Logf("question: %q (%s)", q.Text, q.Kind)
		}
		t.Fatalf("Discover returned %d questions, want 2", len(questions))
	}

	if questions[0].Kind != KindRadio {
		t.Errorf("first question kind = %s, want %s", questions[0].Kind, KindRadio)
	}
	if len(questions[0].Group) != 2 {
		t.Errorf("radio group size = %d, want 2", len(questions[0].Group))
	}
	if len(questions[0].Options) != 2 || questions[0].Options[0] != "Yes" || questions[0].Options[1] != "No" {
		t.Errorf("radio options = %v, want [Yes No]", questions[0].Options)
	}

	if questions[1].Text != "Email address" {
		t.Errorf("second question text = %q, want %q", questions[1].Text, "Email address")
	}
	if questions[1].Kind != KindText {
		t.Errorf("second question kind = %s, want %s", questions[1].Kind, KindText)
	}
}

func TestDiscoverSelectsAndTextareas(t *testing.T) {
	sel := &fakeControl{
		tag:   "select",
		attrs: map[string]string{"id": "exp", "aria-label": "Years of experience", "required": "true"},
		options: []browser.OptionItem{
			{Text: "Select an option", Value: ""},
			{Text: "0-2 years", Value: "1"},
			{Text: "3-5 years", Value: "2"},
		},
	}
	ta := &fakeControl{tag: "textarea", attrs: map[string]string{"id": "cover"}}

	root := &fakeControl{
		tag: "div",
		children: map[string][]browser.Element{
			"select":   {sel},
			"textarea": {ta},
		},
	}

	questions := NewDiscoverer().Discover(root)
	if len(questions) != 2 {
		t.Fatalf("Discover returned %d questions, want 2", len(questions))
	}

	// Textareas run before selects in the strategy order
	if questions[0].Kind != KindTextarea {
		t.Errorf("first question kind = %s, want %s", questions[0].Kind, KindTextarea)
	}
	if questions[0].Text != "Additional information" {
		t.Errorf("textarea fallback text = %q", questions[0].Text)
	}

	if questions[1].Kind != KindSelect {
		t.Errorf("second question kind = %s, want %s", questions[1].Kind, KindSelect)
	}
	if !questions[1].Required {
		t.Error("select with required attribute not marked required")
	}
	if len(questions[1].Options) != 3 {
		t.Errorf("select options = %v, want 3 entries", questions[1].Options)
	}
}

func TestDiscoverSkipsHiddenAndSubmitInputs(t *testing.T) {
	hidden := &fakeControl{tag: "input", attrs: map[string]string{"id": "h1", "type": "hidden", "aria-label": "Tracking"}}
	submit := &fakeControl{tag: "input", attrs: map[string]string{"id": "s1", "type": "submit", "aria-label": "Apply"}}

	root := &fakeControl{
		tag: "div",
		children: map[string][]browser.Element{
			"input": {hidden, submit},
		},
	}

	if questions := NewDiscoverer().Discover(root); len(questions) != 0 {
		t.Errorf("Discover returned %d questions, want 0", len(questions))
	}
}
