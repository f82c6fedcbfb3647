package linkedin

import "strings"

// applicationSucceeded checks the page for the confirmation LinkedIn shows
// after the final submit: a confirmation modal, an "Application sent" toast
// or headline, or the post-submit Done button.
func (p *LinkedIn) applicationSucceeded() bool {
	for _, selector := range successMessageSelectors {
		els, err := p.driver.FindAll(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			if !el.Visible() {
				continue
			}
			text, err := el.Text()
			if err != nil {
				// Confirmation containers count even without readable text
				return true
			}
			if text == "" || containsSuccessPhrase(text) {
				return true
			}
		}
	}

	for _, tag := range []string{"h2", "h3"} {
		els, err := p.driver.FindAll(tag)
		if err != nil {
			continue
		}
		for _, el := range els {
			if !el.Visible() {
				continue
			}
			if text, err := el.Text(); err == nil && containsSuccessPhrase(text) {
				return true
			}
		}
	}

	return p.locator.Exists(doneSelectors)
}

// acknowledgeSuccess clicks the Done button so the confirmation modal does
// not cover the next listing. Best effort.
func (p *LinkedIn) acknowledgeSuccess() {
	button, err := p.locator.ButtonByText(doneSelectors, doneTexts)
	if err != nil {
		return
	}
	if err := button.Click(); err == nil {
		p.logger.Debug("Closed application confirmation")
	}
}

func containsSuccessPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range successPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
