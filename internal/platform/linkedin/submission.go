package linkedin

import (
	"context"
	"fmt"
	"strings"

	"jobpilot/internal/browser"
	"jobpilot/internal/platform"
	"jobpilot/pkg/models"
)

// DriveSubmission works through the Easy Apply modal one pane at a time.
// Each step answers whatever the pane asks and then advances with the
// highest-priority control available: submit, then review, then next.
// Running out of steps or hitting a pane it cannot move past abandons the
// application and dismisses the modal so the session can continue.
func (p *LinkedIn) DriveSubmission(ctx context.Context, user *models.UserContext, job *models.JobListing) (*platform.SubmissionResult, error) {
	maxSteps := p.config.Automation.MaxSubmissionSteps
	if maxSteps <= 0 {
		maxSteps = 10
	}

	for step := 1; step <= maxSteps; step++ {
		if err := p.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		if p.applicationSucceeded() {
			p.acknowledgeSuccess()
			return &platform.SubmissionResult{
				Status:    models.ApplicationSucceeded,
				StepsUsed: step - 1,
			}, nil
		}

		modal, err := p.locator.First(applyModalSelectors)
		if err != nil {
			// The modal can close on its own right after the final submit
			if p.applicationSucceeded() {
				p.acknowledgeSuccess()
				return &platform.SubmissionResult{
					Status:    models.ApplicationSucceeded,
					StepsUsed: step - 1,
				}, nil
			}
			return &platform.SubmissionResult{
				Status:    models.ApplicationFailed,
				StepsUsed: step - 1,
				Reason:    "application modal closed unexpectedly",
			}, nil
		}

		filled := p.resolver.ResolveAll(ctx, modal, user, job)
		p.logger.Debug("Resolved application pane", map[string]interface{}{
			"job_id": job.PlatformJobID,
			"step":   step,
			"filled": filled,
		})

		advanced, reason := p.advancePane(ctx, modal, step)
		if !advanced {
			if p.applicationSucceeded() {
				p.acknowledgeSuccess()
				return &platform.SubmissionResult{
					Status:    models.ApplicationSucceeded,
					StepsUsed: step,
				}, nil
			}
			p.abandonApplication(ctx)
			return &platform.SubmissionResult{
				Status:    models.ApplicationFailed,
				StepsUsed: step,
				Reason:    reason,
			}, nil
		}
	}

	p.abandonApplication(ctx)
	return &platform.SubmissionResult{
		Status:    models.ApplicationFailed,
		StepsUsed: maxSteps,
		Reason:    fmt.Sprintf("application not finished within %d steps", maxSteps),
	}, nil
}

// advancePane clicks the best available progression control inside the
// modal. Returns false with a reason when the pane cannot be moved past.
func (p *LinkedIn) advancePane(ctx context.Context, modal browser.Element, step int) (bool, string) {
	if button := p.modalButton(modal, submitSelectors, submitTexts); button != nil {
		if err := button.Click(); err == nil {
			p.logger.Info("Clicked submit application", map[string]interface{}{"step": step})
			_ = p.pacer.Wait(ctx)
			return true, ""
		}
	}

	if button := p.modalButton(modal, reviewSelectors, reviewTexts); button != nil {
		if err := button.Click(); err == nil {
			p.logger.Debug("Clicked review application", map[string]interface{}{"step": step})
			return true, ""
		}
	}

	if button := p.modalButton(modal, nextSelectors, nextTexts); button != nil {
		if err := button.Click(); err == nil {
			_ = p.pacer.Wait(ctx)
			if reason, stuck := p.requiredFieldsBlocking(modal); stuck {
				return false, reason
			}
			return true, ""
		}
	}

	if reason, stuck := p.requiredFieldsBlocking(modal); stuck {
		return false, reason
	}
	return false, "no submit, review or next control found"
}

// modalButton finds an enabled progression button scoped to the modal.
// Disabled buttons stay visible in the pane, so the attribute check matters.
func (p *LinkedIn) modalButton(modal browser.Element, selectors []string, texts []string) browser.Element {
	for _, selector := range selectors {
		els, err := modal.FindAll(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			if usableButton(el) {
				return el
			}
		}
	}

	buttons, err := modal.FindAll("button")
	if err != nil {
		return nil
	}
	for _, el := range buttons {
		if !usableButton(el) {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(text))
		for _, want := range texts {
			if lower != "" && strings.Contains(lower, want) {
				return el
			}
		}
	}
	return nil
}

func usableButton(el browser.Element) bool {
	if !el.Visible() || !el.Interactable() {
		return false
	}
	if disabled, _ := el.Attribute("disabled"); disabled != "" {
		return false
	}
	if ariaDisabled, _ := el.Attribute("aria-disabled"); ariaDisabled == "true" {
		return false
	}
	return true
}

// requiredFieldsBlocking reports whether the pane shows validation errors
// that stop it from advancing
func (p *LinkedIn) requiredFieldsBlocking(modal browser.Element) (string, bool) {
	for _, selector := range requiredErrorSelectors {
		els, err := modal.FindAll(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			if !el.Visible() {
				continue
			}
			text, err := el.Text()
			if err != nil || strings.TrimSpace(text) == "" {
				continue
			}
			return fmt.Sprintf("required field unanswered: %s", strings.TrimSpace(text)), true
		}
	}
	return "", false
}

// abandonApplication dismisses the modal, confirming the discard prompt
// LinkedIn raises for partially filled applications
func (p *LinkedIn) abandonApplication(ctx context.Context) {
	_ = p.pacer.Wait(ctx)

	if button, err := p.locator.ButtonByText(dismissSelectors, nil); err == nil {
		_ = button.Click()
	} else if err := p.driver.PressEscape(); err != nil {
		p.logger.Debug("Escape dismissal failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	_ = p.pacer.Wait(ctx)
	if discard, err := p.locator.ButtonByText(nil, discardTexts); err == nil {
		_ = discard.Click()
		p.logger.Debug("Discarded partial application")
	}
}
