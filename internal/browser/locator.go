package browser

import (
	"context"
	"strings"
	"time"
)

// Locator resolves page elements by trying an ordered list of candidate
// selectors. The first candidate yielding a present, visible and
// interactable element wins; an exhausted list reports ErrElementNotFound.
type Locator struct {
	driver       Driver
	pollInterval time.Duration
}

// NewLocator creates a locator over the given driver
func NewLocator(driver Driver) *Locator {
	return &Locator{
		driver:       driver,
		pollInterval: 250 * time.Millisecond,
	}
}

// First tries each selector once, in order, and returns the first usable element
func (l *Locator) First(selectors []string) (Element, error) {
	for _, selector := range selectors {
		el, err := l.driver.Find(selector)
		if err != nil {
			continue
		}
		if usable(el) {
			return el, nil
		}
	}
	return nil, ErrElementNotFound
}

// FirstWait retries the selector list until one yields a usable element or
// the context deadline passes
func (l *Locator) FirstWait(ctx context.Context, selectors []string, timeout time.Duration) (Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		if el, err := l.First(selectors); err == nil {
			return el, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrElementNotFound
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

// AllUsable returns every usable element matched by the selector
func (l *Locator) AllUsable(selector string) []Element {
	els, err := l.driver.FindAll(selector)
	if err != nil {
		return nil
	}
	usables := make([]Element, 0, len(els))
	for _, el := range els {
		if usable(el) {
			usables = append(usables, el)
		}
	}
	return usables
}

// ButtonByText scans clickable elements for one whose visible text contains
// any of the given fragments, case-insensitively. Selector candidates are
// tried in order so structural matches still win over text scans.
func (l *Locator) ButtonByText(selectors []string, texts []string) (Element, error) {
	if el, err := l.First(selectors); err == nil {
		return el, nil
	}

	for _, scanSelector := range []string{"button", "a[role=button]", "input[type=submit]"} {
		els, err := l.driver.FindAll(scanSelector)
		if err != nil {
			continue
		}
		for _, el := range els {
			if !usable(el) {
				continue
			}
			text, err := el.Text()
			if err != nil {
				continue
			}
			lower := strings.ToLower(strings.TrimSpace(text))
			for _, want := range texts {
				if lower != "" && strings.Contains(lower, strings.ToLower(want)) {
					return el, nil
				}
			}
		}
	}
	return nil, ErrElementNotFound
}

// Exists reports whether any selector currently matches a visible element
func (l *Locator) Exists(selectors []string) bool {
	_, err := l.First(selectors)
	return err == nil
}

func usable(el Element) bool {
	return el.Visible() && el.Interactable()
}
