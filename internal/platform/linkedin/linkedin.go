package linkedin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobpilot/internal/browser"
	"jobpilot/internal/config"
	"jobpilot/internal/forms"
	"jobpilot/internal/llm"
	"jobpilot/internal/llm/processors"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
	"jobpilot/internal/platform"
	"jobpilot/pkg/models"
	"jobpilot/pkg/utils"
)

// LinkedIn drives the LinkedIn quick apply flow through a real browser.
// One instance owns one browser and one logged-in session.
type LinkedIn struct {
	config   *config.Config
	driver   browser.Driver
	locator  *browser.Locator
	pacer    *browser.Pacer
	resolver *forms.Resolver
	cleaner  *processors.HTMLCleaner
	logger   types.Logger

	searchDone    bool
	filterApplied bool
	lastListings  []*models.JobListing
}

// New launches a browser and returns a LinkedIn platform ready for Login
func New(cfg *config.Config, generator llm.Generator) (*LinkedIn, error) {
	driver, err := browser.NewRodDriver(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser for linkedin: %w", err)
	}

	return &LinkedIn{
		config:   cfg,
		driver:   driver,
		locator:  browser.NewLocator(driver),
		pacer:    browser.NewPacer(cfg.Automation.ActionsPerMinute, cfg.Automation.ActionDelayMin, cfg.Automation.ActionDelayMax),
		resolver: forms.NewResolver(generator),
		cleaner:  processors.NewHTMLCleaner(),
		logger:   logging.GetGlobalLogger(),
	}, nil
}

// Name returns the platform identifier
func (p *LinkedIn) Name() string {
	return "linkedin"
}

// Login signs in with the given credentials. Attempted once; any failure,
// including a security checkpoint, is terminal for the session.
func (p *LinkedIn) Login(ctx context.Context, creds models.PlatformCredentials) error {
	if err := p.driver.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrLoginFailed, err)
	}

	username, err := p.locator.FirstWait(ctx, usernameSelectors, p.config.Automation.StepTimeout)
	if err != nil {
		return fmt.Errorf("%w: username field not found", platform.ErrLoginFailed)
	}
	password, err := p.locator.First(passwordSelectors)
	if err != nil {
		return fmt.Errorf("%w: password field not found", platform.ErrLoginFailed)
	}

	if err := p.fillCredential(ctx, username, creds.Username); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrLoginFailed, err)
	}
	if err := p.fillCredential(ctx, password, creds.Password); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrLoginFailed, err)
	}

	submit, err := p.locator.ButtonByText(loginSubmitSelectors, loginButtonTexts)
	if err != nil {
		return fmt.Errorf("%w: sign in button not found", platform.ErrLoginFailed)
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrLoginFailed, err)
	}

	if err := p.waitForLoggedIn(ctx); err != nil {
		return err
	}

	p.dismissSavePasswordPopup()

	p.logger.Info("Logged into LinkedIn", map[string]interface{}{
		"username": creds.Username,
	})
	return nil
}

// waitForLoggedIn polls the URL until it lands on an authenticated page
func (p *LinkedIn) waitForLoggedIn(ctx context.Context) error {
	deadline := time.Now().Add(p.config.Automation.StepTimeout)
	for {
		current, err := p.driver.CurrentURL()
		if err == nil {
			if utils.IsLinkedInLoggedInURL(current) {
				return nil
			}
			if strings.Contains(current, "checkpoint") || strings.Contains(current, "challenge") {
				return fmt.Errorf("%w: security checkpoint encountered", platform.ErrLoginFailed)
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: still on %s after sign in", platform.ErrLoginFailed, "login page")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (p *LinkedIn) fillCredential(ctx context.Context, el browser.Element, value string) error {
	if err := p.pacer.Wait(ctx); err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return err
	}
	return el.Input(value)
}

// dismissSavePasswordPopup closes the browser save-password prompt if one
// appeared after sign in. Best effort.
func (p *LinkedIn) dismissSavePasswordPopup() {
	button, err := p.locator.ButtonByText(nil, notNowTexts)
	if err != nil {
		return
	}
	if err := button.Click(); err == nil {
		p.logger.Debug("Dismissed save password popup")
	}
}

// SearchJobs runs one search for the criteria and extracts the surfaced
// cards. A second call in the same session returns the cached listings
// instead of redoing the search.
func (p *LinkedIn) SearchJobs(ctx context.Context, criteria *models.SearchCriteria) ([]*models.JobListing, error) {
	if p.searchDone {
		p.logger.Debug("Search already completed this session, reusing results")
		return p.lastListings, nil
	}

	if current, err := p.driver.CurrentURL(); err != nil || !utils.IsLinkedInSearchURL(current) {
		if err := p.driver.Navigate(ctx, jobsURL); err != nil {
			return nil, fmt.Errorf("failed to open jobs page: %w", err)
		}
	}

	if err := p.enterSearchQuery(ctx, criteria); err != nil {
		return nil, err
	}
	if err := p.applyEasyApplyFilter(ctx); err != nil {
		p.logger.Warn("Could not apply Easy Apply filter, continuing unfiltered", map[string]interface{}{
			"error": err.Error(),
		})
	}
	p.loadMoreResults(ctx)

	listings := p.collectListings()
	if limit := p.config.Automation.MaxJobsPerSearch; limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}

	p.searchDone = true
	p.lastListings = listings

	p.logger.Info("LinkedIn search completed", map[string]interface{}{
		"keywords": criteria.SearchKeywords(),
		"location": criteria.SearchLocation(),
		"listings": len(listings),
	})
	return listings, nil
}

// enterSearchQuery types the combined query into the keyword box and
// triggers the search, preferring the Enter key over the submit button
func (p *LinkedIn) enterSearchQuery(ctx context.Context, criteria *models.SearchCriteria) error {
	box, err := p.locator.FirstWait(ctx, searchBoxSelectors, p.config.Automation.StepTimeout)
	if err != nil {
		return fmt.Errorf("keyword search box not found: %w", err)
	}

	query := criteria.SearchKeywords()
	if location := criteria.SearchLocation(); location != "" {
		query = fmt.Sprintf("%s in %s", query, location)
	}

	if err := p.pacer.Wait(ctx); err != nil {
		return err
	}
	if err := box.Clear(); err != nil {
		return fmt.Errorf("failed to clear search box: %w", err)
	}
	if err := box.Input(query); err != nil {
		return fmt.Errorf("failed to type search query: %w", err)
	}

	if err := box.Click(); err == nil {
		if err := p.driver.PressEnter(); err == nil {
			if p.waitForSearchResults(ctx) == nil {
				return nil
			}
		}
	}

	button, err := p.locator.ButtonByText(searchButtonSelectors, searchButtonTexts)
	if err != nil {
		return fmt.Errorf("could not trigger search: %w", err)
	}
	if err := button.Click(); err != nil {
		return fmt.Errorf("could not trigger search: %w", err)
	}
	return p.waitForSearchResults(ctx)
}

func (p *LinkedIn) waitForSearchResults(ctx context.Context) error {
	deadline := time.Now().Add(p.config.Automation.StepTimeout)
	for {
		if current, err := p.driver.CurrentURL(); err == nil && utils.IsLinkedInSearchURL(current) {
			if p.locator.Exists(jobCardSelectors) {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("search results did not load")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// applyEasyApplyFilter toggles the Easy Apply facet on the results page.
// Applied once per session; the facet persists across result pages.
func (p *LinkedIn) applyEasyApplyFilter(ctx context.Context) error {
	if p.filterApplied {
		return nil
	}
	if err := p.pacer.Wait(ctx); err != nil {
		return err
	}

	filter, err := p.locator.ButtonByText(easyApplyFilterSelectors, easyApplyFilterText)
	if err != nil {
		return fmt.Errorf("easy apply filter control not found: %w", err)
	}
	if err := filter.Click(); err != nil {
		return fmt.Errorf("failed to toggle easy apply filter: %w", err)
	}

	p.filterApplied = true
	p.logger.Debug("Easy Apply filter applied")
	return nil
}

// loadMoreResults scrolls the results list and clicks any load-more button
// to pull additional cards into the page
func (p *LinkedIn) loadMoreResults(ctx context.Context) {
	rounds := p.config.Automation.ScrollRounds
	if rounds <= 0 {
		rounds = 3
	}
	for i := 0; i < rounds; i++ {
		if err := p.pacer.Wait(ctx); err != nil {
			return
		}
		before := len(p.findJobCards())

		if err := p.driver.Scroll(2000); err != nil {
			return
		}
		if button, err := p.locator.ButtonByText(moreJobsSelectors, moreJobsTexts); err == nil {
			_ = button.Click()
		}

		if err := p.pacer.Wait(ctx); err != nil {
			return
		}
		if len(p.findJobCards()) <= before {
			return
		}
	}
}

// findJobCards returns the result list cards using the first selector
// generation that matches anything
func (p *LinkedIn) findJobCards() []browser.Element {
	for _, selector := range jobCardSelectors {
		els, err := p.driver.FindAll(selector)
		if err != nil || len(els) == 0 {
			continue
		}
		return els
	}
	return nil
}

// collectListings extracts a listing from every card that yields a title
// and a job ID. Cards missing either are skipped.
func (p *LinkedIn) collectListings() []*models.JobListing {
	cards := p.findJobCards()
	listings := make([]*models.JobListing, 0, len(cards))
	seen := make(map[string]bool)

	for _, card := range cards {
		listing := p.extractCard(card)
		if listing == nil || seen[listing.PlatformJobID] {
			continue
		}
		seen[listing.PlatformJobID] = true
		listings = append(listings, listing)
	}
	return listings
}

// extractCard pulls title, company, location and job ID out of one result card
func (p *LinkedIn) extractCard(card browser.Element) *models.JobListing {
	title := firstText(card, cardTitleSelectors)
	if title == "" {
		return nil
	}

	jobID, jobURL := p.cardJobID(card)
	if jobID == "" {
		return nil
	}

	listing := &models.JobListing{
		PlatformJobID: jobID,
		Platform:      "linkedin",
		Title:         title,
		Company:       firstText(card, cardCompanySelectors),
		Location:      p.cardLocation(card),
		URL:           jobURL,
		EasyApply:     true,
	}
	listing.Remote = strings.Contains(strings.ToLower(listing.Location), "remote")
	return listing
}

// cardJobID finds the listing's numeric ID from its link or data attributes
func (p *LinkedIn) cardJobID(card browser.Element) (string, string) {
	for _, selector := range cardLinkSelectors {
		link, err := card.Find(selector)
		if err != nil {
			continue
		}
		href, err := link.Attribute("href")
		if err != nil || href == "" {
			continue
		}
		if !strings.HasPrefix(href, "http") {
			href = baseURL + href
		}
		if id, err := utils.ExtractLinkedInJobID(href); err == nil {
			return id, utils.PublicLinkedInJobURL(id)
		}
	}

	for _, attr := range []string{"data-job-id", "data-occludable-job-id", "data-entity-urn"} {
		value, err := card.Attribute(attr)
		if err != nil || value == "" {
			continue
		}
		if idx := strings.LastIndex(value, ":"); idx >= 0 {
			value = value[idx+1:]
		}
		if value != "" {
			return value, utils.PublicLinkedInJobURL(value)
		}
	}
	return "", ""
}

// cardLocation reads the caption slot, skipping posted-time and applicant
// counts that share it
func (p *LinkedIn) cardLocation(card browser.Element) string {
	for _, selector := range cardLocationSelectors {
		els, err := card.FindAll(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			text, err := el.Text()
			if err != nil {
				continue
			}
			text = utils.NormalizeSpace(text)
			if text != "" && !containsTimeWord(text) {
				return text
			}
		}
	}
	return ""
}

func containsTimeWord(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range timeWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// OpenListing brings the listing's detail panel up and enriches the listing
// with the full description. Prefers clicking the card in the results list
// so the session keeps its search context; falls back to direct navigation.
func (p *LinkedIn) OpenListing(ctx context.Context, job *models.JobListing) error {
	if err := p.pacer.Wait(ctx); err != nil {
		return err
	}

	if !p.clickCardFor(job) {
		url := job.URL
		if url == "" {
			url = utils.PublicLinkedInJobURL(job.PlatformJobID)
		}
		if err := p.driver.Navigate(ctx, url); err != nil {
			return fmt.Errorf("failed to open listing %s: %w", job.PlatformJobID, err)
		}
	}

	if err := p.driver.WaitForSelector(ctx, "body", p.config.Automation.StepTimeout); err != nil {
		return fmt.Errorf("listing %s did not load: %w", job.PlatformJobID, err)
	}
	if err := p.pacer.Wait(ctx); err != nil {
		return err
	}

	p.enrichFromPanel(job)
	if job.Description == "" {
		return fmt.Errorf("could not read description for listing %s", job.PlatformJobID)
	}
	return nil
}

// clickCardFor clicks the result card whose link carries the job's ID
func (p *LinkedIn) clickCardFor(job *models.JobListing) bool {
	for _, card := range p.findJobCards() {
		id, _ := p.cardJobID(card)
		if id != job.PlatformJobID {
			continue
		}
		for _, selector := range cardLinkSelectors {
			link, err := card.Find(selector)
			if err != nil {
				continue
			}
			if err := link.Click(); err == nil {
				return true
			}
		}
		if err := card.Click(); err == nil {
			return true
		}
	}
	return false
}

// enrichFromPanel fills in whatever the card extraction missed from the
// opened detail panel
func (p *LinkedIn) enrichFromPanel(job *models.JobListing) {
	if title := p.panelText(panelTitleSelectors); title != "" {
		job.Title = title
	}
	if job.Company == "" {
		job.Company = p.panelText(panelCompanySelectors)
	}
	if location := p.panelLocation(); location != "" {
		job.Location = location
		job.Remote = job.Remote || strings.Contains(strings.ToLower(location), "remote")
	}
	if job.URL == "" {
		if current, err := p.driver.CurrentURL(); err == nil {
			job.URL = current
		}
	}

	html, err := p.driver.PageHTML()
	if err != nil {
		p.logger.Warn("Failed to read listing page HTML", map[string]interface{}{
			"job_id": job.PlatformJobID,
			"error":  err.Error(),
		})
		return
	}
	description, err := p.cleaner.ExtractJobContent(html)
	if err != nil {
		p.logger.Warn("Failed to extract job description", map[string]interface{}{
			"job_id": job.PlatformJobID,
			"error":  err.Error(),
		})
		return
	}
	job.Description = description
}

func (p *LinkedIn) panelText(selectors []string) string {
	for _, selector := range selectors {
		el, err := p.driver.Find(selector)
		if err != nil {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if text = utils.NormalizeSpace(text); text != "" {
			return text
		}
	}
	return ""
}

func (p *LinkedIn) panelLocation() string {
	for _, selector := range panelLocationSelectors {
		els, err := p.driver.FindAll(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			text, err := el.Text()
			if err != nil {
				continue
			}
			text = utils.NormalizeSpace(text)
			if text != "" && !containsTimeWord(text) {
				return text
			}
		}
	}
	return ""
}

// TriggerApply clicks the Easy Apply button on the open listing and waits
// for the application modal. Listings without an in-platform flow report
// ErrNoQuickApply or ErrExternalApply so the engine can record a skip.
func (p *LinkedIn) TriggerApply(ctx context.Context) error {
	if err := p.pacer.Wait(ctx); err != nil {
		return err
	}

	button, err := p.locator.ButtonByText(easyApplyButtonSelectors, easyApplyTexts)
	if err != nil {
		if p.hasExternalApply() {
			return platform.ErrExternalApply
		}
		return platform.ErrNoQuickApply
	}

	// An anchor styled as the apply button leads off-platform
	if tag, err := button.TagName(); err == nil && tag == "a" {
		if href, err := button.Attribute("href"); err == nil && href != "" && !utils.IsLinkedInURL(href) {
			return platform.ErrExternalApply
		}
	}

	if err := button.Click(); err != nil {
		return fmt.Errorf("failed to click easy apply button: %w", err)
	}

	for _, selector := range applyModalSelectors {
		if err := p.driver.WaitForSelector(ctx, selector, 2*time.Second); err == nil {
			p.logger.Debug("Application modal opened")
			return nil
		}
	}

	// Clicking "Apply" on some listings opens the company site instead of
	// the modal
	if current, err := p.driver.CurrentURL(); err == nil && !utils.IsLinkedInURL(current) {
		return platform.ErrExternalApply
	}
	return fmt.Errorf("application modal did not open")
}

// hasExternalApply reports whether the listing offers only an off-platform
// application link
func (p *LinkedIn) hasExternalApply() bool {
	for _, selector := range externalApplyLinkSelectors {
		els, err := p.driver.FindAll(selector)
		if err != nil {
			continue
		}
		for _, el := range els {
			href, err := el.Attribute("href")
			if err != nil || href == "" {
				continue
			}
			if !utils.IsLinkedInURL(href) {
				return true
			}
		}
	}
	return false
}

// firstText returns the first non-empty text under root for the selector cascade
func firstText(root browser.Element, selectors []string) string {
	for _, selector := range selectors {
		el, err := root.Find(selector)
		if err != nil {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if text = utils.NormalizeSpace(text); text != "" {
			return text
		}
	}
	return ""
}

// Cleanup closes the browser
func (p *LinkedIn) Cleanup() {
	if p.driver == nil {
		return
	}
	if err := p.driver.Close(); err != nil {
		p.logger.Warn("Failed to close linkedin browser", map[string]interface{}{
			"error": err.Error(),
		})
	}
	p.driver = nil
}

// IsHealthy returns true while the browser is responsive
func (p *LinkedIn) IsHealthy() bool {
	if p.driver == nil {
		return false
	}
	_, err := p.driver.CurrentURL()
	return err == nil
}
