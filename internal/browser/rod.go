package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"jobpilot/internal/config"
	"jobpilot/internal/logging"
	"jobpilot/internal/logging/types"
)

// RodDriver drives a single Chrome instance through the rod CDP client
type RodDriver struct {
	config   *config.Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	logger   types.Logger
}

// NewRodDriver launches a browser and prepares a stealth page
func NewRodDriver(cfg *config.Config) (*RodDriver, error) {
	logger := logging.GetGlobalLogger()

	l := launcher.New().
		Headless(cfg.Browser.HeadlessMode).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-web-security").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if chromePath := systemChromePath(cfg.Browser.ChromePath); chromePath != "" {
		l = l.Bin(chromePath)
		logger.Info("Using system Chrome browser", map[string]interface{}{
			"chrome_path": chromePath,
		})
	} else {
		logger.Warn("System Chrome not found, Rod will download browser", map[string]interface{}{})
	}

	if cfg.Browser.UserAgent != "" {
		l = l.Set("user-agent", cfg.Browser.UserAgent)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	d := &RodDriver{
		config:   cfg,
		launcher: l,
		browser:  b,
		logger:   logger,
	}

	page, err := d.createStealthPage()
	if err != nil {
		b.MustClose()
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}
	d.page = page

	return d, nil
}

// createStealthPage creates a new page with stealth mode enabled
func (d *RodDriver) createStealthPage() (*rod.Page, error) {
	var page *rod.Page
	var err error

	if d.config.Browser.StealthMode {
		page, err = stealth.Page(d.browser)
		if err != nil {
			return nil, fmt.Errorf("failed to create stealth page: %w", err)
		}
	} else {
		page, err = d.browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		d.logger.Warn("Failed to set viewport", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if d.config.Browser.UserAgent != "" {
		err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: d.config.Browser.UserAgent,
		})
		if err != nil {
			d.logger.Warn("Failed to set user agent", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Set additional headers to appear more human-like
	headers := map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Accept-Encoding":           "gzip, deflate, br",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Upgrade-Insecure-Requests": "1",
	}

	for name, value := range headers {
		_, err := page.SetExtraHeaders([]string{name, value})
		if err != nil {
			d.logger.Debug("Failed to set header", map[string]interface{}{
				"error":  err.Error(),
				"header": name,
			})
		}
	}

	// Inject additional stealth JavaScript to mask automation
	err = rod.Try(func() {
		page.MustEval(`() => {
			Object.defineProperty(navigator, 'webdriver', {
				get: () => undefined,
			});

			Object.defineProperty(navigator, 'plugins', {
				get: () => [1, 2, 3, 4, 5],
			});

			Object.defineProperty(navigator, 'languages', {
				get: () => ['en-US', 'en'],
			});

			window.chrome = {
				runtime: {},
			};

			const originalQuery = window.navigator.permissions.query;
			window.navigator.permissions.query = (parameters) => (
				parameters.name === 'notifications' ?
					Promise.resolve({ state: Notification.permission }) :
					originalQuery(parameters)
			);
		}`)
	})
	if err != nil {
		d.logger.Warn("Failed to inject stealth JavaScript", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return page, nil
}

// Navigate navigates the page to the specified URL and waits for load
func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, d.config.Browser.PageTimeout)
	defer cancel()

	err := rod.Try(func() {
		d.page.Context(navCtx).MustNavigate(url).MustWaitLoad()
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	d.logger.Debug("Successfully navigated to URL", map[string]interface{}{
		"url": url,
	})
	return nil
}

// CurrentURL returns the URL of the active page
func (d *RodDriver) CurrentURL() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to get page info: %w", err)
	}
	return info.URL, nil
}

// PageHTML returns the full HTML content of the current page
func (d *RodDriver) PageHTML() (string, error) {
	html, err := d.page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get page HTML: %w", err)
	}
	return html, nil
}

// Find returns the first element matching the selector without waiting
func (d *RodDriver) Find(selector string) (Element, error) {
	els, err := d.page.Elements(selector)
	if err != nil || len(els) == 0 {
		return nil, ErrElementNotFound
	}
	return &rodElement{el: els.First(), page: d.page}, nil
}

// FindAll returns every element matching the selector without waiting
func (d *RodDriver) FindAll(selector string) ([]Element, error) {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, ErrElementNotFound
	}
	result := make([]Element, 0, len(els))
	for _, el := range els {
		result = append(result, &rodElement{el: el, page: d.page})
	}
	return result, nil
}

// WaitForSelector waits for an element to appear on the page
func (d *RodDriver) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := rod.Try(func() {
		d.page.Context(waitCtx).MustElement(selector)
	})
	if err != nil {
		return fmt.Errorf("element with selector '%s' not found within timeout: %w", selector, err)
	}
	return nil
}

// Scroll scrolls the page vertically by the given delta
func (d *RodDriver) Scroll(deltaY float64) error {
	err := rod.Try(func() {
		d.page.Mouse.MustScroll(0, deltaY)
	})
	if err != nil {
		return fmt.Errorf("failed to scroll page: %w", err)
	}
	return nil
}

// PressEnter sends an Enter key press to the page
func (d *RodDriver) PressEnter() error {
	err := rod.Try(func() {
		d.page.Keyboard.MustType(input.Enter)
	})
	if err != nil {
		return fmt.Errorf("failed to press enter: %w", err)
	}
	return nil
}

// PressEscape sends an Escape key press to the page
func (d *RodDriver) PressEscape() error {
	err := rod.Try(func() {
		d.page.Keyboard.MustType(input.Escape)
	})
	if err != nil {
		return fmt.Errorf("failed to press escape: %w", err)
	}
	return nil
}

// Close shuts down the page, browser and launcher
func (d *RodDriver) Close() error {
	err := rod.Try(func() {
		if d.page != nil {
			d.page.MustClose()
		}
		d.browser.MustClose()
	})
	d.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	d.logger.Debug("Browser driver closed")
	return nil
}

// rodElement adapts a rod element handle to the Element interface
type rodElement struct {
	el   *rod.Element
	page *rod.Page
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) TagName() (string, error) {
	res, err := e.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", fmt.Errorf("failed to read tag name: %w", err)
	}
	return res.Value.Str(), nil
}

func (e *rodElement) Attribute(name string) (string, error) {
	attr, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if attr == nil {
		return "", nil
	}
	return *attr, nil
}

func (e *rodElement) Click() error {
	return rod.Try(func() {
		e.el.MustScrollIntoView()
		e.el.MustClick()
	})
}

func (e *rodElement) Clear() error {
	return rod.Try(func() {
		e.el.MustSelectAllText()
		e.el.MustInput("")
	})
}

func (e *rodElement) Input(text string) error {
	return rod.Try(func() {
		e.el.MustInput(text)
	})
}

func (e *rodElement) SelectByText(text string) error {
	return e.el.Select([]string{text}, true, rod.SelectorTypeText)
}

func (e *rodElement) SelectByValue(value string) error {
	return e.el.Select([]string{fmt.Sprintf(`[value=%q]`, value)}, true, rod.SelectorTypeCSSSector)
}

func (e *rodElement) Options() ([]OptionItem, error) {
	res, err := e.el.Eval(`() => Array.from(this.options || []).map(o => ({text: (o.textContent || '').trim(), value: o.value}))`)
	if err != nil {
		return nil, fmt.Errorf("failed to read select options: %w", err)
	}
	var options []OptionItem
	for _, item := range res.Value.Arr() {
		options = append(options, OptionItem{
			Text:  item.Get("text").Str(),
			Value: item.Get("value").Str(),
		})
	}
	return options, nil
}

func (e *rodElement) SetFiles(paths []string) error {
	return e.el.SetFiles(paths)
}

func (e *rodElement) Visible() bool {
	visible, err := e.el.Visible()
	return err == nil && visible
}

func (e *rodElement) Interactable() bool {
	_, err := e.el.Interactable()
	return err == nil
}

func (e *rodElement) Find(selector string) (Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil || len(els) == 0 {
		return nil, ErrElementNotFound
	}
	return &rodElement{el: els.First(), page: e.page}, nil
}

func (e *rodElement) FindAll(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, ErrElementNotFound
	}
	result := make([]Element, 0, len(els))
	for _, el := range els {
		result = append(result, &rodElement{el: el, page: e.page})
	}
	return result, nil
}

func (e *rodElement) Parent() (Element, error) {
	parent, err := e.el.Parent()
	if err != nil {
		return nil, ErrElementNotFound
	}
	return &rodElement{el: parent, page: e.page}, nil
}

func (e *rodElement) HTML() (string, error) {
	return e.el.HTML()
}

func (e *rodElement) ScrollIntoView() error {
	return e.el.ScrollIntoView()
}

// systemChromePath finds the system-installed Chrome/Chromium browser
func systemChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	if chromeBin := os.Getenv("CHROME_BIN"); chromeBin != "" {
		if _, err := os.Stat(chromeBin); err == nil {
			return chromeBin
		}
	}

	commonPaths := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/opt/google/chrome/chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
