package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLCleaner extracts readable job description text from raw detail-panel
// HTML so prompts and matching work on prose instead of markup
type HTMLCleaner struct {
	removeTags []string
}

// NewHTMLCleaner creates a new HTML cleaner instance
func NewHTMLCleaner() *HTMLCleaner {
	return &HTMLCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"svg", "path", "g", "defs", "use", "symbol",
			"nav", "header", "footer", "aside", "menu",
			"meta", "link", "title", "base",
		},
	}
}

// ExtractJobContent extracts the text likely to contain the job description
func (hc *HTMLCleaner) ExtractJobContent(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range hc.removeTags {
		doc.Find(tag).Remove()
	}

	// Detail-panel selectors, most specific first
	jobSelectors := []string{
		".jobs-description__content", ".jobs-description-content__text",
		".jobs-box__html-content", "#job-details",
		".job-description", ".job-detail", ".description__text",
		"[data-testid*='job']", "[data-test*='job']",
		"main", "[role='main']", "article",
	}

	var contentParts []string
	for _, selector := range jobSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" && len(text) > 50 {
				contentParts = append(contentParts, text)
			}
		})
		if len(contentParts) > 0 {
			break
		}
	}

	// Fall back to the whole body when no known container matched
	if len(contentParts) == 0 {
		if bodyText := doc.Find("body").Text(); bodyText != "" {
			contentParts = append(contentParts, bodyText)
		}
	}

	combinedContent := strings.Join(contentParts, "\n\n")
	return hc.cleanExtractedText(combinedContent), nil
}

// cleanExtractedText normalizes whitespace and strips boilerplate
func (hc *HTMLCleaner) cleanExtractedText(text string) string {
	whitespaceRegex := regexp.MustCompile(`[ \t]+`)
	text = whitespaceRegex.ReplaceAllString(text, " ")

	newlineRegex := regexp.MustCompile(`\n{3,}`)
	text = newlineRegex.ReplaceAllString(text, "\n\n")

	patterns := []string{
		`\bJavaScript\s+is\s+disabled\b.*?enabled\.`,
		`\bPlease\s+enable\s+JavaScript\b.*?`,
		`\bThis\s+site\s+requires\s+JavaScript\b.*?`,
	}
	for _, pattern := range patterns {
		regex := regexp.MustCompile(pattern)
		text = regex.ReplaceAllString(text, "")
	}

	return strings.TrimSpace(text)
}

// ApproximateTokens returns a rough token count for budgeting prompt size
func (hc *HTMLCleaner) ApproximateTokens(text string) int {
	return len(text) / 4
}
