package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	jobViewPathRegex = regexp.MustCompile(`^/jobs/view/(\d+)/?`)
	numericIDRegex   = regexp.MustCompile(`^\d+$`)
)

// IsLinkedInURL checks if a URL is a LinkedIn URL
func IsLinkedInURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(parsedURL.Hostname())
	return hostname == "linkedin.com" || hostname == "www.linkedin.com"
}

// IsLinkedInLoggedInURL reports whether the URL is a post-login destination
// (the feed or any jobs page)
func IsLinkedInLoggedInURL(urlStr string) bool {
	if !IsLinkedInURL(urlStr) {
		return false
	}
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsedURL.Path)
	return strings.Contains(path, "feed") || strings.Contains(path, "jobs")
}

// IsLinkedInSearchURL reports whether the URL is a job search results page
func IsLinkedInSearchURL(urlStr string) bool {
	if !IsLinkedInURL(urlStr) {
		return false
	}
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(parsedURL.Path), "jobs/search")
}

// ExtractLinkedInJobID extracts the numeric job ID from a LinkedIn job URL.
// Both direct view URLs (/jobs/view/123) and collection or search URLs
// carrying a currentJobId query parameter are supported.
func ExtractLinkedInJobID(urlStr string) (string, error) {
	if !IsLinkedInURL(urlStr) {
		return "", fmt.Errorf("not a LinkedIn URL: %s", urlStr)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if matches := jobViewPathRegex.FindStringSubmatch(strings.ToLower(parsedURL.Path)); len(matches) > 1 {
		return matches[1], nil
	}

	if currentJobID := parsedURL.Query().Get("currentJobId"); numericIDRegex.MatchString(currentJobID) {
		return currentJobID, nil
	}

	return "", fmt.Errorf("no job ID found in LinkedIn URL: %s", urlStr)
}

// PublicLinkedInJobURL returns the canonical public view URL for a job ID
func PublicLinkedInJobURL(jobID string) string {
	return fmt.Sprintf("https://www.linkedin.com/jobs/view/%s", jobID)
}
