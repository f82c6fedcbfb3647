package models

import "sort"

// SearchCriteria describes what kinds of roles a session should pursue
type SearchCriteria struct {
	Titles             []string       `json:"titles" validate:"required,min=1"`
	Locations          []string       `json:"locations"`
	Skills             []string       `json:"skills"`
	RemoteOnly         bool           `json:"remote_only"`
	Keywords           string         `json:"keywords,omitempty"`
	PlatformPriorities map[string]int `json:"platform_priorities,omitempty"`
	MaxApplications    int            `json:"max_applications,omitempty"`
}

// SearchLocation returns the location used for the platform search box
func (c *SearchCriteria) SearchLocation() string {
	if c.RemoteOnly {
		return "Remote"
	}
	if len(c.Locations) > 0 {
		return c.Locations[0]
	}
	return ""
}

// SearchKeywords returns the keyword string typed into the platform search box
func (c *SearchCriteria) SearchKeywords() string {
	if c.Keywords != "" {
		return c.Keywords
	}
	if len(c.Titles) > 0 {
		return c.Titles[0]
	}
	return ""
}

// PlatformsByPriority returns the configured platforms ordered by ascending
// priority value, falling back to the provided defaults when none are set
func (c *SearchCriteria) PlatformsByPriority(defaults []string) []string {
	if len(c.PlatformPriorities) == 0 {
		return defaults
	}
	ordered := make([]string, 0, len(c.PlatformPriorities))
	for name := range c.PlatformPriorities {
		ordered = append(ordered, name)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := c.PlatformPriorities[ordered[i]], c.PlatformPriorities[ordered[j]]
		if pi != pj {
			return pi < pj
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}
