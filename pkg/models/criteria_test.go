package models

import (
	"reflect"
	"testing"
)

func TestPlatformsByPriority(t *testing.T) {
	defaults := []string{"linkedin"}

	tests := []struct {
		name       string
		priorities map[string]int
		want       []string
	}{
		{"no priorities falls back to defaults", nil, []string{"linkedin"}},
		{
			"ordered by ascending priority",
			map[string]int{"indeed": 2, "linkedin": 1, "glassdoor": 3},
			[]string{"linkedin", "indeed", "glassdoor"},
		},
		{
			"equal priorities break ties by name",
			map[string]int{"indeed": 1, "linkedin": 1},
			[]string{"indeed", "linkedin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &SearchCriteria{PlatformPriorities: tt.priorities}
			if got := c.PlatformsByPriority(defaults); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlatformsByPriority = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchLocation(t *testing.T) {
	remote := &SearchCriteria{RemoteOnly: true, Locations: []string{"Berlin"}}
	if got := remote.SearchLocation(); got != "Remote" {
		t.Errorf("SearchLocation = %q, want Remote", got)
	}

	local := &SearchCriteria{Locations: []string{"Berlin", "Munich"}}
	if got := local.SearchLocation(); got != "Berlin" {
		t.Errorf("SearchLocation = %q, want Berlin", got)
	}

	if got := (&SearchCriteria{}).SearchLocation(); got != "" {
		t.Errorf("SearchLocation = %q, want empty", got)
	}
}

func TestSearchKeywords(t *testing.T) {
	c := &SearchCriteria{Keywords: "golang backend", Titles: []string{"Backend Developer"}}
	if got := c.SearchKeywords(); got != "golang backend" {
		t.Errorf("SearchKeywords = %q, want explicit keywords", got)
	}

	c.Keywords = ""
	if got := c.SearchKeywords(); got != "Backend Developer" {
		t.Errorf("SearchKeywords = %q, want first title", got)
	}
}
