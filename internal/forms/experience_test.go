package forms

import "testing"

func TestMatchesExperienceRange(t *testing.T) {
	tests := []struct {
		option string
		years  int
		want   bool
	}{
		{"2-4 years", 3, true},
		{"2-4 years", 2, true},
		{"2-4 years", 4, true},
		{"2-4 years", 5, false},
		{"2 to 4 years", 3, true},
		{"10+ years", 12, true},
		{"10+ years", 10, true},
		{"10+ years", 9, false},
		{"Less than 2 years", 1, true},
		{"Less than 2 years", 2, false},
		{"More than 5 years", 6, true},
		{"More than 5 years", 5, false},
		{"At least 3 years", 4, true},
		{"At least 3 years", 3, true},
		{"At least 3 years", 2, false},
		{"5 years", 5, true},
		{"5 years", 4, false},
		{"None of the above", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			if got := MatchesExperienceRange(tt.option, tt.years); got != tt.want {
				t.Errorf("MatchesExperienceRange(%q, %d) = %v, want %v", tt.option, tt.years, got, tt.want)
			}
		})
	}
}

func TestRequiredYears(t *testing.T) {
	tests := []struct {
		question string
		want     int
		ok       bool
	}{
		{"Do you have 5+ years of experience with Go?", 5, true},
		{"Minimum 3 years required", 3, true},
		{"Minimum of 7 years in platform engineering", 7, true},
		{"At least 2 years working with Kubernetes?", 2, true},
		{"How many years of experience do you have?", 0, false},
		{"Do you know Go?", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, ok := RequiredYears(tt.question)
			if ok != tt.ok || got != tt.want {
				t.Errorf("RequiredYears(%q) = (%d, %v), want (%d, %v)", tt.question, got, ok, tt.want, tt.ok)
			}
		})
	}
}
