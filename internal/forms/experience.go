package forms

import (
	"regexp"
	"strconv"
)

var (
	plusRangeRegex   = regexp.MustCompile(`(\d+)\s*\+`)
	spanRangeRegex   = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)`)
	lessThanRegex    = regexp.MustCompile(`(?i)(?:less than|under|fewer than)\s*(\d+)`)
	atLeastRegex     = regexp.MustCompile(`(?i)at least\s*(\d+)`)
	moreThanRegex    = regexp.MustCompile(`(?i)(?:more than|over)\s*(\d+)`)
	bareNumberRegex  = regexp.MustCompile(`(\d+)`)
	requiredYearsRe  = regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?`)
	minimumYearsRegs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)minimum\s*(?:of\s*)?(\d+)`),
		regexp.MustCompile(`(?i)at least\s*(\d+)`),
		requiredYearsRe,
	}
)

// MatchesExperienceRange reports whether a years value falls inside the
// range described by an option label like "2-4 years", "10+" or
// "less than 2 years"
func MatchesExperienceRange(optionText string, years int) bool {
	if m := lessThanRegex.FindStringSubmatch(optionText); m != nil {
		n, _ := strconv.Atoi(m[1])
		return years < n
	}
	if m := atLeastRegex.FindStringSubmatch(optionText); m != nil {
		n, _ := strconv.Atoi(m[1])
		return years >= n
	}
	if m := moreThanRegex.FindStringSubmatch(optionText); m != nil {
		n, _ := strconv.Atoi(m[1])
		return years > n
	}
	if m := spanRangeRegex.FindStringSubmatch(optionText); m != nil {
		low, _ := strconv.Atoi(m[1])
		high, _ := strconv.Atoi(m[2])
		return years >= low && years <= high
	}
	if m := plusRangeRegex.FindStringSubmatch(optionText); m != nil {
		n, _ := strconv.Atoi(m[1])
		return years >= n
	}
	if m := bareNumberRegex.FindStringSubmatch(optionText); m != nil {
		n, _ := strconv.Atoi(m[1])
		return years == n
	}
	return false
}

// RequiredYears extracts the years requirement stated in a question, such
// as "Do you have 5+ years of experience with Go?". Returns ok=false when
// the question names no number.
func RequiredYears(question string) (int, bool) {
	for _, re := range minimumYearsRegs {
		if m := re.FindStringSubmatch(question); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n, true
			}
		}
	}
	return 0, false
}
