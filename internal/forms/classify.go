package forms

import (
	"regexp"
	"strings"
)

var categoryPatterns = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategoryWorkAuth, regexp.MustCompile(`(?i)(authorized to work|work authorization|legally authorized|eligible to work|right to work)`)},
	{CategoryVisaSponsorship, regexp.MustCompile(`(?i)(visa|sponsorship|sponsor)`)},
	{CategoryYearsExperience, regexp.MustCompile(`(?i)(years? of (work )?experience|how many years|experience do you have)`)},
	{CategorySalary, regexp.MustCompile(`(?i)(salary|compensation|pay expectation|expected pay|desired pay|rate expectation)`)},
	{CategoryAvailability, regexp.MustCompile(`(?i)(start date|when can you start|notice period|available to start|availability)`)},
	{CategoryCommute, regexp.MustCompile(`(?i)(commut|reloc|on-?site|in-?office|hybrid|remote work|located in|willing to travel)`)},
	{CategoryAgreement, regexp.MustCompile(`(?i)(agree|terms|acknowledge|certify|consent|privacy policy)`)},
	{CategorySkillPresence, regexp.MustCompile(`(?i)(experience (with|in|using)|proficien|familiar with|worked with|knowledge of)`)},
}

var yesNoLeadRegex = regexp.MustCompile(`(?i)^(are|do|did|have|has|can|will|would|is|was|were)\b`)

// Classify buckets a question by its text and the control answering it.
// Pattern order matters: the more specific compliance categories win over
// the generic skill and yes/no buckets.
func Classify(text string, kind InputKind) Category {
	normalized := strings.TrimSpace(text)

	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(normalized) {
			return cp.category
		}
	}

	if kind == KindRadio || kind == KindCheckbox {
		return CategoryYesNo
	}
	if yesNoLeadRegex.MatchString(normalized) {
		return CategoryYesNo
	}
	if kind == KindNumber {
		return CategoryYearsExperience
	}
	return CategoryFreeText
}
