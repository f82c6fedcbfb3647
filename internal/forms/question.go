package forms

import (
	"jobpilot/internal/browser"
)

// Category buckets a form question by what kind of answer it needs
type Category string

const (
	CategoryYesNo           Category = "yes_no"
	CategoryWorkAuth        Category = "work_authorization"
	CategoryVisaSponsorship Category = "visa_sponsorship"
	CategoryYearsExperience Category = "years_of_experience"
	CategorySalary          Category = "salary_expectation"
	CategoryAvailability    Category = "availability_date"
	CategoryCommute         Category = "commute_or_location_comfort"
	CategorySkillPresence   Category = "skill_presence"
	CategoryAgreement       Category = "agreement"
	CategoryFreeText        Category = "free_text"
)

// InputKind identifies the control type a question is answered through
type InputKind string

const (
	KindText     InputKind = "text"
	KindTextarea InputKind = "textarea"
	KindNumber   InputKind = "number"
	KindSelect   InputKind = "select"
	KindRadio    InputKind = "radio"
	KindCheckbox InputKind = "checkbox"
	KindFile     InputKind = "file"
)

// Question is a single discovered form question bound to its input element
type Question struct {
	Text     string
	Category Category
	Kind     InputKind
	Element  browser.Element
	// Group holds every input of a radio group; Element is its first member
	Group []browser.Element
	// Options holds visible labels for radio groups and select options
	Options  []string
	Required bool
}
