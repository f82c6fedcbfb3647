package models

// PlatformCredentials holds the login identity for a single platform
type PlatformCredentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// UserContext carries everything the automation needs to act on a user's behalf
type UserContext struct {
	UserID          string                         `json:"user_id" validate:"required"`
	FirstName       string                         `json:"first_name"`
	LastName        string                         `json:"last_name"`
	Email           string                         `json:"email"`
	Phone           string                         `json:"phone"`
	City            string                         `json:"city"`
	YearsExperience int                            `json:"years_experience"`
	Skills          []string                       `json:"skills"`
	ResumePath      string                         `json:"resume_path,omitempty"`
	Credentials     map[string]PlatformCredentials `json:"credentials"`
	DailyLimit      int                            `json:"daily_application_limit"`
}

// FullName joins the user's name parts for form prefill
func (u *UserContext) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasSkill reports whether the user lists the given skill (case-insensitive match is the caller's job)
func (u *UserContext) HasSkill(skill string) bool {
	for _, s := range u.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
