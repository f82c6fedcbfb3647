package linkedin

// LinkedIn churns its markup several times a year, so every lookup goes
// through an ordered selector cascade. Newer class names come first, older
// generations stay as fallbacks.

const (
	baseURL  = "https://www.linkedin.com"
	loginURL = baseURL + "/login"
	jobsURL  = baseURL + "/jobs/"
)

var (
	usernameSelectors = []string{
		"#username",
		"input[name=session_key]",
		"input[autocomplete=username]",
	}

	passwordSelectors = []string{
		"#password",
		"input[name=session_password]",
		"input[autocomplete=current-password]",
	}

	loginSubmitSelectors = []string{
		"button[type=submit]",
		"button[data-litms-control-urn=login-submit]",
	}

	searchBoxSelectors = []string{
		"input[id*=jobs-search-box-keyword-id]",
		"input.jobs-search-box__text-input",
		"input[aria-label='Search jobs']",
		"input[placeholder*='Search jobs']",
		"header input",
	}

	searchButtonSelectors = []string{
		"button.jobs-search-box__submit-button",
		"button[type=submit]",
	}

	easyApplyFilterSelectors = []string{
		"#searchFilter_applyWithLinkedin",
		"button[aria-label*='Easy Apply filter']",
		"input[name=f_AL]",
	}

	jobCardSelectors = []string{
		"li.scaffold-layout__list-item",
		"li.jobs-search-results__list-item",
		"div.scaffold-layout__list-container li",
		"ul.scaffold-layout__list li",
		"div.jobs-search-results-list li",
		"div.job-search-card",
		"div.base-card",
	}

	cardTitleSelectors = []string{
		".artdeco-entity-lockup__title",
		".job-card-job-posting-card-wrapper__title",
		"a.job-card-list__title",
		"a.job-card-container__link",
		"a[href*='/jobs/view/']",
		"strong",
	}

	cardCompanySelectors = []string{
		".artdeco-entity-lockup__subtitle",
		".job-card-container__primary-description",
		".job-card-container__company-name",
		"h4",
	}

	cardLocationSelectors = []string{
		".artdeco-entity-lockup__caption",
		".job-card-container__metadata-item",
		".job-search-card__location",
	}

	cardLinkSelectors = []string{
		"a.job-card-list__title",
		"a.job-card-container__link",
		"a[href*='/jobs/view/']",
		".artdeco-entity-lockup__title a",
	}

	panelTitleSelectors = []string{
		".job-details-jobs-unified-top-card__job-title h1",
		".jobs-unified-top-card__job-title h1",
		".jobs-unified-top-card h1",
		"main section h1",
	}

	panelCompanySelectors = []string{
		".job-details-jobs-unified-top-card__company-name a",
		".jobs-unified-top-card__company-name a",
		"a[data-control-name=job_details_topcard_company_url]",
		".jobs-unified-top-card h3 span a",
	}

	panelLocationSelectors = []string{
		".job-details-jobs-unified-top-card__primary-description-container span",
		".jobs-unified-top-card__primary-description span.tvm__text",
		".jobs-unified-top-card__bullet",
	}

	easyApplyButtonSelectors = []string{
		"button.jobs-apply-button",
		"button[data-control-name=jobdetails_topcard_inapply]",
		"div.jobs-apply-button button",
		".jobs-unified-top-card__actions button",
		".jobs-s-apply button",
	}

	externalApplyLinkSelectors = []string{
		"a.jobs-apply-button",
		".jobs-unified-top-card__actions a[href]",
		"a[data-control-name=jobdetails_topcard_offsite_apply]",
	}

	applyModalSelectors = []string{
		"div.jobs-easy-apply-modal",
		"div[data-test-modal-id=easy-apply-modal]",
		"div.jobs-easy-apply-content",
		"div.artdeco-modal",
	}

	submitSelectors = []string{
		"button[aria-label*='Submit application']",
		"button.jobs-apply-form__submit-button",
	}

	reviewSelectors = []string{
		"button[aria-label*='Review your application']",
		"button[aria-label*='Review']",
	}

	nextSelectors = []string{
		"button[aria-label='Continue to next step']",
		"button[aria-label*='Continue']",
		"button[data-easy-apply-next-button]",
	}

	doneSelectors = []string{
		"button[data-control-name=continue_unify]",
		"button[data-control-name=dismiss_modal]",
	}

	dismissSelectors = []string{
		"button[aria-label=Dismiss]",
		"button[aria-label*=Cancel]",
	}

	successMessageSelectors = []string{
		"div.jobs-apply-success",
		"div[data-test-modal-id=application-submitted-modal]",
		"div.application-confirmation",
		"div.artdeco-toast-message",
	}

	requiredErrorSelectors = []string{
		".artdeco-inline-feedback--error",
		".fb-form-element__error-text",
		"div[role=alert]",
	}

	moreJobsSelectors = []string{
		"button.infinite-scroller__show-more-button",
		"button.jobs-search__pagination-button",
		"button[aria-label*='See more jobs']",
		"button[aria-label*='Load more jobs']",
	}
)

// Button text fragments used when the structural selectors come up empty
var (
	searchButtonTexts   = []string{"search"}
	loginButtonTexts    = []string{"sign in"}
	notNowTexts         = []string{"not now", "never"}
	easyApplyTexts      = []string{"easy apply"}
	easyApplyFilterText = []string{"easy apply"}
	submitTexts         = []string{"submit application", "submit"}
	reviewTexts         = []string{"review application", "review"}
	nextTexts           = []string{"next", "continue"}
	doneTexts           = []string{"done"}
	discardTexts        = []string{"discard"}
	moreJobsTexts       = []string{"see more jobs", "load more", "show more"}
)

// successPhrases are matched against headline and toast text after a submit
var successPhrases = []string{
	"application sent",
	"your application was sent",
	"application submitted",
}

// timeWords show up in the same card caption slot as the location and have
// to be filtered out
var timeWords = []string{
	"ago", "hour", "day", "week", "month", "just now", "applicant", "employee", "reposted",
}
