package application

import (
	"slices"
	"time"

	"github.com/caseconsulting/job-apply/internal/domain"
)

// ValidationError is a client-caused rejection. Its text is safe to return
// to the caller verbatim.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrFirstNameRequired        ValidationError = "First name is required."
	ErrLastNameRequired         ValidationError = "Last name is required."
	ErrEmailRequired            ValidationError = "Email is required."
	ErrJobTitleRequired         ValidationError = "Job Title is required."
	ErrOtherJobTitleRequired    ValidationError = "Other Job Title is required."
	ErrOtherHearAboutUsRequired ValidationError = "Other Hear About Us is required."
	ErrReferralRequired         ValidationError = "Employee Referral Hear About Us is required."
	ErrFileNameRequired         ValidationError = "Filename is required."
	ErrTooManyFiles             ValidationError = "Can only upload 1 file"
)

// Submission is the raw client payload. Unknown JSON fields are dropped on
// decode.
type Submission struct {
	ID                  string   `json:"id,omitempty"`
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName"`
	Email               string   `json:"email"`
	JobTitles           []string `json:"jobTitles"`
	OtherJobTitle       string   `json:"otherJobTitle"`
	HearAboutUs         []string `json:"hearAboutUs"`
	OtherHearAboutUs    string   `json:"otherHearAboutUs"`
	ReferralHearAboutUs string   `json:"referralHearAboutUs"`
	Comments            string   `json:"comments"`
	FileNames           []string `json:"fileNames"`
	Clearance           string   `json:"clearance"`
}

// Rule is one validation step. When is optional; a rule whose When returns
// false is skipped.
type Rule struct {
	Err   ValidationError
	When  func(s *Submission) bool
	Check func(s *Submission) bool
}

// Rules are evaluated in order and the first failure wins.
var Rules = []Rule{
	{Err: ErrFirstNameRequired, Check: func(s *Submission) bool { return s.FirstName != "" }},
	{Err: ErrLastNameRequired, Check: func(s *Submission) bool { return s.LastName != "" }},
	{Err: ErrEmailRequired, Check: func(s *Submission) bool { return s.Email != "" }},
	{Err: ErrJobTitleRequired, Check: func(s *Submission) bool { return slices.ContainsFunc(s.JobTitles, nonBlank) }},
	{
		Err:   ErrOtherJobTitleRequired,
		When:  func(s *Submission) bool { return slices.Contains(s.JobTitles, domain.OtherOption) },
		Check: func(s *Submission) bool { return s.OtherJobTitle != "" },
	},
	{
		Err:   ErrOtherHearAboutUsRequired,
		When:  func(s *Submission) bool { return slices.Contains(s.HearAboutUs, domain.OtherOption) },
		Check: func(s *Submission) bool { return s.OtherHearAboutUs != "" },
	},
	{
		Err:   ErrReferralRequired,
		When:  func(s *Submission) bool { return slices.Contains(s.HearAboutUs, domain.EmployeeReferralOption) },
		Check: func(s *Submission) bool { return s.ReferralHearAboutUs != "" },
	},
	{Err: ErrFileNameRequired, Check: func(s *Submission) bool { return len(s.FileNames) > 0 && nonBlank(s.FileNames[0]) }},
	{Err: ErrTooManyFiles, Check: func(s *Submission) bool { return len(s.FileNames) == 1 }},
}

func nonBlank(v string) bool { return v != "" }

// Validate checks s against Rules and builds the application. A nil
// submission fails the first rule. The returned application carries s.ID
// only when the caller supplied one.
func Validate(s *Submission, now time.Time) (domain.JobApplication, error) {
	if s == nil {
		s = &Submission{}
	}

	for _, r := range Rules {
		if r.When != nil && !r.When(s) {
			continue
		}
		if !r.Check(s) {
			return domain.JobApplication{}, r.Err
		}
	}

	app := domain.JobApplication{
		ID:            s.ID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Email:         s.Email,
		JobTitles:     slices.DeleteFunc(slices.Clone(s.JobTitles), func(t string) bool { return !nonBlank(t) }),
		OtherJobTitle: s.OtherJobTitle,
		Comments:      s.Comments,
		FileNames:     slices.Clone(s.FileNames),
		Clearance:     s.Clearance,
		SubmittedAt:   now.UTC(),
	}
	if len(s.HearAboutUs) > 0 {
		app.HearAboutUs = slices.Clone(s.HearAboutUs)
		app.OtherHearAboutUs = s.OtherHearAboutUs
		app.ReferralHearAboutUs = s.ReferralHearAboutUs
	}

	return app, nil
}
