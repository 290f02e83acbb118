package application

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseconsulting/job-apply/internal/domain"
)

var testNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func fullSubmission() *Submission {
	return &Submission{
		FirstName:           "firstName",
		LastName:            "lastName",
		Email:               "email",
		JobTitles:           []string{"jobTitle1", "jobTitle2", "Other"},
		Clearance:           "clearance",
		OtherJobTitle:       "otherJobTitle",
		HearAboutUs:         []string{"where1", "Other", "Employee Referral"},
		OtherHearAboutUs:    "otherHearAboutUs",
		ReferralHearAboutUs: "referralHearAboutUs",
		Comments:            "comments",
		FileNames:           []string{"resume.pdf"},
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Submission)
		want   error
	}{
		{"missing first name", func(s *Submission) { s.FirstName = "" }, ErrFirstNameRequired},
		{"missing last name", func(s *Submission) { s.LastName = "" }, ErrLastNameRequired},
		{"missing email", func(s *Submission) { s.Email = "" }, ErrEmailRequired},
		{"missing job titles", func(s *Submission) { s.JobTitles = nil }, ErrJobTitleRequired},
		{"empty job titles", func(s *Submission) { s.JobTitles = []string{} }, ErrJobTitleRequired},
		{"blank job title", func(s *Submission) { s.JobTitles = []string{""} }, ErrJobTitleRequired},
		{"only blank job titles", func(s *Submission) { s.JobTitles = []string{"", ""} }, ErrJobTitleRequired},
		{"other job title missing", func(s *Submission) { s.OtherJobTitle = "" }, ErrOtherJobTitleRequired},
		{"other hear about us missing", func(s *Submission) { s.OtherHearAboutUs = "" }, ErrOtherHearAboutUsRequired},
		{"referral missing", func(s *Submission) { s.ReferralHearAboutUs = "" }, ErrReferralRequired},
		{"missing file names", func(s *Submission) { s.FileNames = nil }, ErrFileNameRequired},
		{"blank file name", func(s *Submission) { s.FileNames = []string{""} }, ErrFileNameRequired},
		{"blank first of two files", func(s *Submission) { s.FileNames = []string{"", "b.pdf"} }, ErrFileNameRequired},
		{"two files", func(s *Submission) { s.FileNames = []string{"a.pdf", "b.pdf"} }, ErrTooManyFiles},
		{
			"first failure wins",
			func(s *Submission) { s.Email = ""; s.FileNames = nil },
			ErrEmailRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fullSubmission()
			tt.mutate(s)

			_, err := Validate(s, testNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var verr ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidateEmptyBodies(t *testing.T) {
	_, err := Validate(nil, testNow)
	assert.Equal(t, ErrFirstNameRequired, err)

	_, err = Validate(&Submission{}, testNow)
	assert.Equal(t, ErrFirstNameRequired, err)

	_, err = Validate(&Submission{
		JobTitles:   []string{},
		HearAboutUs: []string{},
		FileNames:   []string{},
	}, testNow)
	assert.Equal(t, ErrFirstNameRequired, err)
}

func TestValidateSuccess(t *testing.T) {
	app, err := Validate(fullSubmission(), testNow)
	require.NoError(t, err)

	assert.Equal(t, domain.Record{
		"firstName":           "firstName",
		"lastName":            "lastName",
		"email":               "email",
		"jobTitles":           "jobTitle1,jobTitle2,Other",
		"clearance":           "clearance",
		"otherJobTitle":       "otherJobTitle",
		"hearAboutUs":         "where1,Other,Employee Referral",
		"otherHearAboutUs":    "otherHearAboutUs",
		"referralHearAboutUs": "referralHearAboutUs",
		"comments":            "comments",
		"fileNames":           "resume.pdf",
		"submittedAt":         "2024-05-06T07:08:09.000Z",
	}, app.Record())
}

func TestValidateWithoutHearAboutUs(t *testing.T) {
	s := fullSubmission()
	s.HearAboutUs = nil

	app, err := Validate(s, testNow)
	require.NoError(t, err)

	rec := app.Record()
	assert.NotContains(t, rec, domain.FieldHearAboutUs)
	assert.NotContains(t, rec, domain.FieldOtherHearAboutUs)
	assert.NotContains(t, rec, domain.FieldReferralHearAboutUs)
}

func TestValidateOptionalDependentsNotRequired(t *testing.T) {
	s := fullSubmission()
	s.JobTitles = []string{"Software Developer"}
	s.OtherJobTitle = ""
	s.HearAboutUs = []string{"LinkedIn"}
	s.OtherHearAboutUs = ""
	s.ReferralHearAboutUs = ""

	app, err := Validate(s, testNow)
	require.NoError(t, err)
	assert.Equal(t, "LinkedIn", app.Record()[domain.FieldHearAboutUs])
}

func TestValidateKeepsOtherJobTitleWithoutOther(t *testing.T) {
	s := fullSubmission()
	s.JobTitles = []string{"Software Developer"}
	s.OtherJobTitle = "Site Reliability"

	app, err := Validate(s, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Site Reliability", app.Record()[domain.FieldOtherJobTitle])
}

func TestValidateDropsBlankJobTitles(t *testing.T) {
	s := fullSubmission()
	s.JobTitles = []string{"", "Software Developer", ""}

	app, err := Validate(s, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Software Developer", app.Record()[domain.FieldJobTitles])
}

func TestValidatePropagatesCallerID(t *testing.T) {
	s := fullSubmission()
	app, err := Validate(s, testNow)
	require.NoError(t, err)
	assert.Empty(t, app.ID)

	s.ID = "replayed-id"
	app, err = Validate(s, testNow)
	require.NoError(t, err)
	assert.Equal(t, "replayed-id", app.ID)
}

func TestValidateDoesNotAliasInput(t *testing.T) {
	s := fullSubmission()
	app, err := Validate(s, testNow)
	require.NoError(t, err)

	s.JobTitles[0] = "changed"
	assert.Equal(t, "jobTitle1", app.JobTitles[0])
}
