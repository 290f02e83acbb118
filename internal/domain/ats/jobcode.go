package ats

import (
	"strings"

	"github.com/caseconsulting/job-apply/internal/domain"
)

// Workable job shortcodes
const (
	LessCommonShortcode   = "C1B881D920"
	CICandidatesShortcode = "837457E467"
	InternShortcode       = "E0209C3651"
)

const internMarker = "Intern"

// jobCodes maps clearance, then job title, to a Workable job shortcode
var jobCodes = map[string]map[string]string{
	"TS/SCI with FSP": {
		"Software Developer":       "0F032F1935",
		"Quality Assurance/Tester": "FB7E117902",
		"Cloud Engineer":           "39C80C619C",
		"Data Scientist":           "BA962320A5",
		"Project Manager":          "D1DAA969FD",
		"System Engineer":          "B5534DAEF8",
		domain.OtherOption:         LessCommonShortcode,
	},
	"TS/SCI with CI": {
		"Software Developer":       "18BB0B9627",
		"Cloud Engineer":           "08E66B2C76",
		"Data Scientist":           CICandidatesShortcode,
		"Quality Assurance/Tester": CICandidatesShortcode,
		"Project Manager":          CICandidatesShortcode,
		"System Engineer":          CICandidatesShortcode,
		domain.OtherOption:         CICandidatesShortcode,
	},
}

// ResolveShortcode picks the Workable job for an application. Any intern
// selection routes to the intern job. Otherwise only the first selected
// title is looked up against the clearance; unknown pairs fall back to the
// less-common catch-all.
func ResolveShortcode(clearance string, jobTitles []string) string {
	for _, title := range jobTitles {
		if strings.Contains(title, internMarker) {
			return InternShortcode
		}
	}

	if len(jobTitles) == 0 {
		return LessCommonShortcode
	}

	if code, ok := jobCodes[clearance][jobTitles[0]]; ok {
		return code
	}
	return LessCommonShortcode
}

// ShortcodeFor resolves the shortcode for a stored record
func ShortcodeFor(rec domain.Record) string {
	return ResolveShortcode(rec.Get(domain.FieldClearance), rec.List(domain.FieldJobTitles))
}
