package domain

import (
	"sort"
	"strings"
	"time"
)

// Record field names, in the order they are rendered for humans
const (
	FieldID                  = "id"
	FieldFirstName           = "firstName"
	FieldLastName            = "lastName"
	FieldEmail               = "email"
	FieldJobTitles           = "jobTitles"
	FieldOtherJobTitle       = "otherJobTitle"
	FieldHearAboutUs         = "hearAboutUs"
	FieldOtherHearAboutUs    = "otherHearAboutUs"
	FieldReferralHearAboutUs = "referralHearAboutUs"
	FieldComments            = "comments"
	FieldFileNames           = "fileNames"
	FieldClearance           = "clearance"
	FieldSubmittedAt         = "submittedAt"
)

// RecordFields lists every field a stored record may carry
var RecordFields = []string{
	FieldID,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldJobTitles,
	FieldOtherJobTitle,
	FieldHearAboutUs,
	FieldOtherHearAboutUs,
	FieldReferralHearAboutUs,
	FieldComments,
	FieldFileNames,
	FieldClearance,
	FieldSubmittedAt,
}

// Sentinel selections that make a dependent field required
const (
	OtherOption            = "Other"
	EmployeeReferralOption = "Employee Referral"
)

// TimestampLayout matches the millisecond ISO-8601 form stored for submittedAt
const TimestampLayout = "2006-01-02T15:04:05.000Z"

const listSeparator = ","

// JobApplication is a validated submission. It is immutable once stored.
type JobApplication struct {
	ID                  string
	FirstName           string
	LastName            string
	Email               string
	JobTitles           []string
	OtherJobTitle       string
	HearAboutUs         []string
	OtherHearAboutUs    string
	ReferralHearAboutUs string
	Comments            string
	FileNames           []string
	Clearance           string
	SubmittedAt         time.Time
}

// Record is the flattened storage form of a JobApplication: list fields are
// comma-joined and empty fields are absent.
type Record map[string]string

// Record flattens the application for storage
func (a JobApplication) Record() Record {
	r := Record{}
	r.set(FieldID, a.ID)
	r.set(FieldFirstName, a.FirstName)
	r.set(FieldLastName, a.LastName)
	r.set(FieldEmail, a.Email)
	r.set(FieldJobTitles, strings.Join(a.JobTitles, listSeparator))
	r.set(FieldOtherJobTitle, a.OtherJobTitle)
	r.set(FieldHearAboutUs, strings.Join(a.HearAboutUs, listSeparator))
	r.set(FieldOtherHearAboutUs, a.OtherHearAboutUs)
	r.set(FieldReferralHearAboutUs, a.ReferralHearAboutUs)
	r.set(FieldComments, a.Comments)
	r.set(FieldFileNames, strings.Join(a.FileNames, listSeparator))
	r.set(FieldClearance, a.Clearance)
	if !a.SubmittedAt.IsZero() {
		r.set(FieldSubmittedAt, a.SubmittedAt.UTC().Format(TimestampLayout))
	}
	return r
}

func (r Record) set(key, value string) {
	if value != "" {
		r[key] = value
	}
}

// Get returns the value stored under key, or "" when absent
func (r Record) Get(key string) string {
	return r[key]
}

// ID returns the application id
func (r Record) ID() string {
	return r[FieldID]
}

// FullName joins first and last name
func (r Record) FullName() string {
	return strings.TrimSpace(r[FieldFirstName] + " " + r[FieldLastName])
}

// List splits a comma-joined field back into its selections
func (r Record) List(key string) []string {
	v := r[key]
	if v == "" {
		return nil
	}
	return strings.Split(v, listSeparator)
}

// HumanList renders a comma-joined field with ", " between selections
func (r Record) HumanList(key string) string {
	return strings.Join(r.List(key), ", ")
}

// FileName returns the single uploaded resume file name
func (r Record) FileName() string {
	return r[FieldFileNames]
}

// Keys returns the present keys: known fields in RecordFields order first,
// then any unknown keys sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	known := make(map[string]struct{}, len(RecordFields))
	for _, f := range RecordFields {
		known[f] = struct{}{}
		if _, ok := r[f]; ok {
			keys = append(keys, f)
		}
	}

	var extra []string
	for k := range r {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

// Lines renders every present field as "key: value"
func (r Record) Lines() []string {
	keys := r.Keys()
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+r[k])
	}
	return lines
}

// Clone returns an independent copy
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
