package ats

import (
	"strings"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/pkg/workable"
)

const (
	candidateDomain = "applied"
	candidateStage  = "Applied"

	commentHeader = "Candidate generated through Workable API, originally submitted via CASE website.\n" +
		"\nJob application details:\n"
)

// Builder turns stored records into Workable payloads
type Builder struct {
	ResumeBaseURL string
	MemberID      string
}

// Build returns the candidate payload and the comment to attach after creation
func (b Builder) Build(rec domain.Record) (workable.Candidate, workable.Comment) {
	candidate := workable.Candidate{
		Firstname: rec.Get(domain.FieldFirstName),
		Lastname:  rec.Get(domain.FieldLastName),
		Email:     rec.Get(domain.FieldEmail),
		Headline:  rec.HumanList(domain.FieldJobTitles),
		ResumeURL: ResumeURL(b.ResumeBaseURL, rec.ID(), rec.FileName()),
		Domain:    candidateDomain,
		Stage:     candidateStage,
		Sourced:   false,
	}

	comment := workable.Comment{
		Comment:  strings.TrimSpace(commentHeader + Summary(rec)),
		MemberID: b.MemberID,
	}

	return candidate, comment
}

// Summary renders every field of the record as "key: value" lines
func Summary(rec domain.Record) string {
	var sb strings.Builder
	for _, line := range rec.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ResumeURL is the public link to an uploaded resume. The object key is
// percent-encoded once when written, so the link encodes the file name twice.
func ResumeURL(baseURL, id, fileName string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + id + "/" + encodeURIComponent(encodeURIComponent(fileName))
}

// encodeURIComponent percent-encodes everything except the RFC 3986
// unreserved characters and !*'()
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIComponentSafe(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0F])
	}
	return sb.String()
}

func isURIComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
