package notify

import (
	"context"
	"strings"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

// Announcer emails a short summary of every newly stored application
type Announcer struct {
	mailer Mailer
	addrs  Addresses
	logger *logging.Logger
}

func NewAnnouncer(mailer Mailer, addrs Addresses, logger *logging.Logger) *Announcer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Announcer{mailer: mailer, addrs: addrs, logger: logger.Named("announce")}
}

func (a *Announcer) Name() string { return "announce" }

// Deliver sends the announcement. Errors are logged and dropped.
func (a *Announcer) Deliver(ctx context.Context, rec domain.Record) {
	if a.mailer == nil || !a.addrs.Configured() {
		notificationsTotal.WithLabelValues(kindAnnounce, statusSkipped).Inc()
		return
	}

	subject := "New job application from " + rec.FullName()
	if err := a.mailer.Send(ctx, a.addrs.Source, a.addrs.Destinations, subject, Announcement(rec)); err != nil {
		a.logger.Error("failed to send announcement", "id", rec.ID(), "err", err)
		notificationsTotal.WithLabelValues(kindAnnounce, statusFailed).Inc()
		return
	}

	a.logger.Info("sent announcement", "id", rec.ID())
	notificationsTotal.WithLabelValues(kindAnnounce, statusSent).Inc()
}

// Announcement renders the new-application email body
func Announcement(rec domain.Record) string {
	var sb strings.Builder
	line := func(label, value string) {
		sb.WriteString("\n" + label + ": " + value)
	}

	sb.WriteString("New job application has been received from " + rec.FullName() + "!\n")
	line("Name", rec.FullName())
	line("Email", rec.Get(domain.FieldEmail))
	line("Job Title(s)", rec.HumanList(domain.FieldJobTitles))
	if v := rec.Get(domain.FieldOtherJobTitle); v != "" {
		line("Other Job Titles?", v)
	}
	if heard := rec.HumanList(domain.FieldHearAboutUs); heard != "" {
		if other := rec.Get(domain.FieldOtherHearAboutUs); other != "" {
			heard += ", " + other
		}
		line("How they heard about Case", heard)
	}
	if v := rec.Get(domain.FieldReferralHearAboutUs); v != "" {
		line("Employee Referral?", v)
	}
	line("Resume Filenames", rec.HumanList(domain.FieldFileNames))
	if v := rec.Get(domain.FieldComments); v != "" {
		line("Other Comments", v)
	}
	return sb.String()
}
