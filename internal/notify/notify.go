// Package notify emails operators about new applications and failed
// Workable synchronizations.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

// Mailer sends a plaintext message
type Mailer interface {
	Send(ctx context.Context, from string, to []string, subject, body string) error
}

// Addresses is the sender and recipients of one kind of notification
type Addresses struct {
	Source       string
	Destinations []string
}

// Configured reports whether there is someone to send from and to
func (a Addresses) Configured() bool {
	return a.Source != "" && len(a.Destinations) > 0
}

const (
	kindFailure  = "failure"
	kindAnnounce = "announce"

	statusSent    = "sent"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// FailureNotifier emails operators when a Workable sync fails. It never
// returns an error: without addresses it does nothing, and mailer errors are
// logged.
type FailureNotifier struct {
	mailer        Mailer
	addrs         Addresses
	resumeBaseURL string
	logger        *logging.Logger
}

func NewFailureNotifier(mailer Mailer, addrs Addresses, resumeBaseURL string, logger *logging.Logger) *FailureNotifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FailureNotifier{
		mailer:        mailer,
		addrs:         addrs,
		resumeBaseURL: resumeBaseURL,
		logger:        logger.Named("notify"),
	}
}

// Notify implements ats.FailureNotifier
func (n *FailureNotifier) Notify(ctx context.Context, err error, rec domain.Record) {
	if n.mailer == nil || !n.addrs.Configured() {
		n.logger.Warn("failure email not configured, skipping", "id", rec.ID())
		notificationsTotal.WithLabelValues(kindFailure, statusSkipped).Inc()
		return
	}

	subject := fmt.Sprintf("Workable sync failed for %s", rec.FullName())
	body := FailureMessage(err, rec, n.resumeBaseURL)

	if sendErr := n.mailer.Send(ctx, n.addrs.Source, n.addrs.Destinations, subject, body); sendErr != nil {
		n.logger.Error("failed to send failure email", "id", rec.ID(), "err", sendErr)
		notificationsTotal.WithLabelValues(kindFailure, statusFailed).Inc()
		return
	}

	n.logger.Info("sent failure email", "id", rec.ID(), "to", n.addrs.Destinations)
	notificationsTotal.WithLabelValues(kindFailure, statusSent).Inc()
}

// FailureMessage renders the error, every application field and the resume link
func FailureMessage(err error, rec domain.Record, resumeBaseURL string) string {
	var sb strings.Builder
	sb.WriteString("A job application could not be added to Workable and needs to be entered by hand.\n\n")
	if err != nil {
		sb.WriteString("Error: " + err.Error() + "\n\n")
	}
	sb.WriteString("Application details:\n")
	sb.WriteString(ats.Summary(rec))
	if rec.FileName() != "" && resumeBaseURL != "" {
		sb.WriteString("\nResume: " + ats.ResumeURL(resumeBaseURL, rec.ID(), rec.FileName()) + "\n")
	}
	return sb.String()
}
