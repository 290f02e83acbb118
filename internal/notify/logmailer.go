package notify

import (
	"context"

	"github.com/caseconsulting/job-apply/pkg/logging"
)

// LogMailer writes messages to the log instead of sending them. It is used
// when no mail credentials are configured.
type LogMailer struct {
	logger *logging.Logger
}

func NewLogMailer(logger *logging.Logger) *LogMailer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogMailer{logger: logger.Named("mail")}
}

func (m *LogMailer) Send(_ context.Context, from string, to []string, subject, body string) error {
	m.logger.Info("email not sent, no mailer configured", "from", from, "to", to, "subject", subject)
	m.logger.Debug("email body", "body", body)
	return nil
}
