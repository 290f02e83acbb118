// Package roster mirrors new applications into a Google Sheets tab.
package roster

import (
	"context"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

// Appender writes rows to a spreadsheet tab
type Appender interface {
	AppendRows(ctx context.Context, spreadsheetID, tab string, rows [][]any) error
}

// Config selects the target sheet
type Config struct {
	SpreadsheetID string
	Tab           string
	ResumeBaseURL string
}

// Header names the columns written by Row
var Header = []string{"ID", "Submitted At", "Name", "Email", "Job Titles", "Clearance", "Resume"}

// Subscriber appends one row per delivered application
type Subscriber struct {
	sheets Appender
	cfg    Config
	logger *logging.Logger
}

func NewSubscriber(sheets Appender, cfg Config, logger *logging.Logger) *Subscriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Subscriber{sheets: sheets, cfg: cfg, logger: logger.Named("roster")}
}

func (s *Subscriber) Name() string { return "roster" }

func (s *Subscriber) Deliver(ctx context.Context, rec domain.Record) {
	if err := s.sheets.AppendRows(ctx, s.cfg.SpreadsheetID, s.cfg.Tab, [][]any{s.Row(rec)}); err != nil {
		s.logger.Error("failed to append roster row", "id", rec.ID(), "err", err)
		return
	}
	s.logger.Debug("appended roster row", "id", rec.ID())
}

// Row renders rec in Header order
func (s *Subscriber) Row(rec domain.Record) []any {
	resume := ""
	if rec.FileName() != "" {
		resume = ats.ResumeURL(s.cfg.ResumeBaseURL, rec.ID(), rec.FileName())
	}
	return []any{
		rec.ID(),
		rec.Get(domain.FieldSubmittedAt),
		rec.FullName(),
		rec.Get(domain.FieldEmail),
		rec.HumanList(domain.FieldJobTitles),
		rec.Get(domain.FieldClearance),
		resume,
	}
}
