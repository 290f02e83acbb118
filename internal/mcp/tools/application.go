package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/internal/repository"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

// ApplicationReader loads stored applications
type ApplicationReader interface {
	Get(ctx context.Context, id string) (domain.Record, error)
}

// Resyncer runs one Workable synchronization attempt
type Resyncer interface {
	Sync(ctx context.Context, rec domain.Record) ats.Result
}

// ApplicationIDParams identifies a stored application
type ApplicationIDParams struct {
	ID string `json:"id" jsonschema:"Application id returned by intake"`
}

// ApplicationGetResult is a stored application
type ApplicationGetResult struct {
	Record map[string]string `json:"record" jsonschema:"Stored fields of the application"`
}

// ApplicationResyncResult reports how a resync attempt ended
type ApplicationResyncResult struct {
	ID          string `json:"id"`
	State       string `json:"state" jsonschema:"Terminal state of the attempt"`
	FailedAt    string `json:"failed_at,omitempty" jsonschema:"State the attempt failed in, if any"`
	Shortcode   string `json:"shortcode,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type applicationTools struct {
	apps   ApplicationReader
	sync   Resyncer
	logger *logging.Logger
}

// WithApplicationTools registers application_get, plus application_resync
// when sync is non-nil
func WithApplicationTools(apps ApplicationReader, sync Resyncer, logger *logging.Logger) Option {
	return func(reg *registry) {
		if apps == nil {
			return
		}
		if logger == nil {
			logger = logging.NewNop()
		}
		t := applicationTools{apps: apps, sync: sync, logger: logger}

		addTool(reg, &sdkmcp.Tool{
			Name:        "application_get",
			Description: "Fetch a stored job application by id",
		}, t.get)

		if sync != nil {
			addTool(reg, &sdkmcp.Tool{
				Name:        "application_resync",
				Description: "Run one Workable synchronization attempt for a stored application. Repeated calls create duplicate candidates.",
			}, t.resync)
		}
	}
}

func (t applicationTools) load(ctx context.Context, id string) (domain.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id is required")
	}
	rec, err := t.apps.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("application %s not found", id)
	}
	if err != nil {
		t.logger.Error("failed to load application", "id", id, "err", err)
		return nil, fmt.Errorf("failed to load application %s", id)
	}
	return rec, nil
}

func (t applicationTools) get(ctx context.Context, _ *sdkmcp.CallToolRequest, params ApplicationIDParams) (*sdkmcp.CallToolResult, ApplicationGetResult, error) {
	rec, err := t.load(ctx, params.ID)
	if err != nil {
		return nil, ApplicationGetResult{}, err
	}

	return textResult(strings.Join(rec.Lines(), "\n")), ApplicationGetResult{Record: rec}, nil
}

func (t applicationTools) resync(ctx context.Context, _ *sdkmcp.CallToolRequest, params ApplicationIDParams) (*sdkmcp.CallToolResult, ApplicationResyncResult, error) {
	rec, err := t.load(ctx, params.ID)
	if err != nil {
		return nil, ApplicationResyncResult{}, err
	}

	t.logger.Info("application_resync requested", "id", params.ID)
	res := t.sync.Sync(ctx, rec)

	out := ApplicationResyncResult{
		ID:          params.ID,
		State:       string(res.State),
		FailedAt:    string(res.FailedAt),
		Shortcode:   res.Shortcode,
		CandidateID: res.CandidateID,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}

	msg := fmt.Sprintf("resync %s: %s", params.ID, out.State)
	if out.Error != "" {
		msg += " (" + out.Error + ")"
	}
	return textResult(msg), out, nil
}
