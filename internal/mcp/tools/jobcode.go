package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/caseconsulting/job-apply/internal/domain/ats"
)

// JobCodeLookupParams defines the arguments for the job_code_lookup tool
type JobCodeLookupParams struct {
	Clearance string   `json:"clearance,omitempty" jsonschema:"Clearance as submitted, e.g. TS/SCI with FSP"`
	JobTitles []string `json:"job_titles" jsonschema:"Selected job titles in submission order"`
}

// JobCodeLookupResult is the Workable job an application would be filed under
type JobCodeLookupResult struct {
	Shortcode string `json:"shortcode" jsonschema:"Workable job shortcode"`
}

// WithJobCodeLookup registers the job_code_lookup tool
func WithJobCodeLookup() Option {
	return func(reg *registry) {
		addTool(reg, &sdkmcp.Tool{
			Name:        "job_code_lookup",
			Description: "Resolve the Workable job shortcode for a clearance and job title selection",
		}, jobCodeLookup)
	}
}

func jobCodeLookup(_ context.Context, _ *sdkmcp.CallToolRequest, params JobCodeLookupParams) (*sdkmcp.CallToolResult, JobCodeLookupResult, error) {
	result := JobCodeLookupResult{Shortcode: ats.ResolveShortcode(params.Clearance, params.JobTitles)}
	return textResult(fmt.Sprintf("shortcode: %s", result.Shortcode)), result, nil
}
