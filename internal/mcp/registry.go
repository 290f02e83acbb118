package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/caseconsulting/job-apply/internal/mcp/tools"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

type ToolRegistry struct {
	logger *logging.Logger
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ToolRegistry{logger: logger.Named("mcp")}
}

// RegisterAll installs the operator tools. Tools whose resources are missing
// are skipped.
func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res Resources) []string {
	names := tools.Register(server,
		tools.WithJobCodeLookup(),
		tools.WithApplicationTools(res.Applications, res.Synchronizer, r.logger),
	)
	r.logger.Info("MCP tools registered", "tools", names)
	return names
}
