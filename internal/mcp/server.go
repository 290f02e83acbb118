package mcp

import (
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/caseconsulting/job-apply/internal/mcp/tools"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

const (
	serverName    = "job-apply"
	serverVersion = "0.1.0"
)

// Resources are the application services the operator tools call into
type Resources struct {
	Applications tools.ApplicationReader
	Synchronizer tools.Resyncer
}

// NewServer builds the MCP server with every operator tool registered
func NewServer(log *logging.Logger, res Resources) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	NewToolRegistry(log).RegisterAll(server, res)

	return server
}

// NewHandler serves s over streamable HTTP, for mounting at /mcp/stream
func NewHandler(s *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s
	}, nil)
}
