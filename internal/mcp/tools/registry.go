package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server *sdkmcp.Server
	names  []string
}

// Register applies the provided tool options and returns the names of the
// tools that were installed
func Register(server *sdkmcp.Server, opts ...Option) []string {
	reg := &registry{server: server}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg.names
}

func addTool[In, Out any](reg *registry, tool *sdkmcp.Tool, handler sdkmcp.ToolHandlerFor[In, Out]) {
	sdkmcp.AddTool(reg.server, tool, handler)
	reg.names = append(reg.names, tool.Name)
}

func textResult(lines ...string) *sdkmcp.CallToolResult {
	content := make([]sdkmcp.Content, 0, len(lines))
	for _, l := range lines {
		content = append(content, &sdkmcp.TextContent{Text: l})
	}
	return &sdkmcp.CallToolResult{Content: content}
}
