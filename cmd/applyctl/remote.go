package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/mcp/tools"
)

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored application",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}
}

func resyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resync <id>",
		Short: "Push a stored application to Workable again",
		Long: `Run one Workable synchronization attempt for a stored application.
Each resync creates a new candidate, so use it only after a failure alert.

Examples:
  applyctl resync 3f0c6e2a-0c55-4d55-9d6f-0b6c4b7f9a61 --url http://localhost:8080`,
		Args: cobra.ExactArgs(1),
		RunE: runResync,
	}
}

// callTool invokes one operator tool over the service's streamable MCP
// endpoint and decodes its structured output into out
func callTool(ctx context.Context, name string, args map[string]any, out any) error {
	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "applyctl",
		Version: version,
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint: strings.TrimRight(serverURL, "/") + "/mcp/stream",
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = session.Close() }()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	if res.IsError {
		return fmt.Errorf("%s failed: %s", name, toolText(res))
	}

	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func toolText(res *sdkmcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if t, ok := c.(*sdkmcp.TextContent); ok {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var out tools.ApplicationGetResult
	if err := callTool(ctx, "application_get", map[string]any{"id": args[0]}, &out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputFmt == "json" {
		return printJSON(w, out)
	}
	printRecord(w, "Application "+args[0], domain.Record(out.Record))
	return nil
}

func runResync(cmd *cobra.Command, args []string) error {
	// the synchronizer waits between candidate and comment creation
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var out tools.ApplicationResyncResult
	if err := callTool(ctx, "application_resync", map[string]any{"id": args[0]}, &out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputFmt == "json" {
		return printJSON(w, out)
	}
	fmt.Fprintln(w, status(out.Error == "", out.State))
	printPairs(w, [][2]string{
		{"id", out.ID},
		{"shortcode", out.Shortcode},
		{"candidate", out.CandidateID},
		{"failed at", out.FailedAt},
		{"error", out.Error},
	})
	return nil
}
