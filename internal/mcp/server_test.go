package mcp

import (
	"context"
	"errors"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/internal/storage/memory"
)

type fakeResyncer struct {
	calls []domain.Record
	res   ats.Result
}

func (f *fakeResyncer) Sync(_ context.Context, rec domain.Record) ats.Result {
	f.calls = append(f.calls, rec)
	return f.res
}

func connect(t *testing.T, res Resources) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(nil, res)
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callText(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (*sdkmcp.CallToolResult, string) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	txt, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return res, txt.Text
}

func TestListTools(t *testing.T) {
	session := connect(t, Resources{
		Applications: memory.NewApplicationRepository(),
		Synchronizer: &fakeResyncer{},
	})

	list, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"job_code_lookup", "application_get", "application_resync"}, names)
}

func TestListToolsWithoutResources(t *testing.T) {
	session := connect(t, Resources{})

	list, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, list.Tools, 1)
	assert.Equal(t, "job_code_lookup", list.Tools[0].Name)
}

func TestJobCodeLookup(t *testing.T) {
	session := connect(t, Resources{})

	res, text := callText(t, session, "job_code_lookup", map[string]any{
		"clearance":  "TS/SCI with FSP",
		"job_titles": []string{"Software Developer"},
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "shortcode: 0F032F1935", text)
}

func TestApplicationGet(t *testing.T) {
	repo := memory.NewApplicationRepository()
	require.NoError(t, repo.Put(context.Background(), "abc", domain.Record{
		domain.FieldID:        "abc",
		domain.FieldFirstName: "Jane",
	}))
	session := connect(t, Resources{Applications: repo})

	res, text := callText(t, session, "application_get", map[string]any{"id": "abc"})
	assert.False(t, res.IsError)
	assert.Equal(t, "id: abc\nfirstName: Jane", text)

	res, text = callText(t, session, "application_get", map[string]any{"id": "missing"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "not found")
}

func TestApplicationResync(t *testing.T) {
	repo := memory.NewApplicationRepository()
	require.NoError(t, repo.Put(context.Background(), "abc", domain.Record{domain.FieldID: "abc"}))
	resyncer := &fakeResyncer{res: ats.Result{
		State:    ats.StateFailed,
		FailedAt: ats.StateTokenFetched,
		Err:      errors.New("workable: API error (422): bad"),
	}}
	session := connect(t, Resources{Applications: repo, Synchronizer: resyncer})

	res, text := callText(t, session, "application_resync", map[string]any{"id": "abc"})

	assert.False(t, res.IsError)
	assert.Equal(t, "resync abc: failed (workable: API error (422): bad)", text)
	require.Len(t, resyncer.calls, 1)
	assert.Equal(t, "abc", resyncer.calls[0].ID())
}
