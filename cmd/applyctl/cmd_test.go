package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/internal/mcp"
	"github.com/caseconsulting/job-apply/internal/storage/memory"
)

const validSubmission = `{
  "firstName": "Jane",
  "lastName": "Doe",
  "email": "jane@example.com",
  "jobTitles": ["Software Developer"],
  "fileNames": ["resume.pdf"],
  "clearance": "TS/SCI with FSP"
}`

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submission.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmdSubcommands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"validate", "apply", "shortcode", "get", "resync"})
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", writeFile(t, validSubmission))
	require.NoError(t, err)

	assert.Contains(t, out, "Jane")
	assert.Contains(t, out, "valid shortcode 0F032F1935")
}

func TestValidateJSON(t *testing.T) {
	out, err := execute(t, "validate", writeFile(t, validSubmission), "-o", "json")
	require.NoError(t, err)

	var got struct {
		Record    map[string]string `json:"record"`
		Shortcode string            `json:"shortcode"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "0F032F1935", got.Shortcode)
	assert.Equal(t, "jane@example.com", got.Record[domain.FieldEmail])
}

func TestValidateRejects(t *testing.T) {
	_, err := execute(t, "validate", writeFile(t, `{"lastName":"Doe"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "First name is required")
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read submission")
}

func TestShortcode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"known pair", []string{"--clearance", "TS/SCI with CI", "--title", "Cloud Engineer"}, "08E66B2C76"},
		{"intern", []string{"--title", "Software Developer Intern"}, ats.InternShortcode},
		{"unknown", []string{"--clearance", "none", "--title", "Cloud Engineer"}, ats.LessCommonShortcode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"shortcode"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestApply(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apply", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"abc-123","message":"Submission was successful"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "apply", writeFile(t, validSubmission), "--url", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Jane", got["firstName"])
	assert.Contains(t, out, "Submission was successful abc-123")
}

func TestApplyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email is required"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "apply", writeFile(t, validSubmission), "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected (400)")
	assert.Contains(t, err.Error(), "Email is required")
}

type fakeResyncer struct {
	res ats.Result
}

func (f fakeResyncer) Sync(context.Context, domain.Record) ats.Result { return f.res }

func mcpServer(t *testing.T, res ats.Result) *httptest.Server {
	t.Helper()
	store := memory.NewApplicationRepository()
	require.NoError(t, store.Put(context.Background(), "abc-123", domain.Record{
		domain.FieldID:        "abc-123",
		domain.FieldFirstName: "Jane",
		domain.FieldLastName:  "Doe",
	}))

	server := mcp.NewServer(nil, mcp.Resources{
		Applications: store,
		Synchronizer: fakeResyncer{res: res},
	})
	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", mcp.NewHandler(server))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGet(t *testing.T) {
	srv := mcpServer(t, ats.Result{})

	out, err := execute(t, "get", "abc-123", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Application abc-123")
	assert.Contains(t, out, "Jane")
}

func TestGetMissing(t *testing.T) {
	srv := mcpServer(t, ats.Result{})

	_, err := execute(t, "get", "missing", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResync(t *testing.T) {
	srv := mcpServer(t, ats.Result{
		State:       ats.StateCommentCreated,
		Shortcode:   "0F032F1935",
		CandidateID: "cand-1",
	})

	out, err := execute(t, "resync", "abc-123", "--url", srv.URL, "-o", "json")
	require.NoError(t, err)

	var got struct {
		State       string `json:"state"`
		CandidateID string `json:"candidate_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, string(ats.StateCommentCreated), got.State)
	assert.Equal(t, "cand-1", got.CandidateID)
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload/abc-123/resume.pdf", r.URL.Path)
		assert.Equal(t, "application/pdf", r.FormValue("contentType"))
		_, _ = w.Write([]byte(`{"signature":{"key":"abc-123/resume.pdf","acl":"public-read"},"postEndpoint":"https://storage.example.com/bucket"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "upload", "abc-123/resume.pdf", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "POST https://storage.example.com/bucket")
	assert.Contains(t, out, "public-read")
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		_, _ = w.Write([]byte(`{"message":"File type not allowed"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "upload", "x/photo.gif", "--content-type", "image/gif", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File type not allowed")
}

const storedRecord = `{
  "id": {"S": "abc-123"},
  "firstName": {"S": "Jane"},
  "lastName": {"S": "Doe"},
  "email": {"S": "jane@example.com"},
  "jobTitles": {"S": "Software Developer"},
  "fileNames": {"S": "resume.pdf"},
  "clearance": {"S": "TS/SCI with FSP"}
}`

func syncEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SECRETS_PROVIDER", "env")
	t.Setenv("GMAIL_CREDENTIALS_PATH", "")
}

func TestSyncSkippedOutsideProd(t *testing.T) {
	syncEnv(t)

	out, err := execute(t, "sync", writeFile(t, storedRecord))
	require.NoError(t, err)
	assert.Contains(t, out, string(ats.StateSkipped))
}

func TestSyncForce(t *testing.T) {
	syncEnv(t)

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"candidate":{"id":"cand-1"}}`))
	}))
	defer srv.Close()

	t.Setenv("WORKABLE_BASE_URL", srv.URL)
	t.Setenv("WORKABLE_ACCESS_TOKEN", "tok")
	t.Setenv("WORKABLE_COMMENT_DELAY", "1ms")

	out, err := execute(t, "sync", writeFile(t, storedRecord), "--force", "-o", "json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, string(ats.StateCommentCreated), got["state"])
	assert.Equal(t, "cand-1", got["candidate_id"])
	assert.Equal(t, []string{"/jobs/0F032F1935/candidates", "/candidates/cand-1/comments"}, paths)
}

func TestReadRecordRequiresID(t *testing.T) {
	_, err := readRecord(writeFile(t, `{"firstName":"Jane"}`))
	require.Error(t, err)
}
