package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/secretmanager/v1"
)

// ErrNotFound is returned when a secret has no value
var ErrNotFound = errors.New("secrets: not found")

// GCPConfig defines Secret Manager settings
type GCPConfig struct {
	Project         string
	CredentialsPath string
}

// GCPStore reads the latest version of secrets from Google Secret Manager
type GCPStore struct {
	service *secretmanager.Service
	project string
}

func NewGCPStore(ctx context.Context, cfg GCPConfig) (*GCPStore, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("secrets: project is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	service, err := secretmanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to create service: %w", err)
	}

	return &GCPStore{service: service, project: cfg.Project}, nil
}

// Secret returns the decoded payload of the latest version of name
func (s *GCPStore) Secret(ctx context.Context, name string) (string, error) {
	resource := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.project, name)

	resp, err := s.service.Projects.Secrets.Versions.Access(resource).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("secrets: access %s: %w", name, err)
	}
	if resp.Payload == nil || resp.Payload.Data == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Payload.Data)
	if err != nil {
		return "", fmt.Errorf("secrets: decode %s: %w", name, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// EnvStore reads secrets from environment variables. A secret named
// "workable-access-token" is read from WORKABLE_ACCESS_TOKEN.
type EnvStore struct {
	lookup func(string) (string, bool)
}

func NewEnvStore() *EnvStore {
	return &EnvStore{lookup: os.LookupEnv}
}

func (s *EnvStore) Secret(_ context.Context, name string) (string, error) {
	key := EnvKey(name)
	v, ok := s.lookup(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s (set %s)", ErrNotFound, name, key)
	}
	return v, nil
}

// EnvKey maps a secret name to its environment variable
func EnvKey(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", "/", "_").Replace(name))
}

// Static is a fixed set of secrets, used by tests and local tooling
type Static map[string]string

func (s Static) Secret(_ context.Context, name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v, nil
}
