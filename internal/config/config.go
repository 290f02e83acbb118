package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreNeo4j    = "neo4j"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Relay modes
const (
	RelayInProcess = "inprocess"
	RelayExternal  = "external"
)

// Secret providers
const (
	SecretsEnv = "env"
	SecretsGCP = "gcp"
)

const ProdEnvironment = "prod"

// Config contains runtime settings for the intake service
type Config struct {
	LogLevel    string
	Host        string // default 0.0.0.0
	Port        string // default PORT env or 8080
	Environment string

	CORS struct {
		Domain   string
		Protocol string
	}

	Store struct {
		Driver      string
		DatabaseURL string
		SQLitePath  string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
	}

	Relay struct {
		Mode    string
		Workers int
		Buffer  int
	}

	Workable struct {
		Subdomain         string
		BaseURL           string
		MemberID          string
		TokenSecret       string
		CommentDelay      time.Duration
		RequestsPerSecond float64
	}

	Secrets struct {
		Provider   string
		GCPProject string
	}

	Upload struct {
		Bucket              string
		Expires             time.Duration
		AllowedContentTypes []string
		ResumeBaseURL       string
	}

	Email struct {
		Source               string
		FailureDestinations  []string
		AnnounceDestinations []string
		GmailCredentialsPath string
	}

	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string
		Tab             string
	}
}

// SyncEnabled reports whether applications are pushed to Workable
func (c Config) SyncEnabled() bool {
	return c.Environment == ProdEnvironment
}

// AllowedOrigin is the value of Access-Control-Allow-Origin
func (c Config) AllowedOrigin() string {
	if c.CORS.Domain == "" || c.CORS.Domain == "*" {
		return "*"
	}
	return c.CORS.Protocol + "://" + c.CORS.Domain
}

// LoadDotEnv loads variables from .env files that exist. Variables already
// set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel:    env("LOG_LEVEL", "info"),
		Host:        env("HTTP_HOST", "0.0.0.0"),
		Port:        env("PORT", "8080"),
		Environment: env("ENVIRONMENT", "dev"),
	}
	var invalid []string

	cfg.CORS.Domain = env("CLIENT_DOMAIN", "*")
	cfg.CORS.Protocol = env("CLIENT_PROTOCOL", "https")

	cfg.Store.Driver = strings.ToLower(env("STORE_DRIVER", StoreMemory))
	cfg.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Store.SQLitePath = env("SQLITE_PATH", "job-apply.sqlite")
	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")

	cfg.Relay.Mode = strings.ToLower(env("RELAY_MODE", RelayInProcess))
	cfg.Relay.Workers = envInt("RELAY_WORKERS", 4, &invalid)
	cfg.Relay.Buffer = envInt("RELAY_BUFFER", 100, &invalid)

	cfg.Workable.Subdomain = env("WORKABLE_SUBDOMAIN", "case-consulting")
	cfg.Workable.BaseURL = os.Getenv("WORKABLE_BASE_URL")
	cfg.Workable.MemberID = env("WORKABLE_MEMBER_ID", "191bc0")
	cfg.Workable.TokenSecret = env("WORKABLE_TOKEN_SECRET", "workable-access-token")
	cfg.Workable.CommentDelay = envDuration("WORKABLE_COMMENT_DELAY", 10*time.Second, &invalid)
	cfg.Workable.RequestsPerSecond = envFloat("WORKABLE_REQUESTS_PER_SECOND", 1, &invalid)

	cfg.Secrets.Provider = strings.ToLower(env("SECRETS_PROVIDER", SecretsEnv))
	cfg.Secrets.GCPProject = os.Getenv("GCP_PROJECT")

	cfg.Upload.Bucket = os.Getenv("UPLOAD_BUCKET")
	cfg.Upload.Expires = envDuration("UPLOAD_EXPIRES", 180*time.Second, &invalid)
	cfg.Upload.AllowedContentTypes = envList("UPLOAD_ALLOWED_CONTENT_TYPES")
	cfg.Upload.ResumeBaseURL = os.Getenv("RESUME_BASE_URL")
	if cfg.Upload.ResumeBaseURL == "" && cfg.Upload.Bucket != "" {
		cfg.Upload.ResumeBaseURL = "https://storage.googleapis.com/" + cfg.Upload.Bucket
	}

	cfg.Email.Source = os.Getenv("EMAIL_SOURCE")
	cfg.Email.FailureDestinations = envList("EMAIL_FAILURE_DESTINATIONS")
	cfg.Email.AnnounceDestinations = envList("EMAIL_ANNOUNCE_DESTINATIONS")
	cfg.Email.GmailCredentialsPath = os.Getenv("GMAIL_CREDENTIALS_PATH")

	cfg.Sheets.CredentialsPath = os.Getenv("SHEETS_CREDENTIALS_PATH")
	cfg.Sheets.SpreadsheetID = os.Getenv("SHEETS_SPREADSHEET_ID")
	cfg.Sheets.Tab = env("SHEETS_TAB", "Applications")

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	var missingVars []string

	switch cfg.Store.Driver {
	case StoreMemory, StoreSQLite:
	case StoreNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	case StorePostgres:
		if cfg.Store.DatabaseURL == "" {
			missingVars = append(missingVars, "DATABASE_URL")
		}
	default:
		return cfg, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}

	switch cfg.Relay.Mode {
	case RelayInProcess, RelayExternal:
	default:
		return cfg, fmt.Errorf("unsupported RELAY_MODE %q", cfg.Relay.Mode)
	}

	switch cfg.Secrets.Provider {
	case SecretsEnv:
	case SecretsGCP:
		if cfg.Secrets.GCPProject == "" {
			missingVars = append(missingVars, "GCP_PROJECT")
		}
	default:
		return cfg, fmt.Errorf("unsupported SECRETS_PROVIDER %q", cfg.Secrets.Provider)
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, invalid *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		*invalid = append(*invalid, key)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64, invalid *[]string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		*invalid = append(*invalid, key)
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration, invalid *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		*invalid = append(*invalid, key)
		return fallback
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
