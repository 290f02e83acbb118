package app

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/caseconsulting/job-apply/internal/api"
	"github.com/caseconsulting/job-apply/internal/config"
	"github.com/caseconsulting/job-apply/internal/domain/application"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/internal/domain/upload"
	"github.com/caseconsulting/job-apply/internal/mcp"
	"github.com/caseconsulting/job-apply/internal/notify"
	"github.com/caseconsulting/job-apply/internal/relay"
	"github.com/caseconsulting/job-apply/internal/repository"
	"github.com/caseconsulting/job-apply/internal/roster"
	"github.com/caseconsulting/job-apply/internal/storage/memory"
	storageneo4j "github.com/caseconsulting/job-apply/internal/storage/neo4j"
	storagesql "github.com/caseconsulting/job-apply/internal/storage/sql"
	"github.com/caseconsulting/job-apply/pkg/gmail"
	"github.com/caseconsulting/job-apply/pkg/logging"
	n4j "github.com/caseconsulting/job-apply/pkg/neo4j"
	"github.com/caseconsulting/job-apply/pkg/secrets"
	"github.com/caseconsulting/job-apply/pkg/sheets"
	"github.com/caseconsulting/job-apply/pkg/uploads"
	"github.com/caseconsulting/job-apply/pkg/workable"
)

// provideStore opens the configured Persistence Gateway
func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.ApplicationRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreNeo4j:
		client, err := n4j.NewClient(ctx, n4j.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := storageneo4j.NewApplicationRepository(client)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, nil, err
		}
		logger.Info("Neo4j store initialized", "uri", cfg.Neo4j.URI)
		return repo, func() { _ = client.Close(context.Background()) }, nil

	case config.StorePostgres, config.StoreSQLite:
		dsn := cfg.Store.DatabaseURL
		if cfg.Store.Driver == config.StoreSQLite {
			dsn = cfg.Store.SQLitePath
		}
		db, err := storagesql.Open(ctx, cfg.Store.Driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		repo := storagesql.NewApplicationRepository(db, cfg.Store.Driver)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("SQL store initialized", "driver", cfg.Store.Driver)
		return repo, func() { _ = db.Close() }, nil

	default:
		logger.Warn("using in-memory store; applications are lost on restart")
		return memory.NewApplicationRepository(), func() {}, nil
	}
}

func provideSecretStore(ctx context.Context, cfg config.Config) (ats.SecretStore, error) {
	if cfg.Secrets.Provider == config.SecretsGCP {
		return secrets.NewGCPStore(ctx, secrets.GCPConfig{Project: cfg.Secrets.GCPProject})
	}
	return secrets.NewEnvStore(), nil
}

func provideWorkableConfig(cfg config.Config) workable.Config {
	return workable.Config{
		Subdomain:         cfg.Workable.Subdomain,
		BaseURL:           cfg.Workable.BaseURL,
		RequestsPerSecond: cfg.Workable.RequestsPerSecond,
	}
}

func provideMailer(ctx context.Context, cfg config.Config, logger *logging.Logger) (notify.Mailer, error) {
	if cfg.Email.GmailCredentialsPath == "" {
		return notify.NewLogMailer(logger), nil
	}
	client, err := gmail.NewClient(ctx, gmail.Config{
		CredentialsPath: cfg.Email.GmailCredentialsPath,
		Sender:          cfg.Email.Source,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideFailureNotifier(mailer notify.Mailer, cfg config.Config, logger *logging.Logger) *notify.FailureNotifier {
	return notify.NewFailureNotifier(mailer, notify.Addresses{
		Source:       cfg.Email.Source,
		Destinations: cfg.Email.FailureDestinations,
	}, cfg.Upload.ResumeBaseURL, logger)
}

func provideAnnouncer(mailer notify.Mailer, cfg config.Config, logger *logging.Logger) *notify.Announcer {
	return notify.NewAnnouncer(mailer, notify.Addresses{
		Source:       cfg.Email.Source,
		Destinations: cfg.Email.AnnounceDestinations,
	}, logger)
}

func provideSyncSettings(cfg config.Config) ats.Settings {
	return ats.Settings{
		Enabled:      cfg.SyncEnabled(),
		CommentDelay: cfg.Workable.CommentDelay,
		TokenSecret:  cfg.Workable.TokenSecret,
		Builder: ats.Builder{
			ResumeBaseURL: cfg.Upload.ResumeBaseURL,
			MemberID:      cfg.Workable.MemberID,
		},
	}
}

// provideRoster returns nil when no spreadsheet is configured
func provideRoster(ctx context.Context, cfg config.Config, logger *logging.Logger) (*roster.Subscriber, error) {
	if cfg.Sheets.CredentialsPath == "" || cfg.Sheets.SpreadsheetID == "" {
		logger.Info("roster disabled, Sheets settings not configured")
		return nil, nil
	}
	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	return roster.NewSubscriber(client, roster.Config{
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		Tab:           cfg.Sheets.Tab,
		ResumeBaseURL: cfg.Upload.ResumeBaseURL,
	}, logger), nil
}

func provideTopic(
	cfg config.Config,
	logger *logging.Logger,
	sync *ats.Synchronizer,
	announcer *notify.Announcer,
	rost *roster.Subscriber,
) *relay.Topic {
	subs := []relay.Subscriber{sync, announcer}
	if rost != nil {
		subs = append(subs, rost)
	}
	return relay.NewTopic(relay.Config{
		Workers: cfg.Relay.Workers,
		Buffer:  cfg.Relay.Buffer,
	}, logger, subs...)
}

// provideIntake decorates the store with the in-process relay unless records
// arrive from an external change stream
func provideIntake(
	cfg config.Config,
	store repository.ApplicationRepository,
	topic *relay.Topic,
	logger *logging.Logger,
) (application.Service, error) {
	repo := store
	if cfg.Relay.Mode == config.RelayInProcess {
		repo = relay.NewRepository(store, topic, logger)
	}
	return application.NewServiceWithDeps(repo, logger)
}

// provideUploader returns a nil Uploader when no bucket is configured
func provideUploader(ctx context.Context, cfg config.Config, logger *logging.Logger) (api.Uploader, func(), error) {
	if cfg.Upload.Bucket == "" {
		logger.Info("upload credentials disabled, UPLOAD_BUCKET not set")
		return nil, func() {}, nil
	}
	client, err := uploads.NewClient(ctx, uploads.Config{Bucket: cfg.Upload.Bucket})
	if err != nil {
		return nil, nil, err
	}
	svc, err := upload.NewService(client, cfg.Upload.AllowedContentTypes, cfg.Upload.Expires, logger)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return svc, func() { _ = client.Close() }, nil
}

func provideMCPServer(logger *logging.Logger, store repository.ApplicationRepository, sync *ats.Synchronizer) *sdkmcp.Server {
	return mcp.NewServer(logger, mcp.Resources{
		Applications: store,
		Synchronizer: sync,
	})
}

func provideHandler(
	cfg config.Config,
	intake application.Service,
	uploader api.Uploader,
	topic *relay.Topic,
	mcpServer *sdkmcp.Server,
	logger *logging.Logger,
) *api.Handler {
	opts := []api.HandlerOption{api.WithMCP(mcp.NewHandler(mcpServer))}
	if uploader != nil {
		opts = append(opts, api.WithUploader(uploader))
	}
	if cfg.Relay.Mode == config.RelayExternal {
		opts = append(opts, api.WithRelayIngress(topic))
	}
	return api.NewHandler(intake, cfg.AllowedOrigin(), logger, opts...)
}
