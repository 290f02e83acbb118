// Package app assembles the intake service from configuration.
package app

import (
	"context"

	"github.com/caseconsulting/job-apply/internal/api"
	"github.com/caseconsulting/job-apply/internal/config"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/internal/relay"
	"github.com/caseconsulting/job-apply/internal/repository"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

// App is the running service
type App struct {
	Config       config.Config
	Logger       *logging.Logger
	Server       *api.Server
	Relay        *relay.Topic
	Store        repository.ApplicationRepository
	Synchronizer *ats.Synchronizer
}

func newApp(
	cfg config.Config,
	logger *logging.Logger,
	server *api.Server,
	topic *relay.Topic,
	store repository.ApplicationRepository,
	sync *ats.Synchronizer,
) *App {
	return &App{
		Config:       cfg,
		Logger:       logger,
		Server:       server,
		Relay:        topic,
		Store:        store,
		Synchronizer: sync,
	}
}

// Start launches background workers. Run the HTTP server separately.
func (a *App) Start() {
	a.Relay.Start()
}

// DrainRelay stops accepting relayed records and waits for queued deliveries
func (a *App) DrainRelay(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.Relay.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		a.Logger.Warn("relay drain interrupted", "err", ctx.Err())
		return ctx.Err()
	}
}
