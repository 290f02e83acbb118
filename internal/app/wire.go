//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/caseconsulting/job-apply/internal/api"
	"github.com/caseconsulting/job-apply/internal/config"
	"github.com/caseconsulting/job-apply/internal/domain/ats"
	"github.com/caseconsulting/job-apply/internal/notify"
	"github.com/caseconsulting/job-apply/pkg/logging"
	"github.com/caseconsulting/job-apply/pkg/workable"
)

// Initialize builds the App with every dependency wired up
func Initialize(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, func(), error) {
	wire.Build(
		// Persistence
		provideStore,

		// Workable
		provideSecretStore,
		provideWorkableConfig,
		workable.NewClient,
		wire.Bind(new(ats.Client), new(*workable.Client)),

		// Notifications
		provideMailer,
		provideFailureNotifier,
		wire.Bind(new(ats.FailureNotifier), new(*notify.FailureNotifier)),
		provideAnnouncer,

		// Synchronization
		provideSyncSettings,
		ats.NewSynchronizerWithDeps,
		provideRoster,
		provideTopic,

		// Intake and HTTP
		provideIntake,
		provideUploader,
		provideMCPServer,
		provideHandler,
		api.NewServer,

		newApp,
	)

	return nil, nil, nil
}

// InitializeSynchronizer builds only the Workable synchronizer and its
// failure notifier, for running one attempt outside the server
func InitializeSynchronizer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*ats.Synchronizer, error) {
	wire.Build(
		provideSecretStore,
		provideWorkableConfig,
		workable.NewClient,
		wire.Bind(new(ats.Client), new(*workable.Client)),
		provideMailer,
		provideFailureNotifier,
		wire.Bind(new(ats.FailureNotifier), new(*notify.FailureNotifier)),
		provideSyncSettings,
		ats.NewSynchronizerWithDeps,
	)

	return nil, nil
}
