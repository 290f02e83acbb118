package main

import (
	"context"
	"log"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/caseconsulting/job-apply/internal/app"
	"github.com/caseconsulting/job-apply/internal/config"
	"github.com/caseconsulting/job-apply/pkg/logging"
	"github.com/caseconsulting/job-apply/pkg/shutdown"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logOpts := []logging.Option{logging.WithFields(map[string]any{"environment": cfg.Environment})}
	if cfg.Environment != config.ProdEnvironment {
		logOpts = append(logOpts, logging.WithConsole())
	}
	logger := logging.New(cfg.LogLevel, logOpts...)
	defer func() { _ = logger.Sync() }()

	a, cleanup, err := app.Initialize(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "err", err)
		os.Exit(1)
	}
	a.Start()

	// HTTP first so no new records reach the relay while it drains
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			10*time.Second,
			logger,
			a.Server,
			shutdown.StopFunc(a.DrainRelay),
			shutdown.StopFunc(func(context.Context) error { cleanup(); return nil }),
		)
	}()

	logger.Info("intake service starting",
		"addr", net.JoinHostPort(cfg.Host, cfg.Port),
		"environment", cfg.Environment,
		"sync_enabled", cfg.SyncEnabled(),
		"store", cfg.Store.Driver,
		"relay", cfg.Relay.Mode,
	)

	if err := a.Server.Run(); err != nil {
		logger.Error("HTTP server exited with error", "err", err)
		cleanup()
		os.Exit(1)
	}

	<-stopped
	logger.Info("intake service stopped")
}
