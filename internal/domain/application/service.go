package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseconsulting/job-apply/internal/repository"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

// Service accepts raw submissions, validates and stores them
type Service interface {
	Submit(ctx context.Context, s *Submission) (string, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	repo   repository.ApplicationRepository
	clock  func() time.Time
	newID  func() string
	logger *logging.Logger
}

// WithRepository sets the repository
func WithRepository(repo repository.ApplicationRepository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithIDGenerator replaces uuid generation
func WithIDGenerator(gen func() string) Option {
	return func(c *config) {
		c.newID = gen
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock:  time.Now,
		newID:  uuid.NewString,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("application.Service: repository is required")
	}

	return &service{
		repo:   cfg.repo,
		clock:  cfg.clock,
		newID:  cfg.newID,
		logger: cfg.logger,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(repo repository.ApplicationRepository, logger *logging.Logger) (Service, error) {
	return NewService(WithRepository(repo), WithLogger(logger.Named("intake")))
}

type service struct {
	repo   repository.ApplicationRepository
	clock  func() time.Time
	newID  func() string
	logger *logging.Logger
}

// Submit validates sub and stores it. Validation failures are returned as
// ValidationError and nothing is stored.
func (s *service) Submit(ctx context.Context, sub *Submission) (string, error) {
	app, err := Validate(sub, s.clock())
	if err != nil {
		return "", err
	}

	if app.ID == "" {
		app.ID = s.newID()
	}

	rec := app.Record()
	s.logger.Debug("storing application", "record", rec)

	if err := s.repo.Put(ctx, app.ID, rec); err != nil {
		return "", fmt.Errorf("application: store %s: %w", app.ID, err)
	}

	s.logger.Info("application stored", "id", app.ID)
	return app.ID, nil
}
