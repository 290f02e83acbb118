package ats

import (
	"context"
	"fmt"
	"time"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/pkg/logging"
	"github.com/caseconsulting/job-apply/pkg/workable"
)

// State is a step of one synchronization attempt
type State string

const (
	StateReceived         State = "received"
	StateTokenFetched     State = "token_fetched"
	StateCandidateCreated State = "candidate_created"
	StateCommentScheduled State = "comment_scheduled"
	StateCommentCreated   State = "comment_created"
	StateFailed           State = "failed"
	// StateSkipped is reported when synchronization is disabled for the
	// environment. It counts as success.
	StateSkipped State = "skipped"
)

const (
	DefaultCommentDelay    = 10 * time.Second
	DefaultTokenSecretName = "workable-access-token"
)

// SecretStore resolves named secrets
type SecretStore interface {
	Secret(ctx context.Context, name string) (string, error)
}

// Client is the subset of the Workable API the synchronizer calls
type Client interface {
	CreateCandidate(ctx context.Context, token, shortcode string, c workable.Candidate) (workable.CreatedCandidate, error)
	CreateComment(ctx context.Context, token, candidateID string, c workable.Comment) error
}

// FailureNotifier reports a failed attempt. It must not fail itself.
type FailureNotifier interface {
	Notify(ctx context.Context, err error, rec domain.Record)
}

// Result describes how an attempt ended. It is for logging and operator
// tooling only; nothing upstream waits on it.
type Result struct {
	State       State
	FailedAt    State
	Shortcode   string
	CandidateID string
	Err         error
}

// OK reports whether the attempt ended in a success state
func (r Result) OK() bool {
	return r.State == StateCommentCreated || r.State == StateSkipped
}

// Option configures Synchronizer
type Option func(*Synchronizer)

// WithSecretStore sets where the Workable token is read from
func WithSecretStore(s SecretStore) Option {
	return func(sy *Synchronizer) { sy.secrets = s }
}

// WithClient sets the Workable client
func WithClient(c Client) Option {
	return func(sy *Synchronizer) { sy.client = c }
}

// WithNotifier sets the failure notifier
func WithNotifier(n FailureNotifier) Option {
	return func(sy *Synchronizer) { sy.notifier = n }
}

// WithBuilder sets the candidate builder
func WithBuilder(b Builder) Option {
	return func(sy *Synchronizer) { sy.builder = b }
}

// WithCommentDelay sets how long to wait between candidate and comment creation
func WithCommentDelay(d time.Duration) Option {
	return func(sy *Synchronizer) { sy.commentDelay = d }
}

// WithTokenSecret sets the secret name holding the Workable token
func WithTokenSecret(name string) Option {
	return func(sy *Synchronizer) { sy.tokenSecret = name }
}

// WithEnabled turns synchronization on or off for this deployment
func WithEnabled(enabled bool) Option {
	return func(sy *Synchronizer) { sy.enabled = enabled }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(sy *Synchronizer) { sy.logger = l }
}

// WithWait replaces the blocking wait before the comment call
func WithWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(sy *Synchronizer) { sy.wait = wait }
}

// Synchronizer pushes stored applications into Workable
type Synchronizer struct {
	secrets      SecretStore
	client       Client
	notifier     FailureNotifier
	builder      Builder
	commentDelay time.Duration
	tokenSecret  string
	enabled      bool
	logger       *logging.Logger
	wait         func(ctx context.Context, d time.Duration) error
}

// NewSynchronizer builds a Synchronizer from options
func NewSynchronizer(opts ...Option) (*Synchronizer, error) {
	sy := &Synchronizer{
		commentDelay: DefaultCommentDelay,
		tokenSecret:  DefaultTokenSecretName,
		enabled:      true,
		logger:       logging.NewNop(),
		wait:         sleep,
		notifier:     nopNotifier{},
	}
	for _, opt := range opts {
		opt(sy)
	}

	if sy.secrets == nil {
		return nil, fmt.Errorf("ats.Synchronizer: secret store is required")
	}
	if sy.client == nil {
		return nil, fmt.Errorf("ats.Synchronizer: client is required")
	}
	if sy.notifier == nil {
		sy.notifier = nopNotifier{}
	}
	if sy.logger == nil {
		sy.logger = logging.NewNop()
	}

	return sy, nil
}

// Settings are the non-dependency knobs of a Synchronizer
type Settings struct {
	Enabled      bool
	CommentDelay time.Duration
	TokenSecret  string
	Builder      Builder
}

// NewSynchronizerWithDeps creates a Synchronizer with direct dependencies (Wire-compatible)
func NewSynchronizerWithDeps(
	settings Settings,
	secrets SecretStore,
	client Client,
	notifier FailureNotifier,
	logger *logging.Logger,
) (*Synchronizer, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	opts := []Option{
		WithEnabled(settings.Enabled),
		WithBuilder(settings.Builder),
		WithSecretStore(secrets),
		WithClient(client),
		WithNotifier(notifier),
		WithLogger(logger.Named("ats-sync")),
	}
	if settings.CommentDelay > 0 {
		opts = append(opts, WithCommentDelay(settings.CommentDelay))
	}
	if settings.TokenSecret != "" {
		opts = append(opts, WithTokenSecret(settings.TokenSecret))
	}
	return NewSynchronizer(opts...)
}

// Name identifies the synchronizer as a relay subscriber
func (s *Synchronizer) Name() string { return "ats-sync" }

// Deliver runs one attempt for a relayed record and discards the result
func (s *Synchronizer) Deliver(ctx context.Context, rec domain.Record) {
	_ = s.Sync(ctx, rec)
}

// Sync runs one synchronization attempt to a terminal state. Cancellation of
// ctx does not interrupt an attempt once started. Failures are reported
// through the notifier and returned in the Result, never as a panic or error.
func (s *Synchronizer) Sync(ctx context.Context, rec domain.Record) Result {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	log := s.logger.With("id", rec.ID())

	res := s.run(ctx, log, rec)

	syncTotal.WithLabelValues(string(res.State)).Inc()
	syncDuration.WithLabelValues(string(res.State)).Observe(time.Since(start).Seconds())

	if res.State == StateFailed {
		log.Error("workable sync failed", "state", res.FailedAt, "err", res.Err)
		s.notifier.Notify(ctx, res.Err, rec)
	}

	return res
}

func (s *Synchronizer) run(ctx context.Context, log *logging.Logger, rec domain.Record) Result {
	if !s.enabled {
		log.Info("workable sync disabled for this environment")
		return Result{State: StateSkipped}
	}

	res := Result{State: StateReceived}
	fail := func(err error) Result {
		res.FailedAt = res.State
		res.State = StateFailed
		res.Err = err
		return res
	}

	token, err := s.secrets.Secret(ctx, s.tokenSecret)
	if err != nil {
		return fail(fmt.Errorf("fetch workable token: %w", err))
	}
	res.State = StateTokenFetched
	log.Info("retrieved workable access token")

	candidate, comment := s.builder.Build(rec)
	res.Shortcode = ShortcodeFor(rec)

	created, err := s.client.CreateCandidate(ctx, token, res.Shortcode, candidate)
	if err != nil {
		return fail(fmt.Errorf("create candidate for job %s: %w", res.Shortcode, err))
	}
	res.State = StateCandidateCreated
	res.CandidateID = created.ID
	log.Info("created workable candidate", "candidate_id", created.ID, "shortcode", res.Shortcode)

	res.State = StateCommentScheduled
	if err := s.wait(ctx, s.commentDelay); err != nil {
		return fail(fmt.Errorf("wait before comment: %w", err))
	}

	if err := s.client.CreateComment(ctx, token, created.ID, comment); err != nil {
		return fail(fmt.Errorf("create comment for candidate %s: %w", created.ID, err))
	}
	res.State = StateCommentCreated
	log.Info("created workable comment", "candidate_id", created.ID)

	return res
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, error, domain.Record) {}
