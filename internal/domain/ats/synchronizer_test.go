package ats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/pkg/workable"
)

type fakeSecrets struct {
	token string
	err   error
	names []string
}

func (f *fakeSecrets) Secret(_ context.Context, name string) (string, error) {
	f.names = append(f.names, name)
	return f.token, f.err
}

type fakeClient struct {
	mu           sync.Mutex
	candidateErr error
	commentErr   error
	candidates   []createCall
	comments     []commentCall
}

type createCall struct {
	token     string
	shortcode string
	candidate workable.Candidate
}

type commentCall struct {
	token       string
	candidateID string
	comment     workable.Comment
}

func (f *fakeClient) CreateCandidate(_ context.Context, token, shortcode string, c workable.Candidate) (workable.CreatedCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates = append(f.candidates, createCall{token, shortcode, c})
	if f.candidateErr != nil {
		return workable.CreatedCandidate{}, f.candidateErr
	}
	return workable.CreatedCandidate{ID: "cand-1"}, nil
}

func (f *fakeClient) CreateComment(_ context.Context, token, candidateID string, c workable.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, commentCall{token, candidateID, c})
	return f.commentErr
}

type notification struct {
	err error
	rec domain.Record
}

type fakeNotifier struct {
	calls []notification
}

func (f *fakeNotifier) Notify(_ context.Context, err error, rec domain.Record) {
	f.calls = append(f.calls, notification{err, rec})
}

type syncFixture struct {
	secrets  *fakeSecrets
	client   *fakeClient
	notifier *fakeNotifier
	waits    []time.Duration
	sync     *Synchronizer
}

func newSyncFixture(t *testing.T, opts ...Option) *syncFixture {
	t.Helper()
	f := &syncFixture{
		secrets:  &fakeSecrets{token: "tok"},
		client:   &fakeClient{},
		notifier: &fakeNotifier{},
	}
	base := []Option{
		WithSecretStore(f.secrets),
		WithClient(f.client),
		WithNotifier(f.notifier),
		WithBuilder(Builder{ResumeBaseURL: "https://b", MemberID: "191bc0"}),
		WithWait(func(_ context.Context, d time.Duration) error {
			f.waits = append(f.waits, d)
			return nil
		}),
	}
	s, err := NewSynchronizer(append(base, opts...)...)
	require.NoError(t, err)
	f.sync = s
	return f
}

func TestNewSynchronizerRequiresDeps(t *testing.T) {
	_, err := NewSynchronizer(WithClient(&fakeClient{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret store is required")

	_, err = NewSynchronizer(WithSecretStore(&fakeSecrets{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client is required")
}

func TestSyncSuccess(t *testing.T) {
	f := newSyncFixture(t)
	rec := testRecord()

	res := f.sync.Sync(context.Background(), rec)

	require.True(t, res.OK())
	assert.Equal(t, StateCommentCreated, res.State)
	assert.Equal(t, "cand-1", res.CandidateID)
	assert.Equal(t, "0F032F1935", res.Shortcode)
	assert.NoError(t, res.Err)

	assert.Equal(t, []string{DefaultTokenSecretName}, f.secrets.names)
	require.Len(t, f.client.candidates, 1)
	assert.Equal(t, "tok", f.client.candidates[0].token)
	assert.Equal(t, "0F032F1935", f.client.candidates[0].shortcode)
	assert.Equal(t, "Jane", f.client.candidates[0].candidate.Firstname)

	require.Len(t, f.client.comments, 1)
	assert.Equal(t, "cand-1", f.client.comments[0].candidateID)
	assert.Equal(t, "191bc0", f.client.comments[0].comment.MemberID)

	assert.Equal(t, []time.Duration{DefaultCommentDelay}, f.waits)
	assert.Empty(t, f.notifier.calls)
}

func TestSyncCustomDelayAndSecret(t *testing.T) {
	f := newSyncFixture(t, WithCommentDelay(time.Second), WithTokenSecret("other"))

	res := f.sync.Sync(context.Background(), testRecord())

	require.True(t, res.OK())
	assert.Equal(t, []time.Duration{time.Second}, f.waits)
	assert.Equal(t, []string{"other"}, f.secrets.names)
}

func TestSyncTokenFailure(t *testing.T) {
	f := newSyncFixture(t)
	f.secrets.err = errors.New("denied")
	rec := testRecord()

	res := f.sync.Sync(context.Background(), rec)

	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, StateReceived, res.FailedAt)
	assert.ErrorContains(t, res.Err, "denied")
	assert.Empty(t, f.client.candidates)
	assert.Empty(t, f.client.comments)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, rec, f.notifier.calls[0].rec)
}

func TestSyncCandidateFailure(t *testing.T) {
	f := newSyncFixture(t)
	f.client.candidateErr = &workable.APIError{StatusCode: 422, Body: "bad email"}
	rec := testRecord()

	res := f.sync.Sync(context.Background(), rec)

	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, StateTokenFetched, res.FailedAt)
	var apiErr *workable.APIError
	require.ErrorAs(t, res.Err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)

	assert.Len(t, f.client.candidates, 1)
	assert.Empty(t, f.client.comments)
	assert.Empty(t, f.waits)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, rec, f.notifier.calls[0].rec)
	assert.ErrorIs(t, f.notifier.calls[0].err, res.Err)
}

func TestSyncCommentFailure(t *testing.T) {
	f := newSyncFixture(t)
	f.client.commentErr = errors.New("boom")

	res := f.sync.Sync(context.Background(), testRecord())

	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, StateCommentScheduled, res.FailedAt)
	assert.Equal(t, "cand-1", res.CandidateID)
	assert.Len(t, f.client.comments, 1)
	assert.Len(t, f.notifier.calls, 1)
}

func TestSyncWaitFailure(t *testing.T) {
	f := newSyncFixture(t, WithWait(func(context.Context, time.Duration) error {
		return context.DeadlineExceeded
	}))

	res := f.sync.Sync(context.Background(), testRecord())

	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, StateCommentScheduled, res.FailedAt)
	assert.Empty(t, f.client.comments)
	assert.Len(t, f.notifier.calls, 1)
}

func TestSyncDisabledSkips(t *testing.T) {
	f := newSyncFixture(t, WithEnabled(false))

	res := f.sync.Sync(context.Background(), testRecord())

	assert.True(t, res.OK())
	assert.Equal(t, StateSkipped, res.State)
	assert.Empty(t, f.secrets.names)
	assert.Empty(t, f.client.candidates)
	assert.Empty(t, f.notifier.calls)
}

func TestSyncIgnoresCallerCancellation(t *testing.T) {
	f := newSyncFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.sync.Sync(ctx, testRecord())

	assert.Equal(t, StateCommentCreated, res.State)
}

func TestDeliverRunsSync(t *testing.T) {
	f := newSyncFixture(t)

	f.sync.Deliver(context.Background(), testRecord())

	assert.Equal(t, "ats-sync", f.sync.Name())
	assert.Len(t, f.client.candidates, 1)
	assert.Len(t, f.client.comments, 1)
}

func TestSleepHonoursContext(t *testing.T) {
	assert.NoError(t, sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}
