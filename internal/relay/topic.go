// Package relay delivers newly stored applications to asynchronous
// subscribers.
package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

const (
	DefaultWorkers = 4
	DefaultBuffer  = 100
)

// ErrClosed is returned by Publish after Close
var ErrClosed = errors.New("relay: topic closed")

// Subscriber handles one delivered record. Deliver must not block forever;
// failures are the subscriber's own to report.
type Subscriber interface {
	Name() string
	Deliver(ctx context.Context, rec domain.Record)
}

// Config sizes the worker pool
type Config struct {
	Workers int
	Buffer  int
}

type delivery struct {
	ctx context.Context
	sub Subscriber
	rec domain.Record
}

// Topic fans each published record out to every subscriber on a pool of
// workers. Delivery is at-least-once per Publish call with no deduplication.
type Topic struct {
	subs    []Subscriber
	workers int
	ch      chan delivery
	logger  *logging.Logger

	// done is closed first on Close so blocked publishers release the lock
	done     chan struct{}
	doneOnce sync.Once

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewTopic(cfg Config, logger *logging.Logger, subs ...Subscriber) *Topic {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Topic{
		subs:    subs,
		workers: cfg.Workers,
		ch:      make(chan delivery, cfg.Buffer),
		done:    make(chan struct{}),
		logger:  logger.Named("relay"),
	}
}

// Subscribers returns the names of the registered subscribers
func (t *Topic) Subscribers() []string {
	names := make([]string, 0, len(t.subs))
	for _, s := range t.subs {
		names = append(names, s.Name())
	}
	return names
}

// Start launches the workers. It is a no-op after the first call.
func (t *Topic) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.closed {
		return
	}
	t.started = true

	for range t.workers {
		t.wg.Add(1)
		go t.worker()
	}
	t.logger.Info("relay started", "workers", t.workers, "subscribers", t.Subscribers())
}

// Publish enqueues rec for every subscriber. It blocks until each delivery is
// queued or ctx is done. Deliveries run detached from ctx cancellation.
func (t *Topic) Publish(ctx context.Context, rec domain.Record) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return ErrClosed
	}

	detached := context.WithoutCancel(ctx)
	for _, sub := range t.subs {
		d := delivery{ctx: detached, sub: sub, rec: rec.Clone()}
		select {
		case t.ch <- d:
			queueDepth.Set(float64(len(t.ch)))
		case <-ctx.Done():
			deliveriesTotal.WithLabelValues(sub.Name(), "dropped").Inc()
			return fmt.Errorf("relay: publish %s to %s: %w", rec.ID(), sub.Name(), ctx.Err())
		case <-t.done:
			deliveriesTotal.WithLabelValues(sub.Name(), "dropped").Inc()
			return ErrClosed
		}
	}
	return nil
}

// Close stops accepting records and waits for queued deliveries to finish
func (t *Topic) Close() {
	t.doneOnce.Do(func() { close(t.done) })

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.ch)
	started := t.started
	t.mu.Unlock()

	if !started {
		// Nothing will drain the queue; deliver inline.
		for d := range t.ch {
			t.deliver(d)
		}
		return
	}
	t.wg.Wait()
	t.logger.Info("relay drained")
}

func (t *Topic) worker() {
	defer t.wg.Done()
	for d := range t.ch {
		queueDepth.Set(float64(len(t.ch)))
		t.deliver(d)
	}
}

func (t *Topic) deliver(d delivery) {
	name := d.sub.Name()
	defer func() {
		if r := recover(); r != nil {
			deliveriesTotal.WithLabelValues(name, "panic").Inc()
			t.logger.Error("subscriber panicked", "subscriber", name, "id", d.rec.ID(), "panic", r)
		}
	}()

	d.sub.Deliver(d.ctx, d.rec)
	deliveriesTotal.WithLabelValues(name, "delivered").Inc()
}
