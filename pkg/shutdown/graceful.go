package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/caseconsulting/job-apply/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// StopFunc adapts a function to Stoppable
type StopFunc func(ctx context.Context) error

func (f StopFunc) Shutdown(ctx context.Context) error { return f(ctx) }

// Graceful blocks until one of signals arrives, then stops each Stoppable
// in order within timeout
func Graceful(signals []os.Signal, timeout time.Duration, log *logging.Logger, stops ...Stoppable) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	if err := Stop(timeout, log, stops...); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
	} else {
		log.Info("graceful shutdown completed successfully")
	}
}

// Stop shuts down each Stoppable in order, sharing one deadline. Every
// Stoppable is attempted even if an earlier one fails.
func Stop(timeout time.Duration, log *logging.Logger, stops ...Stoppable) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for i, s := range stops {
		if err := s.Shutdown(ctx); err != nil {
			log.Warn("shutdown step failed", "step", i, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
