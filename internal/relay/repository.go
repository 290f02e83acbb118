package relay

import (
	"context"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/repository"
	"github.com/caseconsulting/job-apply/pkg/logging"
)

// Publisher accepts newly stored records
type Publisher interface {
	Publish(ctx context.Context, rec domain.Record) error
}

// Ensure Repository implements repository.ApplicationRepository
var _ repository.ApplicationRepository = (*Repository)(nil)

// Repository publishes every successfully stored record. A publish failure
// is logged and does not fail the write.
type Repository struct {
	next   repository.ApplicationRepository
	pub    Publisher
	logger *logging.Logger
}

func NewRepository(next repository.ApplicationRepository, pub Publisher, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Repository{next: next, pub: pub, logger: logger.Named("relay")}
}

func (r *Repository) Put(ctx context.Context, id string, rec domain.Record) error {
	if err := r.next.Put(ctx, id, rec); err != nil {
		return err
	}

	stored := rec.Clone()
	stored[domain.FieldID] = id
	if err := r.pub.Publish(ctx, stored); err != nil {
		r.logger.Error("failed to relay stored application", "id", id, "err", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Record, error) {
	return r.next.Get(ctx, id)
}
