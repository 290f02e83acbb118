package memory

import (
	"context"
	"sync"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/repository"
)

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)

// ApplicationRepository keeps records in process memory
type ApplicationRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewApplicationRepository creates an empty repository
func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{records: make(map[string]domain.Record)}
}

// Put overwrites the record for id
func (r *ApplicationRepository) Put(_ context.Context, id string, rec domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[id] = rec.Clone()
	return nil
}

// Get returns a copy of the record for id
func (r *ApplicationRepository) Get(_ context.Context, id string) (domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec.Clone(), nil
}

// Len reports how many records are stored
func (r *ApplicationRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
