package repository

import (
	"context"
	"errors"

	"github.com/caseconsulting/job-apply/internal/domain"
)

// ErrNotFound is returned by Get when no record exists for the id
var ErrNotFound = errors.New("application not found")

// ApplicationRepository is the persistence gateway for stored applications
type ApplicationRepository interface {
	// Put overwrites the record stored under id
	Put(ctx context.Context, id string, rec domain.Record) error

	// Get loads the record stored under id
	Get(ctx context.Context, id string) (domain.Record, error)
}
