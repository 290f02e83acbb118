package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/repository"
)

// Ensure ApplicationRepository implements repository.ApplicationRepository
var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)

// ApplicationRepository stores the flattened record as a JSON document keyed
// by id
type ApplicationRepository struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

func NewApplicationRepository(db *sql.DB, driver string) *ApplicationRepository {
	return &ApplicationRepository{db: db, driver: driver, now: time.Now}
}

const schema = `
CREATE TABLE IF NOT EXISTS job_applications (
	id TEXT PRIMARY KEY,
	record TEXT NOT NULL,
	submitted_at TEXT,
	updated_at TEXT NOT NULL
);`

// Migrate creates the applications table
func (r *ApplicationRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sql: migrate: %w", err)
	}
	return nil
}

// Put upserts the record under id
func (r *ApplicationRepository) Put(ctx context.Context, id string, rec domain.Record) error {
	stored := rec.Clone()
	stored[domain.FieldID] = id

	doc, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("sql: encode application %s: %w", id, err)
	}

	query := rebind(r.driver, `
		INSERT INTO job_applications (id, record, submitted_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			record = excluded.record,
			submitted_at = excluded.submitted_at,
			updated_at = excluded.updated_at`)

	_, err = r.db.ExecContext(ctx, query,
		id,
		string(doc),
		stored.Get(domain.FieldSubmittedAt),
		r.now().UTC().Format(domain.TimestampLayout),
	)
	if err != nil {
		return fmt.Errorf("sql: put application %s: %w", id, err)
	}
	return nil
}

// Get loads the record stored under id
func (r *ApplicationRepository) Get(ctx context.Context, id string) (domain.Record, error) {
	var doc string
	row := r.db.QueryRowContext(ctx, rebind(r.driver, `SELECT record FROM job_applications WHERE id = ?`), id)
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("sql: get application %s: %w", id, err)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("sql: decode application %s: %w", id, err)
	}
	return rec, nil
}
