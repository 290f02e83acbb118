package sql

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseconsulting/job-apply/internal/domain"
	"github.com/caseconsulting/job-apply/internal/repository"
)

func newSQLiteRepo(t *testing.T) *ApplicationRepository {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "apply.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewApplicationRepository(db, DriverSQLite)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestPutGetRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	rec := domain.Record{
		domain.FieldFirstName:   "Jane",
		domain.FieldJobTitles:   "Software Developer,Other",
		domain.FieldSubmittedAt: "2024-03-01T12:00:00.000Z",
	}
	require.NoError(t, repo.Put(ctx, "abc", rec))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID())
	assert.Equal(t, "Jane", got.Get(domain.FieldFirstName))
	assert.Equal(t, []string{"Software Developer", "Other"}, got.List(domain.FieldJobTitles))
	assert.NotContains(t, rec, domain.FieldID)
}

func TestPutIsIdempotentAndOverwrites(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "abc", domain.Record{domain.FieldFirstName: "Jane", domain.FieldComments: "hi"}))
	require.NoError(t, repo.Put(ctx, "abc", domain.Record{domain.FieldFirstName: "Janet"}))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.Record{domain.FieldID: "abc", domain.FieldFirstName: "Janet"}, got)

	var n int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_applications`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestGetMissing(t *testing.T) {
	repo := newSQLiteRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y = ?"
	assert.Equal(t, q, rebind(DriverSQLite, q))
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", rebind(DriverPostgres, q))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)

	_, err = Open(context.Background(), DriverPostgres, "")
	require.Error(t, err)
}
