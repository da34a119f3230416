package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jobsweep/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestFilterNewAcrossRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	batch := []domain.JobPosting{
		{ID: "1", Title: "A", Company: "Example Co"},
		{ID: "2", Title: "B", Company: "Example Co"},
	}

	first, err := db.FilterNew(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// second run sees one repeat and one new posting
	second, err := db.FilterNew(ctx, []domain.JobPosting{
		{ID: "2", Title: "B", Company: "Example Co"},
		{ID: "3", Title: "C", Company: "Example Co"},
	})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "3", second[0].ID)
}

func TestFilterNewKeepsPostingsWithoutID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	batch := []domain.JobPosting{{Title: "No ID"}}

	out, err := db.FilterNew(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = db.FilterNew(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, out, 1, "postings without an id are never filtered")
}

func TestRecordRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.RecordRun(ctx, time.Now(), "company=Example Co", 7)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var added int
	require.NoError(t, db.Pool.QueryRowContext(ctx,
		`SELECT added FROM runs WHERE id = ?;`, id).Scan(&added))
	assert.Equal(t, 7, added)
}
