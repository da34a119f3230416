package store

import (
	"context"
	"fmt"
	"time"

	"jobsweep/internal/domain"

	"github.com/google/uuid"
)

// MarkSeen records the posting id and reports whether it was new. Postings
// without an id are always treated as new.
func (d *DB) MarkSeen(ctx context.Context, j domain.JobPosting) (bool, error) {
	if j.ID == "" {
		return true, nil
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO seen_jobs(source_id, company, title, first_seen)
VALUES(?,?,?,?);`,
		j.ID, j.Company, j.Title, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// FilterNew drops postings whose ids were recorded by a previous run, marking
// the survivors seen. Order is preserved.
func (d *DB) FilterNew(ctx context.Context, jobs []domain.JobPosting) ([]domain.JobPosting, error) {
	out := make([]domain.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		added, err := d.MarkSeen(ctx, j)
		if err != nil {
			return nil, err
		}
		if added {
			out = append(out, j)
		}
	}
	return out, nil
}

// RecordRun logs one completed run and returns its id.
func (d *DB) RecordRun(ctx context.Context, startedAt time.Time, query string, added int) (string, error) {
	id := uuid.NewString()
	_, err := d.Pool.ExecContext(ctx, `
INSERT INTO runs(id, started_at, query, added)
VALUES(?,?,?,?);`,
		id, startedAt.UTC().Format(time.RFC3339), query, added,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}
