package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"video-insight/internal/domain"
	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/repository"
)

var _ repository.AnalysisJobRepository = (*analysisJobRepo)(nil)

type analysisJobRepo struct {
	pool *pgxpool.Pool
}

func NewAnalysisJobRepo(pool *pgxpool.Pool) *analysisJobRepo {
	return &analysisJobRepo{pool: pool}
}

const jobColumns = `id, user_id, video_reference, status, results, error_message, created_at, updated_at`

func (r *analysisJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.AnalysisJob) error {
	job.UpdatedAt = time.Now()

	var results []byte
	if job.Results != nil {
		b, err := json.Marshal(job.Results)
		if err != nil {
			return err
		}
		results = b
	}

	const q = `
INSERT INTO analysis_jobs (id, user_id, video_reference, status, results, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  results = EXCLUDED.results,
  error_message = EXCLUDED.error_message,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		job.ID, job.UserID, job.VideoReference, job.Status, results, job.Error, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *analysisJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+jobColumns+` FROM analysis_jobs WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *analysisJobRepo) FindAllByUser(ctx context.Context, userID string, offset, limit int) ([]*model.AnalysisJob, error) {
	const q = `
SELECT ` + jobColumns + `
FROM analysis_jobs
WHERE user_id = $1
ORDER BY created_at DESC
OFFSET $2 LIMIT $3;`

	rows, err := pickRows(ctx, r.pool, nil, q, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*model.AnalysisJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CompareAndSetStatus is the claim primitive: a single conditional UPDATE, so
// two concurrent claimants can never both see rows_affected = 1.
func (r *analysisJobRepo) CompareAndSetStatus(ctx context.Context, id string, expected, next model.AnalysisStatus) (bool, error) {
	const q = `
UPDATE analysis_jobs
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2;`

	tag, err := execSQL(ctx, r.pool, nil, q, id, expected, next)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *analysisJobRepo) MarkCompleted(ctx context.Context, id string, results *model.AnalysisResults) error {
	b, err := json.Marshal(results)
	if err != nil {
		return err
	}

	const q = `
UPDATE analysis_jobs
SET status = $2, results = $3, error_message = '', updated_at = now()
WHERE id = $1;`

	tag, err := execSQL(ctx, r.pool, nil, q, id, model.AnalysisStatusCompleted, b)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *analysisJobRepo) MarkFailed(ctx context.Context, id string, message string) error {
	const q = `
UPDATE analysis_jobs
SET status = $2, results = NULL, error_message = $3, updated_at = now()
WHERE id = $1;`

	tag, err := execSQL(ctx, r.pool, nil, q, id, model.AnalysisStatusFailed, message)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *analysisJobRepo) FindStaleQueued(ctx context.Context, olderThan time.Duration, limit int) ([]string, error) {
	const q = `
SELECT id
FROM analysis_jobs
WHERE status = $1 AND updated_at < $2
ORDER BY created_at
LIMIT $3;`

	rows, err := pickRows(ctx, r.pool, nil, q, model.AnalysisStatusQueued, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	var statusStr string
	var results []byte
	err := row.Scan(
		&job.ID, &job.UserID, &job.VideoReference, &statusStr,
		&results, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	job.Status = model.AnalysisStatus(statusStr)
	if len(results) > 0 {
		var res model.AnalysisResults
		if err := json.Unmarshal(results, &res); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		job.Results = &res
	}
	return &job, nil
}
