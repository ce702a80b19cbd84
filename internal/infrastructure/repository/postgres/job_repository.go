package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082904)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS upload_jobs (
	job_id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	filename TEXT NOT NULL,
	document_id TEXT NOT NULL,
	landing_key TEXT NOT NULL,
	error_message TEXT,
	result JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	started_at TIMESTAMPTZ,
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON upload_jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON upload_jobs(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.JobRecord) error {
	result, err := marshalResult(job.Result)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO upload_jobs (job_id, status, filename, document_id, landing_key, error_message, result, created_at, started_at, finished_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, job.JobID, string(job.Status), job.Filename, job.DocumentID, job.LandingKey, job.Error, result,
		job.CreatedAt, nullTime(job.StartedAt), nullTime(job.FinishedAt))
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, jobID string) (*domain.JobRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT job_id, status, filename, document_id, landing_key, COALESCE(error_message, ''), result, created_at, started_at, finished_at
FROM upload_jobs
WHERE job_id = $1
`, jobID)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrJobNotFound, "get job", fmt.Errorf("job %s", jobID))
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.JobRecord) error {
	result, err := marshalResult(job.Result)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE upload_jobs
SET status = $2, error_message = $3, result = $4, started_at = $5, finished_at = $6
WHERE job_id = $1
`, job.JobID, string(job.Status), job.Error, result, nullTime(job.StartedAt), nullTime(job.FinishedAt))
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrJobNotFound, "update job", fmt.Errorf("job %s", job.JobID))
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT job_id, status, filename, document_id, landing_key, COALESCE(error_message, ''), result, created_at, started_at, finished_at
FROM upload_jobs
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.JobRecord, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		out = append(out, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return out, nil
}

type jobScanner interface {
	Scan(dest ...any) error
}

func scanJob(s jobScanner) (*domain.JobRecord, error) {
	var job domain.JobRecord
	var status string
	var result []byte
	var startedAt, finishedAt sql.NullTime

	err := s.Scan(
		&job.JobID, &status, &job.Filename, &job.DocumentID, &job.LandingKey, &job.Error,
		&result, &job.CreatedAt, &startedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	if startedAt.Valid {
		job.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		job.FinishedAt = finishedAt.Time
	}
	if len(result) > 0 {
		job.Result = &domain.PipelineResult{}
		if err := json.Unmarshal(result, job.Result); err != nil {
			return nil, fmt.Errorf("unmarshal job result: %w", err)
		}
	}
	return &job, nil
}

func marshalResult(result *domain.PipelineResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal job result: %w", err)
	}
	return data, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
