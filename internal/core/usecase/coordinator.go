package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// Coordinator accepts uploads into the landing tier, tracks jobs and drives
// the worker side of the queue through a bounded pool.
type Coordinator struct {
	lake    ports.ObjectLake
	queue   ports.MessageQueue
	jobs    ports.JobStore
	runner  ports.PipelineRunner
	workers int
	log     *slog.Logger

	onJobStart func()
	onJob      func(status domain.JobStatus, elapsed time.Duration)
}

func NewCoordinator(
	lake ports.ObjectLake,
	queue ports.MessageQueue,
	jobs ports.JobStore,
	runner ports.PipelineRunner,
	workers int,
	log *slog.Logger,
) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{
		lake:    lake,
		queue:   queue,
		jobs:    jobs,
		runner:  runner,
		workers: workers,
		log:     log,
	}
}

// SetJobObserver installs metrics hooks called when a job starts processing
// and once when it finishes.
func (c *Coordinator) SetJobObserver(onStart func(), onFinish func(status domain.JobStatus, elapsed time.Duration)) {
	c.onJobStart = onStart
	c.onJob = onFinish
}

// SubmitUpload stores the body in the landing tier, records a queued job and
// publishes it for the worker.
func (c *Coordinator) SubmitUpload(ctx context.Context, filename string, body io.Reader, size int64) (*domain.JobRecord, error) {
	if filename == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit upload", fmt.Errorf("empty filename"))
	}

	documentID := newDocumentID()
	landingKey := "uploads/" + documentID + filepath.Ext(filename)

	if err := c.lake.Put(ctx, ports.TierLanding, landingKey, body, size, "application/octet-stream"); err != nil {
		return nil, fmt.Errorf("store landing object: %w", err)
	}

	job := &domain.JobRecord{
		JobID:      uuid.NewString(),
		Status:     domain.JobQueued,
		Filename:   filename,
		DocumentID: documentID,
		LandingKey: landingKey,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job record: %w", err)
	}

	if err := c.queue.PublishUploadJob(ctx, domain.UploadJob{
		JobID:      job.JobID,
		DocumentID: documentID,
		LandingKey: landingKey,
		Filename:   filename,
	}); err != nil {
		job.Status = domain.JobError
		job.Error = "publish failed: " + err.Error()
		if updErr := c.jobs.Update(ctx, job); updErr != nil {
			c.log.Warn("job update failed", slog.String("job_id", job.JobID), slog.Any("error", updErr))
		}
		return nil, fmt.Errorf("publish upload job: %w", err)
	}

	c.log.Info("upload accepted",
		slog.String("job_id", job.JobID),
		slog.String("document_id", documentID),
		slog.String("landing_key", landingKey),
	)
	return job, nil
}

func (c *Coordinator) GetJob(ctx context.Context, jobID string) (*domain.JobRecord, error) {
	return c.jobs.Get(ctx, jobID)
}

func (c *Coordinator) ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	return c.jobs.List(ctx, limit)
}

// RunWorkers subscribes to the upload queue and processes jobs through a
// bounded worker pool. Blocks until the subscription ends.
func (c *Coordinator) RunWorkers(ctx context.Context) error {
	sem := make(chan struct{}, c.workers)
	return c.queue.SubscribeUploadJobs(ctx, func(handlerCtx context.Context, job domain.UploadJob) error {
		select {
		case sem <- struct{}{}:
		case <-handlerCtx.Done():
			return handlerCtx.Err()
		}
		defer func() { <-sem }()
		return c.handleJob(handlerCtx, job)
	})
}

// handleJob runs the pipeline for one queued upload. Pipeline failures end
// up on the job record, not as handler errors, so the queue never redelivers
// a job whose document already moved to canonical.
func (c *Coordinator) handleJob(ctx context.Context, upload domain.UploadJob) error {
	start := time.Now()
	if c.onJobStart != nil {
		c.onJobStart()
	}

	job, err := c.jobs.Get(ctx, upload.JobID)
	if err != nil {
		c.log.Warn("job lookup failed, proceeding with queue payload",
			slog.String("job_id", upload.JobID), slog.Any("error", err))
		job = &domain.JobRecord{
			JobID:      upload.JobID,
			Filename:   upload.Filename,
			DocumentID: upload.DocumentID,
			LandingKey: upload.LandingKey,
			CreatedAt:  start,
		}
	}
	job.Status = domain.JobProcessing
	job.StartedAt = start
	if err := c.jobs.Update(ctx, job); err != nil {
		c.log.Warn("job update failed", slog.String("job_id", job.JobID), slog.Any("error", err))
	}

	result, runErr := c.runner.Run(ctx, upload.LandingKey, upload.Filename, upload.DocumentID)

	job.FinishedAt = time.Now().UTC()
	switch {
	case runErr != nil:
		job.Status = domain.JobError
		job.Error = runErr.Error()
	case result != nil && !result.Success:
		job.Status = domain.JobError
		job.Error = result.Error
		job.Result = result
	default:
		job.Status = domain.JobCompleted
		job.Result = result
	}
	if err := c.jobs.Update(ctx, job); err != nil {
		c.log.Warn("job update failed", slog.String("job_id", job.JobID), slog.Any("error", err))
	}

	if c.onJob != nil {
		c.onJob(job.Status, time.Since(start))
	}
	c.log.Info("job finished",
		slog.String("job_id", job.JobID),
		slog.String("status", string(job.Status)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
