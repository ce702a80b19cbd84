package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

// PipelineRunner executes the classify-and-route pipeline for one document.
type PipelineRunner interface {
	Run(ctx context.Context, landingKey, filename, documentID string) (*domain.PipelineResult, error)
	Relearn(ctx context.Context, canonicalKey string) (*domain.PipelineResult, error)
}

// UploadCoordinator accepts uploads, hands them to the queue and tracks jobs.
type UploadCoordinator interface {
	SubmitUpload(ctx context.Context, filename string, body io.Reader, size int64) (*domain.JobRecord, error)
	GetJob(ctx context.Context, jobID string) (*domain.JobRecord, error)
	ListJobs(ctx context.Context, limit int) ([]domain.JobRecord, error)
}
