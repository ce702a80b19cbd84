package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

func newJobRepoWithMock(t *testing.T) (*JobRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &JobRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetJobReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newJobRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT job_id, status, filename").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"job_id"}))

	_, err := repo.Get(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateJobReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newJobRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE upload_jobs").
		WithArgs("missing", string(domain.JobProcessing), "", []byte(nil), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.JobRecord{
		JobID:  "missing",
		Status: domain.JobProcessing,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetJobDecodesResult(t *testing.T) {
	repo, mock, done := newJobRepoWithMock(t)
	defer done()

	createdAt := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"job_id", "status", "filename", "document_id", "landing_key", "error_message",
		"result", "created_at", "started_at", "finished_at",
	}).AddRow(
		"job-1", "completed", "invoice.pdf", "doc-1", "uploads/doc-1.pdf", "",
		[]byte(`{"success":true,"document_id":"doc-1","primary_category":"invoice","confidence":0.92,"ensemble_count":2,"feed_the_brain":true,"feed_the_graph":false,"tableur":false,"status":"processed","filename":"invoice.pdf","file_type":"pdf"}`),
		createdAt, createdAt, createdAt.Add(5*time.Second),
	)

	mock.ExpectQuery("SELECT job_id, status, filename").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if job.Status != domain.JobCompleted {
		t.Fatalf("status = %s", job.Status)
	}
	if job.Result == nil || job.Result.PrimaryCategory != "invoice" || job.Result.Confidence != 0.92 {
		t.Fatalf("result = %+v", job.Result)
	}
	if job.FinishedAt.Sub(job.StartedAt) != 5*time.Second {
		t.Fatalf("timestamps not decoded: %+v", job)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
