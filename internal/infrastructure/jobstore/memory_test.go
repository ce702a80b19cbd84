package jobstore

import (
	"context"
	"testing"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

func TestMemoryCreateGetUpdate(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	job := &domain.JobRecord{
		JobID:     "job-1",
		Status:    domain.JobQueued,
		Filename:  "invoice.pdf",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Create(ctx, job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, job); err == nil {
		t.Fatalf("duplicate Create() should fail")
	}

	job.Status = domain.JobCompleted
	job.Result = &domain.PipelineResult{Success: true, PrimaryCategory: "invoice"}
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != domain.JobCompleted || got.Result.PrimaryCategory != "invoice" {
		t.Fatalf("job = %+v", got)
	}

	// Mutating the returned record must not leak back into the store.
	got.Result.PrimaryCategory = "mutated"
	again, _ := store.Get(ctx, "job-1")
	if again.Result.PrimaryCategory != "invoice" {
		t.Fatalf("store leaked internal state")
	}
}

func TestMemoryGetMissingJob(t *testing.T) {
	store := NewMemory()
	_, err := store.Get(context.Background(), "ghost")
	if !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := store.Update(context.Background(), &domain.JobRecord{JobID: "ghost"}); !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound on update, got %v", err)
	}
}

func TestMemoryListNewestFirstWithLimit(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	base := time.Now().UTC()

	for i, id := range []string{"job-a", "job-b", "job-c"} {
		err := store.Create(ctx, &domain.JobRecord{
			JobID:     id,
			Status:    domain.JobQueued,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	jobs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(jobs) != 2 || jobs[0].JobID != "job-c" || jobs[1].JobID != "job-b" {
		t.Fatalf("jobs = %+v", jobs)
	}
}
