package jobstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

// Memory is an in-process job store for local development and tests. Records
// live until restart; production wiring uses the postgres repository.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]domain.JobRecord
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]domain.JobRecord)}
}

func (m *Memory) Create(_ context.Context, job *domain.JobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[job.JobID]; exists {
		return fmt.Errorf("job already exists: %s", job.JobID)
	}
	m.jobs[job.JobID] = cloneJob(job)
	return nil
}

func (m *Memory) Get(_ context.Context, jobID string) (*domain.JobRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.WrapError(domain.ErrJobNotFound, "get job", fmt.Errorf("job %s", jobID))
	}
	out := job
	return &out, nil
}

func (m *Memory) Update(_ context.Context, job *domain.JobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.JobID]; !ok {
		return domain.WrapError(domain.ErrJobNotFound, "update job", fmt.Errorf("job %s", job.JobID))
	}
	m.jobs[job.JobID] = cloneJob(job)
	return nil
}

func (m *Memory) List(_ context.Context, limit int) ([]domain.JobRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.JobRecord, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneJob(job *domain.JobRecord) domain.JobRecord {
	out := *job
	if job.Result != nil {
		result := *job.Result
		out.Result = &result
	}
	return out
}
