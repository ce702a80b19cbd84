package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/usecase"
)

type coordinatorFake struct {
	job     *domain.JobRecord
	jobs    []domain.JobRecord
	err     error
	lastKey string
}

func (f *coordinatorFake) SubmitUpload(_ context.Context, filename string, _ io.Reader, _ int64) (*domain.JobRecord, error) {
	f.lastKey = filename
	return f.job, f.err
}

func (f *coordinatorFake) GetJob(_ context.Context, jobID string) (*domain.JobRecord, error) {
	f.lastKey = jobID
	return f.job, f.err
}

func (f *coordinatorFake) ListJobs(_ context.Context, _ int) ([]domain.JobRecord, error) {
	return f.jobs, f.err
}

type decisionsFake struct {
	pending   []domain.RoutingDecision
	overrides map[int64]string
}

func (f *decisionsFake) Save(_ context.Context, _ *domain.RoutingDecision) (int64, error) {
	return 1, nil
}

func (f *decisionsFake) ListByDocumentKey(_ context.Context, _ string, _ int) ([]domain.RoutingDecision, error) {
	return f.pending, nil
}

func (f *decisionsFake) ListLowConfidence(_ context.Context, _ float64, _ int) ([]domain.RoutingDecision, error) {
	return f.pending, nil
}

func (f *decisionsFake) ApplyHumanOverride(_ context.Context, decisionID int64, corrected string) error {
	if f.overrides == nil {
		f.overrides = make(map[int64]string)
	}
	f.overrides[decisionID] = corrected
	return nil
}

func (f *decisionsFake) CategoryStats(_ context.Context) ([]domain.CategoryStat, error) {
	return []domain.CategoryStat{{Category: "invoice", Count: 3, AvgConfidence: 0.9}}, nil
}

type runnerStub struct {
	result *domain.PipelineResult
}

func (r *runnerStub) Run(_ context.Context, _, _, _ string) (*domain.PipelineResult, error) {
	return r.result, nil
}

func (r *runnerStub) Relearn(_ context.Context, _ string) (*domain.PipelineResult, error) {
	return r.result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(coordinator *coordinatorFake, decisions *decisionsFake, runner *runnerStub) http.Handler {
	review := usecase.NewReview(decisions, runner, 0.70, discardLogger())
	return NewRouter(coordinator, review, nil).Handler()
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestUploadDocumentAccepted(t *testing.T) {
	coordinator := &coordinatorFake{job: &domain.JobRecord{JobID: "job-1", Status: domain.JobQueued}}
	handler := newTestRouter(coordinator, &decisionsFake{}, &runnerStub{})

	body, contentType := multipartBody(t, "invoice.pdf", "fake pdf bytes")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var job domain.JobRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if job.JobID != "job-1" {
		t.Fatalf("job = %+v", job)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("request id header missing")
	}
}

func TestUploadDocumentRequiresMultipart(t *testing.T) {
	handler := newTestRouter(&coordinatorFake{}, &decisionsFake{}, &runnerStub{})

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUploadDocumentInvalidInputMapsTo400(t *testing.T) {
	coordinator := &coordinatorFake{err: domain.WrapError(domain.ErrInvalidInput, "submit upload", io.ErrUnexpectedEOF)}
	handler := newTestRouter(coordinator, &decisionsFake{}, &runnerStub{})

	body, contentType := multipartBody(t, "x.pdf", "data")
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetJobNotFoundMapsTo404(t *testing.T) {
	coordinator := &coordinatorFake{err: domain.WrapError(domain.ErrJobNotFound, "get job", io.EOF)}
	handler := newTestRouter(coordinator, &decisionsFake{}, &runnerStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/ghost", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOverrideDecision(t *testing.T) {
	decisions := &decisionsFake{}
	handler := newTestRouter(&coordinatorFake{}, decisions, &runnerStub{})

	payload := strings.NewReader(`{"decision_id": 7, "category": "Invoices"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/review/override", payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if decisions.overrides[7] != "invoice" {
		t.Fatalf("overrides = %v", decisions.overrides)
	}
}

func TestOverrideUnknownCategoryMapsTo400(t *testing.T) {
	handler := newTestRouter(&coordinatorFake{}, &decisionsFake{}, &runnerStub{})

	payload := strings.NewReader(`{"decision_id": 7, "category": "definitely not a category xyz"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/review/override", payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRelearnDocument(t *testing.T) {
	runner := &runnerStub{result: &domain.PipelineResult{
		Success:         true,
		PrimaryCategory: "invoice",
		Status:          domain.StatusRelearned,
	}}
	handler := newTestRouter(&coordinatorFake{}, &decisionsFake{}, runner)

	payload := strings.NewReader(`{"canonical_key": "docs/doc-1.txt"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/documents/relearn", payload)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result domain.PipelineResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != domain.StatusRelearned {
		t.Fatalf("result = %+v", result)
	}
}

func TestPendingReviewList(t *testing.T) {
	decisions := &decisionsFake{pending: []domain.RoutingDecision{
		{ID: 1, DocumentKey: "docs/a.txt", Classification: "unclassified", Confidence: 0.5},
	}}
	handler := newTestRouter(&coordinatorFake{}, decisions, &runnerStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/review/pending", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []domain.RoutingDecision
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].DocumentKey != "docs/a.txt" {
		t.Fatalf("decisions = %+v", got)
	}
}

func TestSearchNotConfigured(t *testing.T) {
	handler := newTestRouter(&coordinatorFake{}, &decisionsFake{}, &runnerStub{})

	req := httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(`{"question": "q"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestRouter(&coordinatorFake{}, &decisionsFake{}, &runnerStub{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/documents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}
