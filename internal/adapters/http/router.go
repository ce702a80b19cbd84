package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/docrouter/internal/core/ports"
	"github.com/kirillkom/docrouter/internal/core/usecase"
)

type Router struct {
	coordinator ports.UploadCoordinator
	review      *usecase.Review
	search      *usecase.Search
	onUpload    func(bytes int64)
}

func NewRouter(coordinator ports.UploadCoordinator, review *usecase.Review, search *usecase.Search) *Router {
	return &Router{
		coordinator: coordinator,
		review:      review,
		search:      search,
	}
}

// SetUploadObserver installs a metrics hook called with the declared size of
// every accepted upload.
func (rt *Router) SetUploadObserver(fn func(bytes int64)) {
	rt.onUpload = fn
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/relearn", rt.relearnDocument)
	mux.HandleFunc("/v1/jobs", rt.listJobs)
	mux.HandleFunc("/v1/jobs/", rt.getJob)
	mux.HandleFunc("/v1/review/pending", rt.pendingReview)
	mux.HandleFunc("/v1/review/override", rt.overrideDecision)
	mux.HandleFunc("/v1/review/stats", rt.categoryStats)
	mux.HandleFunc("/v1/decisions", rt.decisionHistory)
	mux.HandleFunc("/v1/search", rt.searchDocuments)
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	job, err := rt.coordinator.SubmitUpload(r.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	if rt.onUpload != nil {
		rt.onUpload(fileHeader.Size)
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (rt *Router) relearnDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		CanonicalKey string `json:"canonical_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := rt.review.Relearn(r.Context(), req.CanonicalKey)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) listJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jobs, err := rt.coordinator.ListJobs(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (rt *Router) getJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job id is required")
		return
	}

	job, err := rt.coordinator.GetJob(r.Context(), jobID)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) pendingReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	decisions, err := rt.review.PendingReview(r.Context(), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, decisions)
}

func (rt *Router) overrideDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		DecisionID int64  `json:"decision_id"`
		Category   string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := rt.review.Override(r.Context(), req.DecisionID, req.Category); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "overridden"})
}

func (rt *Router) categoryStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := rt.review.Stats(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) decisionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	documentKey := r.URL.Query().Get("document_key")
	if documentKey == "" {
		writeError(w, http.StatusBadRequest, "document_key is required")
		return
	}

	decisions, err := rt.review.History(r.Context(), documentKey, queryInt(r, "limit", 20))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, decisions)
}

func (rt *Router) searchDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if rt.search == nil {
		writeError(w, http.StatusNotImplemented, "search is not configured")
		return
	}

	var req struct {
		Question string `json:"question"`
		Limit    int    `json:"limit"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	hits, err := rt.search.Query(r.Context(), req.Question, req.Limit, req.Category)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
