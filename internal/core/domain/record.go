package domain

import "time"

type RecordStatus string

const (
	StatusPending       RecordStatus = "pending"
	StatusProcessing    RecordStatus = "processing"
	StatusProcessed     RecordStatus = "processed"
	StatusPendingReview RecordStatus = "pending_review"
	StatusRelearned     RecordStatus = "relearned"
	StatusError         RecordStatus = "error"
)

// PipelineRecord is the single mutable state threaded through every pipeline
// stage of one document run. Stages never mutate it directly; they return a
// StageUpdate that the runner merges in.
type PipelineRecord struct {
	// Identity
	DocumentID string
	Filename   string
	FileType   string

	// Lake keys
	LandingKey   string
	CanonicalKey string

	// Content
	RawText        string
	ContentPreview string

	// Context fetched for classification
	PredefinedContexts []ContextEntry
	LearnedContexts    []ContextEntry
	ContextIDsUsed     []int64

	// Embeddings
	DocEmbedding       []float32
	CategoryEmbeddings map[string][]float32

	// Classification
	PrimaryCategory      string
	AdditionalCategories []string
	AllCategories        []string
	Confidence           float64
	ConfidenceSource     string
	CategoryScores       map[string]float64
	EnsembleVariance     map[string]float64
	EnsembleCount        int
	Reasoning            string

	// Routing flags persisted as canonical tags
	FeedTheBrain bool
	FeedTheGraph bool
	Tabular      bool

	// Lifecycle
	Status     RecordStatus
	Error      string
	Logs       []string
	DecisionID int64
	StartedAt  time.Time
}

// NewPipelineRecord builds the initial record for a landed document.
func NewPipelineRecord(landingKey, filename, documentID string) *PipelineRecord {
	return &PipelineRecord{
		DocumentID:   documentID,
		Filename:     filename,
		FileType:     "unknown",
		LandingKey:   landingKey,
		FeedTheBrain: true,
		Status:       StatusPending,
		Logs:         []string{"landed: " + landingKey},
		StartedAt:    time.Now().UTC(),
	}
}

// StageUpdate is the partial result a stage returns. Nil pointer fields mean
// "leave as is"; Logs are always appended.
type StageUpdate struct {
	DocumentID   *string
	Filename     *string
	FileType     *string
	CanonicalKey *string

	RawText        *string
	ContentPreview *string

	PredefinedContexts []ContextEntry
	LearnedContexts    []ContextEntry
	ContextIDsUsed     []int64

	DocEmbedding       []float32
	CategoryEmbeddings map[string][]float32

	PrimaryCategory      *string
	AdditionalCategories []string
	AllCategories        []string
	Confidence           *float64
	ConfidenceSource     *string
	CategoryScores       map[string]float64
	EnsembleVariance     map[string]float64
	EnsembleCount        *int
	Reasoning            *string

	FeedTheBrain *bool
	FeedTheGraph *bool
	Tabular      *bool

	Status     *RecordStatus
	Error      *string
	DecisionID *int64
	Logs       []string
}

// Apply merges the update into the record. Slices and maps replace wholesale
// (a stage recomputes them in full); Logs append.
func (r *PipelineRecord) Apply(u StageUpdate) {
	setStr(&r.DocumentID, u.DocumentID)
	setStr(&r.Filename, u.Filename)
	setStr(&r.FileType, u.FileType)
	setStr(&r.CanonicalKey, u.CanonicalKey)
	setStr(&r.RawText, u.RawText)
	setStr(&r.ContentPreview, u.ContentPreview)

	if u.PredefinedContexts != nil {
		r.PredefinedContexts = u.PredefinedContexts
	}
	if u.LearnedContexts != nil {
		r.LearnedContexts = u.LearnedContexts
	}
	if u.ContextIDsUsed != nil {
		r.ContextIDsUsed = u.ContextIDsUsed
	}
	if u.DocEmbedding != nil {
		r.DocEmbedding = u.DocEmbedding
	}
	if u.CategoryEmbeddings != nil {
		r.CategoryEmbeddings = u.CategoryEmbeddings
	}

	setStr(&r.PrimaryCategory, u.PrimaryCategory)
	if u.AdditionalCategories != nil {
		r.AdditionalCategories = u.AdditionalCategories
	}
	if u.AllCategories != nil {
		r.AllCategories = u.AllCategories
	}
	if u.Confidence != nil {
		r.Confidence = *u.Confidence
	}
	setStr(&r.ConfidenceSource, u.ConfidenceSource)
	if u.CategoryScores != nil {
		r.CategoryScores = u.CategoryScores
	}
	if u.EnsembleVariance != nil {
		r.EnsembleVariance = u.EnsembleVariance
	}
	if u.EnsembleCount != nil {
		r.EnsembleCount = *u.EnsembleCount
	}
	setStr(&r.Reasoning, u.Reasoning)

	if u.FeedTheBrain != nil {
		r.FeedTheBrain = *u.FeedTheBrain
	}
	if u.FeedTheGraph != nil {
		r.FeedTheGraph = *u.FeedTheGraph
	}
	if u.Tabular != nil {
		r.Tabular = *u.Tabular
	}

	if u.Status != nil {
		r.Status = *u.Status
	}
	setStr(&r.Error, u.Error)
	if u.DecisionID != nil {
		r.DecisionID = *u.DecisionID
	}
	r.Logs = append(r.Logs, u.Logs...)
}

// Failed reports whether a stage has recorded a terminal error.
func (r *PipelineRecord) Failed() bool {
	return r.Status == StatusError
}

// Shrink drops the large content fields before the record is persisted into
// a job result.
func (r *PipelineRecord) Shrink() {
	r.RawText = ""
	r.DocEmbedding = nil
	r.CategoryEmbeddings = nil
	r.PredefinedContexts = nil
	r.LearnedContexts = nil
}

func setStr[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Helpers for building StageUpdate literals.
func Str(s string) *string                { return &s }
func Float(f float64) *float64            { return &f }
func Int(i int) *int                      { return &i }
func Int64(i int64) *int64                { return &i }
func Bool(b bool) *bool                   { return &b }
func Status(s RecordStatus) *RecordStatus { return &s }
