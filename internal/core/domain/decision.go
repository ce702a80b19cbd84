package domain

import "time"

type ContextType string

const (
	ContextPredefined    ContextType = "predefined"
	ContextLearned       ContextType = "learned"
	ContextHumanVerified ContextType = "human_verified"
)

// ContextEntry is one row of the metadata context store. Predefined entries
// are immutable seed data; learned entries accumulate from high-confidence
// classifications.
type ContextEntry struct {
	ID                    int64       `json:"id"`
	Category              string      `json:"category"`
	Type                  ContextType `json:"type"`
	Text                  string      `json:"text"`
	SampleContent         string      `json:"sample_content,omitempty"`
	SourceDocumentKey     string      `json:"source_document_key,omitempty"`
	ConfidenceWhenLearned float64     `json:"confidence_when_learned,omitempty"`
	UsageCount            int         `json:"usage_count"`
	Verified              bool        `json:"verified"`
	CreatedAt             time.Time   `json:"created_at"`
	LastUsedAt            time.Time   `json:"last_used_at,omitempty"`
}

// RoutingDecision is the audit record written once per pipeline run. After
// insert only the human-override fields may change.
type RoutingDecision struct {
	ID                      int64     `json:"id"`
	DocumentKey             string    `json:"document_key"`
	Classification          string    `json:"classification"`
	Confidence              float64   `json:"confidence"`
	Reasoning               string    `json:"reasoning"`
	ContextIDsUsed          []int64   `json:"context_ids_used,omitempty"`
	PipelineTarget          string    `json:"pipeline_target"`
	AdditionalCategories    []string  `json:"additional_categories,omitempty"`
	HumanOverride           bool      `json:"human_override"`
	CorrectedClassification string    `json:"corrected_classification,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
}

// CategoryStat summarizes routing decisions per category.
type CategoryStat struct {
	Category      string  `json:"category"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// MaxCentroidSampleKeys bounds the per-category sample-key list; older keys
// are evicted FIFO.
const MaxCentroidSampleKeys = 10

// CategoryCentroid is one entry of the category embedding cache: the mean
// embedding of high-confidence documents in a category.
type CategoryCentroid struct {
	Category    string    `json:"category"`
	Embedding   []float32 `json:"embedding"`
	SampleCount int       `json:"sample_count"`
	SampleKeys  []string  `json:"sample_keys"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UploadJob is the queue payload that starts a pipeline run.
type UploadJob struct {
	JobID      string `json:"job_id"`
	DocumentID string `json:"document_id"`
	LandingKey string `json:"landing_key"`
	Filename   string `json:"filename"`
}

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobError      JobStatus = "error"
)

// JobRecord tracks one upload job end to end.
type JobRecord struct {
	JobID      string          `json:"job_id"`
	Status     JobStatus       `json:"status"`
	Filename   string          `json:"filename"`
	DocumentID string          `json:"document_id"`
	LandingKey string          `json:"landing_key"`
	Error      string          `json:"error,omitempty"`
	Result     *PipelineResult `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  time.Time       `json:"started_at,omitempty"`
	FinishedAt time.Time       `json:"finished_at,omitempty"`
}

// PipelineResult is the shrunk, durable summary of a pipeline run.
type PipelineResult struct {
	Success              bool               `json:"success"`
	DocumentID           string             `json:"document_id"`
	Filename             string             `json:"filename"`
	FileType             string             `json:"file_type"`
	LandingKey           string             `json:"landing_key,omitempty"`
	CanonicalKey         string             `json:"canonical_key,omitempty"`
	PrimaryCategory      string             `json:"primary_category"`
	AdditionalCategories []string           `json:"additional_categories,omitempty"`
	AllCategories        []string           `json:"all_categories,omitempty"`
	Confidence           float64            `json:"confidence"`
	ConfidenceSource     string             `json:"confidence_source,omitempty"`
	CategoryScores       map[string]float64 `json:"category_scores,omitempty"`
	EnsembleVariance     map[string]float64 `json:"ensemble_variance,omitempty"`
	EnsembleCount        int                `json:"ensemble_count"`
	Reasoning            string             `json:"reasoning,omitempty"`
	FeedTheBrain         bool               `json:"feed_the_brain"`
	FeedTheGraph         bool               `json:"feed_the_graph"`
	Tabular              bool               `json:"tableur"`
	Status               RecordStatus       `json:"status"`
	Error                string             `json:"error,omitempty"`
	IndexSync            string             `json:"index_sync,omitempty"`
	ChunkCount           int                `json:"chunk_count,omitempty"`
	Logs                 []string           `json:"logs,omitempty"`
}

// ResultFromRecord collapses a finished record into its durable summary.
func ResultFromRecord(r *PipelineRecord) *PipelineResult {
	return &PipelineResult{
		Success:              !r.Failed(),
		DocumentID:           r.DocumentID,
		Filename:             r.Filename,
		FileType:             r.FileType,
		LandingKey:           r.LandingKey,
		CanonicalKey:         r.CanonicalKey,
		PrimaryCategory:      r.PrimaryCategory,
		AdditionalCategories: r.AdditionalCategories,
		AllCategories:        r.AllCategories,
		Confidence:           r.Confidence,
		ConfidenceSource:     r.ConfidenceSource,
		CategoryScores:       r.CategoryScores,
		EnsembleVariance:     r.EnsembleVariance,
		EnsembleCount:        r.EnsembleCount,
		Reasoning:            r.Reasoning,
		FeedTheBrain:         r.FeedTheBrain,
		FeedTheGraph:         r.FeedTheGraph,
		Tabular:              r.Tabular,
		Status:               r.Status,
		Error:                r.Error,
		Logs:                 r.Logs,
	}
}
