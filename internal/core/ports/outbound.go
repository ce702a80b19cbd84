package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

// Tier names one of the three object-lake storage tiers.
type Tier string

const (
	TierLanding   Tier = "landing"
	TierCanonical Tier = "canonical"
	TierDerived   Tier = "derived"
)

// ObjectInfo describes one stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectLake exposes the raw blob/tag primitives of the data lake. Tags on
// canonical objects are the authoritative document metadata; mutating
// classification rewrites tags, never the blob.
type ObjectLake interface {
	Put(ctx context.Context, tier Tier, key string, data io.Reader, size int64, contentType string) error
	Download(ctx context.Context, tier Tier, key, localPath string) error
	Copy(ctx context.Context, srcTier Tier, srcKey string, dstTier Tier, dstKey string) error
	Delete(ctx context.Context, tier Tier, key string) error
	GetTags(ctx context.Context, tier Tier, key string) (map[string]string, error)
	SetTags(ctx context.Context, tier Tier, key string, tags map[string]string) error
	List(ctx context.Context, tier Tier, prefix string) ([]ObjectInfo, error)
}

// Embedder builds fixed-length vectors for text. Implementations share one
// lazily initialized model instance and are safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ModelScores is one scoring model's verdict over a candidate set.
type ModelScores struct {
	Model     string
	Scores    map[string]float64
	Reasoning string
}

// ScoringModel scores every candidate category independently in [0,1].
type ScoringModel interface {
	Name() string
	ScoreCategories(ctx context.Context, content string, candidates map[string]string, contextText string) (ModelScores, error)
}

// TextExtractor turns a local file into plain text, dispatched by the
// normalized file-type token.
type TextExtractor interface {
	Extract(ctx context.Context, localPath, fileType string) (string, error)
}

// ContextStore persists classification context entries.
type ContextStore interface {
	GetPredefined(ctx context.Context) ([]domain.ContextEntry, error)
	GetTopLearned(ctx context.Context, limit int) ([]domain.ContextEntry, error)
	SaveLearned(ctx context.Context, entry domain.ContextEntry) (int64, error)
	SavePredefined(ctx context.Context, entry domain.ContextEntry) (int64, error)
	IncrementUsage(ctx context.Context, ids []int64) error
}

// DecisionStore is the append-only routing audit trail. Human override is the
// only mutation after insert.
type DecisionStore interface {
	Save(ctx context.Context, decision *domain.RoutingDecision) (int64, error)
	ListByDocumentKey(ctx context.Context, documentKey string, limit int) ([]domain.RoutingDecision, error)
	ListLowConfidence(ctx context.Context, threshold float64, limit int) ([]domain.RoutingDecision, error)
	ApplyHumanOverride(ctx context.Context, decisionID int64, corrected string) error
	CategoryStats(ctx context.Context) ([]domain.CategoryStat, error)
}

// CentroidStore persists the category embedding cache.
type CentroidStore interface {
	GetAll(ctx context.Context) (map[string][]float32, error)
	Get(ctx context.Context, cat string) (*domain.CategoryCentroid, error)
	Save(ctx context.Context, centroid *domain.CategoryCentroid) error
	IsStale(ctx context.Context, maxAge time.Duration) (bool, error)
}

// JobStore tracks upload jobs. Implementations must tolerate concurrent
// writers.
type JobStore interface {
	Create(ctx context.Context, job *domain.JobRecord) error
	Get(ctx context.Context, jobID string) (*domain.JobRecord, error)
	Update(ctx context.Context, job *domain.JobRecord) error
	List(ctx context.Context, limit int) ([]domain.JobRecord, error)
}

// MessageQueue carries upload jobs from the API to the worker.
type MessageQueue interface {
	PublishUploadJob(ctx context.Context, job domain.UploadJob) error
	SubscribeUploadJobs(ctx context.Context, handler func(context.Context, domain.UploadJob) error) error
}

// IndexedDocument is the payload attached to every Q&A index chunk.
type IndexedDocument struct {
	DocumentID   string
	CanonicalKey string
	Filename     string
	Categories   []string
}

// SearchIndexer feeds the best-effort Q&A side channel.
type SearchIndexer interface {
	IndexChunks(ctx context.Context, doc IndexedDocument, chunks []string, vectors [][]float32) error
	DeleteByDocument(ctx context.Context, documentID string) error
}

// RetrievedChunk is one hit from the Q&A index.
type RetrievedChunk struct {
	DocumentID string
	Filename   string
	Categories []string
	Text       string
	Score      float64
}

// ChunkSearcher queries the Q&A index. Category narrows the search when
// non-empty.
type ChunkSearcher interface {
	SearchChunks(ctx context.Context, vector []float32, limit int, category string) ([]RetrievedChunk, error)
}

// Chunker splits text for indexing.
type Chunker interface {
	Split(text string) []string
}
