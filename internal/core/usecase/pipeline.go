package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// PipelineConfig carries the tunables of one pipeline instance. Zero values
// fall back to the defaults below.
type PipelineConfig struct {
	PreviewChars         int
	EmbedPreviewChars    int
	TopCandidates        int
	LowConfidence        float64
	AdditionalThreshold  float64
	LearnThreshold       float64
	CentroidWeight       float64
	CacheMaxAge          time.Duration
	RefreshSamples       int
	RefreshMinConfidence float64
	RefreshSampleChars   int
	LearnedContextLimit  int
	TempDir              string
}

func (c PipelineConfig) withDefaults() PipelineConfig {
	if c.PreviewChars <= 0 {
		c.PreviewChars = 4000
	}
	if c.EmbedPreviewChars <= 0 {
		c.EmbedPreviewChars = 2000
	}
	if c.TopCandidates <= 0 {
		c.TopCandidates = 10
	}
	if c.LowConfidence <= 0 {
		c.LowConfidence = 0.70
	}
	if c.AdditionalThreshold <= 0 {
		c.AdditionalThreshold = 0.70
	}
	if c.LearnThreshold <= 0 {
		c.LearnThreshold = 0.85
	}
	if c.CentroidWeight <= 0 {
		c.CentroidWeight = 0.1
	}
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = 24 * time.Hour
	}
	if c.RefreshSamples <= 0 {
		c.RefreshSamples = 5
	}
	if c.RefreshMinConfidence <= 0 {
		c.RefreshMinConfidence = 0.70
	}
	if c.RefreshSampleChars <= 0 {
		c.RefreshSampleChars = 2000
	}
	if c.LearnedContextLimit <= 0 {
		c.LearnedContextLimit = 10
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	return c
}

// Pipeline runs the classify-and-route chain for one document at a time. It
// is safe for concurrent use; all mutable state lives in the per-run record.
type Pipeline struct {
	lake      ports.ObjectLake
	extractor ports.TextExtractor
	embedder  ports.Embedder
	models    []ports.ScoringModel
	contexts  ports.ContextStore
	decisions ports.DecisionStore
	centroids ports.CentroidStore
	cfg       PipelineConfig
	log       *slog.Logger

	indexer      ports.SearchIndexer
	chunker      ports.Chunker
	onStage      func(stage string, elapsed time.Duration, failed bool)
	onConfidence func(confidence float64)
}

func NewPipeline(
	lake ports.ObjectLake,
	extractor ports.TextExtractor,
	embedder ports.Embedder,
	models []ports.ScoringModel,
	contexts ports.ContextStore,
	decisions ports.DecisionStore,
	centroids ports.CentroidStore,
	cfg PipelineConfig,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		lake:      lake,
		extractor: extractor,
		embedder:  embedder,
		models:    models,
		contexts:  contexts,
		decisions: decisions,
		centroids: centroids,
		cfg:       cfg.withDefaults(),
		log:       log,
	}
}

// SetStageObserver installs a hook called after every stage, used for
// metrics. Must be set before the first Run.
func (p *Pipeline) SetStageObserver(fn func(stage string, elapsed time.Duration, failed bool)) {
	p.onStage = fn
}

// SetConfidenceObserver installs a hook called once per classified document
// with the primary confidence. Must be set before the first Run.
func (p *Pipeline) SetConfidenceObserver(fn func(confidence float64)) {
	p.onConfidence = fn
}

type stage struct {
	name string
	run  func(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{"init", p.stageInit},
		{"extract", p.stageExtract},
		{"fetch_context", p.stageFetchContext},
		{"classify", p.stageClassify},
		{"migrate", p.stageMigrate},
		{"persist", p.stagePersist},
		{"learn", p.stageLearn},
	}
}

// Run executes the full stage chain for a landed document. It never returns
// an error for in-pipeline failures; those surface as Success=false on the
// result with the error recorded.
func (p *Pipeline) Run(ctx context.Context, landingKey, filename, documentID string) (*domain.PipelineResult, error) {
	rec := domain.NewPipelineRecord(landingKey, filename, documentID)
	rec.Apply(domain.StageUpdate{Status: domain.Status(domain.StatusProcessing)})

	for _, st := range p.stages() {
		rec.Apply(p.runStage(ctx, st, rec))
		if rec.Failed() {
			break
		}
	}

	result := domain.ResultFromRecord(rec)
	if p.onConfidence != nil && rec.PrimaryCategory != "" {
		p.onConfidence(rec.Confidence)
	}
	p.syncIndex(ctx, rec, result)
	rec.Shrink()
	p.log.Info("pipeline finished",
		slog.String("document_id", rec.DocumentID),
		slog.String("category", rec.PrimaryCategory),
		slog.Float64("confidence", rec.Confidence),
		slog.String("status", string(rec.Status)),
		slog.Bool("success", result.Success),
	)
	return result, nil
}

func (p *Pipeline) runStage(ctx context.Context, st stage, rec *domain.PipelineRecord) (update domain.StageUpdate) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			update = failStage(st.name, fmt.Errorf("panic: %v", r))
		}
		if p.onStage != nil {
			p.onStage(st.name, time.Since(start), update.Status != nil && *update.Status == domain.StatusError)
		}
	}()
	update = st.run(ctx, rec)
	return update
}

// failStage builds the terminal error update a stage returns instead of
// propagating an error across the stage boundary.
func failStage(name string, err error) domain.StageUpdate {
	msg := name + " failed: " + err.Error()
	return domain.StageUpdate{
		Status: domain.Status(domain.StatusError),
		Error:  domain.Str(msg),
		Logs:   []string{msg},
	}
}

// truncateRunes bounds s to at most n runes without splitting a multibyte
// character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
