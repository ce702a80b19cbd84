package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/docrouter/internal/config"
	"github.com/kirillkom/docrouter/internal/core/ports"
	"github.com/kirillkom/docrouter/internal/core/usecase"
	"github.com/kirillkom/docrouter/internal/infrastructure/chunking"
	"github.com/kirillkom/docrouter/internal/infrastructure/extractor"
	"github.com/kirillkom/docrouter/internal/infrastructure/jobstore"
	"github.com/kirillkom/docrouter/internal/infrastructure/lake/localfs"
	minioLake "github.com/kirillkom/docrouter/internal/infrastructure/lake/minio"
	"github.com/kirillkom/docrouter/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/docrouter/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docrouter/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docrouter/internal/infrastructure/resilience"
	"github.com/kirillkom/docrouter/internal/infrastructure/vector/qdrant"
	"github.com/kirillkom/docrouter/internal/observability/logging"
)

// App wires every adapter to the use cases. Both binaries build the same App
// and pick the surfaces they need.
type App struct {
	Config config.Config
	Log    *slog.Logger

	Lake        ports.ObjectLake
	Queue       ports.MessageQueue
	Pipeline    *usecase.Pipeline
	Coordinator *usecase.Coordinator
	Review      *usecase.Review
	Search      *usecase.Search

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	log := logging.New(service, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	contexts := postgres.NewContextRepository(db)
	decisions := postgres.NewDecisionRepository(db)
	centroids := postgres.NewCentroidRepository(db)

	var jobs ports.JobStore
	ensurers := []schemaEnsurer{contexts, decisions, centroids}
	if cfg.JobStoreBackend == "memory" {
		jobs = jobstore.NewMemory()
	} else {
		jobRepo := postgres.NewJobRepository(db)
		ensurers = append(ensurers, jobRepo)
		jobs = jobRepo
	}
	if err := ensureSchemas(ctx, ensurers...); err != nil {
		_ = db.Close()
		return nil, err
	}

	lake, err := buildLake(ctx, cfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(
		cfg.OllamaURL,
		cfg.OllamaEmbedModel,
		ollama.WithTimeout(cfg.OllamaTimeout),
		ollama.WithRateLimit(cfg.OllamaRatePerSecond, 1),
		ollama.WithResilience(resilience.NewExecutor(resilience.DefaultConfig())),
	)
	embedder := ollama.NewEmbedder(ollamaClient)

	models := make([]ports.ScoringModel, 0, len(cfg.EnsembleModels))
	for _, model := range cfg.EnsembleModels {
		models = append(models, ollama.NewScorer(ollamaClient, model))
	}

	pipeline := usecase.NewPipeline(
		lake,
		extractor.New(),
		embedder,
		models,
		contexts,
		decisions,
		centroids,
		usecase.PipelineConfig{
			TopCandidates:       cfg.TopCandidates,
			LowConfidence:       cfg.LowConfidence,
			AdditionalThreshold: cfg.AdditionalThreshold,
			LearnThreshold:      cfg.LearnThreshold,
		},
		log,
	)

	indexer := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	pipeline.SetIndexer(indexer, chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap))

	coordinator := usecase.NewCoordinator(lake, queue, jobs, pipeline, cfg.Workers, log)
	review := usecase.NewReview(decisions, pipeline, cfg.LowConfidence, log)
	search := usecase.NewSearch(embedder, indexer, log)

	return &App{
		Config:      cfg,
		Log:         log,
		Lake:        lake,
		Queue:       queue,
		Pipeline:    pipeline,
		Coordinator: coordinator,
		Review:      review,
		Search:      search,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func buildLake(ctx context.Context, cfg config.Config, log *slog.Logger) (ports.ObjectLake, error) {
	if cfg.LakeBackend == "localfs" {
		lake, err := localfs.New(cfg.LakePath)
		if err != nil {
			return nil, fmt.Errorf("init localfs lake: %w", err)
		}
		return lake, nil
	}
	lake, err := minioLake.New(ctx, minioLake.Config{
		Endpoint:        cfg.MinioEndpoint,
		AccessKey:       cfg.MinioAccessKey,
		SecretKey:       cfg.MinioSecretKey,
		UseSSL:          cfg.MinioUseSSL,
		LandingBucket:   cfg.LandingBucket,
		CanonicalBucket: cfg.CanonicalBucket,
		DerivedBucket:   cfg.DerivedBucket,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init minio lake: %w", err)
	}
	return lake, nil
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

func ensureSchemas(ctx context.Context, ensurers ...schemaEnsurer) error {
	for _, ensurer := range ensurers {
		if err := ensurer.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
