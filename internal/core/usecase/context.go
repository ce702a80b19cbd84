package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// minEmbedChars is the minimum amount of text worth embedding.
const minEmbedChars = 50

// stageFetchContext loads classification contexts, computes the document
// embedding and loads (refreshing if stale) the category centroid cache.
// Every step here is best-effort: failures degrade to defaults and log a
// warning, the stage never fails the pipeline.
func (p *Pipeline) stageFetchContext(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	var logs []string

	predefined, err := p.contexts.GetPredefined(ctx)
	if err != nil {
		p.log.Warn("predefined context fetch failed", slog.Any("error", err))
		logs = append(logs, "context fetch warning: "+err.Error())
		predefined = nil
	}
	learned, err := p.contexts.GetTopLearned(ctx, p.cfg.LearnedContextLimit)
	if err != nil {
		p.log.Warn("learned context fetch failed", slog.Any("error", err))
		logs = append(logs, "learned context warning: "+err.Error())
		learned = nil
	}

	contextIDs := make([]int64, 0, len(predefined)+len(learned))
	for _, c := range predefined {
		contextIDs = append(contextIDs, c.ID)
	}
	for _, c := range learned {
		contextIDs = append(contextIDs, c.ID)
	}
	logs = append(logs, fmt.Sprintf("fetched %d predefined and %d learned contexts", len(predefined), len(learned)))

	var docEmbedding []float32
	preview := rec.ContentPreview
	if preview == "" {
		preview = rec.RawText
	}
	if len(strings.TrimSpace(preview)) > minEmbedChars {
		vec, err := p.embedder.EmbedQuery(ctx, truncateRunes(preview, p.cfg.EmbedPreviewChars))
		if err != nil {
			p.log.Warn("document embedding failed", slog.Any("error", err))
			logs = append(logs, "document embedding warning: "+err.Error())
		} else {
			docEmbedding = vec
			logs = append(logs, fmt.Sprintf("created document embedding (%d dimensions)", len(vec)))
		}
	}

	centroids := p.loadCentroids(ctx, &logs)

	return domain.StageUpdate{
		PredefinedContexts: predefined,
		LearnedContexts:    learned,
		ContextIDsUsed:     contextIDs,
		DocEmbedding:       docEmbedding,
		CategoryEmbeddings: centroids,
		Logs:               logs,
	}
}

func (p *Pipeline) loadCentroids(ctx context.Context, logs *[]string) map[string][]float32 {
	stale, err := p.centroids.IsStale(ctx, p.cfg.CacheMaxAge)
	if err != nil {
		p.log.Warn("centroid staleness check failed", slog.Any("error", err))
		stale = false
	}

	if stale {
		*logs = append(*logs, "category centroid cache is stale, refreshing from canonical samples")
		if refreshed := p.refreshCentroids(ctx); len(refreshed) > 0 {
			*logs = append(*logs, fmt.Sprintf("refreshed centroids for %d categories", len(refreshed)))
			return refreshed
		}
		*logs = append(*logs, "centroid refresh produced nothing, falling back to cached entries")
	}

	all, err := p.centroids.GetAll(ctx)
	if err != nil {
		p.log.Warn("centroid cache load failed", slog.Any("error", err))
		*logs = append(*logs, "centroid cache warning: "+err.Error())
		return nil
	}
	*logs = append(*logs, fmt.Sprintf("loaded %d category centroids from cache", len(all)))
	return all
}

type sampleRef struct {
	key      string
	fileType string
}

// refreshCentroids rebuilds category centroids from high-confidence canonical
// documents. Per-category work runs concurrently; any per-category failure is
// logged and skipped so a partial refresh still counts.
func (p *Pipeline) refreshCentroids(ctx context.Context) map[string][]float32 {
	samples, err := p.canonicalSamplesByCategory(ctx)
	if err != nil {
		p.log.Warn("canonical sample listing failed", slog.Any("error", err))
		return nil
	}
	if len(samples) == 0 {
		return nil
	}

	out := make(map[string][]float32, len(samples))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for cat, refs := range samples {
		g.Go(func() error {
			var texts []string
			var usedKeys []string
			for _, ref := range refs {
				text, err := p.extractSampleText(gctx, ref)
				if err != nil {
					p.log.Warn("sample extraction failed",
						slog.String("key", ref.key), slog.Any("error", err))
					continue
				}
				if len(strings.TrimSpace(text)) <= minEmbedChars {
					continue
				}
				texts = append(texts, truncateRunes(text, p.cfg.RefreshSampleChars))
				usedKeys = append(usedKeys, ref.key)
			}
			if len(texts) == 0 {
				return nil
			}

			vecs, err := p.embedder.Embed(gctx, texts)
			if err != nil || len(vecs) == 0 {
				p.log.Warn("sample embedding failed", slog.String("category", cat), slog.Any("error", err))
				return nil
			}
			centroid := meanCentroid(vecs)
			if err := p.centroids.Save(gctx, &domain.CategoryCentroid{
				Category:    cat,
				Embedding:   centroid,
				SampleCount: len(usedKeys),
				SampleKeys:  usedKeys,
				UpdatedAt:   time.Now().UTC(),
			}); err != nil {
				p.log.Warn("centroid save failed", slog.String("category", cat), slog.Any("error", err))
				return nil
			}

			mu.Lock()
			out[cat] = centroid
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// canonicalSamplesByCategory lists canonical objects and groups high
// confidence ones by their primary category, up to the configured sample
// count each.
func (p *Pipeline) canonicalSamplesByCategory(ctx context.Context) (map[string][]sampleRef, error) {
	objects, err := p.lake.List(ctx, ports.TierCanonical, "docs/")
	if err != nil {
		return nil, err
	}

	samples := make(map[string][]sampleRef)
	for _, obj := range objects {
		tags, err := p.lake.GetTags(ctx, ports.TierCanonical, obj.Key)
		if err != nil {
			continue
		}
		status := tags[domain.TagStatus]
		if status != string(domain.StatusProcessed) && status != string(domain.StatusRelearned) {
			continue
		}
		if domain.ParseConfidenceTag(tags[domain.TagConfidence]) < p.cfg.RefreshMinConfidence {
			continue
		}
		cats := domain.SplitCategoriesTag(tags[domain.TagCategories])
		if len(cats) == 0 {
			continue
		}
		primary := cats[0]
		if len(samples[primary]) >= p.cfg.RefreshSamples {
			continue
		}
		samples[primary] = append(samples[primary], sampleRef{
			key:      obj.Key,
			fileType: tags[domain.TagFileType],
		})
	}
	return samples, nil
}

func (p *Pipeline) extractSampleText(ctx context.Context, ref sampleRef) (string, error) {
	tempPath := filepath.Join(p.cfg.TempDir, "sample_"+newDocumentID())
	defer os.Remove(tempPath)

	if err := p.lake.Download(ctx, ports.TierCanonical, ref.key, tempPath); err != nil {
		return "", err
	}
	return p.extractor.Extract(ctx, tempPath, ref.fileType)
}
