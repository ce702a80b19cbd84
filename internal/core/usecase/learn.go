package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/domain"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// stageLearn feeds high-confidence classifications back into the context
// store and the centroid cache. Both side effects are individually
// best-effort; a failure in one never blocks the other or fails the run.
func (p *Pipeline) stageLearn(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	if rec.Confidence < p.cfg.LearnThreshold || rec.PrimaryCategory == category.Unclassified {
		return domain.StageUpdate{Logs: []string{fmt.Sprintf(
			"skipped learning, confidence %.0f%% below threshold %.0f%%",
			rec.Confidence*100, p.cfg.LearnThreshold*100)}}
	}

	logs := []string{fmt.Sprintf("learning from high-confidence (%.0f%%) classification %q",
		rec.Confidence*100, rec.PrimaryCategory)}

	if len(strings.TrimSpace(rec.ContentPreview)) > 100 {
		entry := domain.ContextEntry{
			Category:              rec.PrimaryCategory,
			Type:                  domain.ContextLearned,
			Text:                  buildLearnedContextText(rec.ContentPreview, rec.PrimaryCategory),
			SampleContent:         truncateRunes(rec.ContentPreview, 500),
			SourceDocumentKey:     rec.CanonicalKey,
			ConfidenceWhenLearned: rec.Confidence,
			CreatedAt:             time.Now().UTC(),
		}
		if _, err := p.contexts.SaveLearned(ctx, entry); err != nil {
			p.log.Error("learned context save failed", slog.Any("error", err))
			logs = append(logs, "learned context warning: "+err.Error())
		} else {
			logs = append(logs, fmt.Sprintf("saved learned context for category %q", rec.PrimaryCategory))
		}
	}

	if len(rec.DocEmbedding) > 0 && rec.CanonicalKey != "" {
		if err := p.foldIntoCentroid(ctx, rec.PrimaryCategory, rec.DocEmbedding, rec.CanonicalKey); err != nil {
			p.log.Error("centroid update failed", slog.Any("error", err))
			logs = append(logs, "centroid update warning: "+err.Error())
		} else {
			logs = append(logs, fmt.Sprintf("updated centroid for %q with new document", rec.PrimaryCategory))
		}
	}

	return domain.StageUpdate{Logs: logs}
}

// foldIntoCentroid applies the exponential-moving-average update to the
// category centroid. A dimension mismatch resets the entry to the new
// embedding alone rather than merging incompatible vectors.
func (p *Pipeline) foldIntoCentroid(ctx context.Context, cat string, embedding []float32, canonicalKey string) error {
	existing, err := p.centroids.Get(ctx, cat)
	if err != nil {
		return fmt.Errorf("load centroid: %w", err)
	}

	now := time.Now().UTC()
	if existing == nil || len(existing.Embedding) == 0 || len(existing.Embedding) != len(embedding) {
		return p.centroids.Save(ctx, &domain.CategoryCentroid{
			Category:    cat,
			Embedding:   embedding,
			SampleCount: 1,
			SampleKeys:  []string{canonicalKey},
			UpdatedAt:   now,
		})
	}

	keys := append(existing.SampleKeys, canonicalKey)
	if len(keys) > domain.MaxCentroidSampleKeys {
		keys = keys[len(keys)-domain.MaxCentroidSampleKeys:]
	}

	return p.centroids.Save(ctx, &domain.CategoryCentroid{
		Category:    cat,
		Embedding:   updateCentroidEMA(existing.Embedding, embedding, p.cfg.CentroidWeight),
		SampleCount: existing.SampleCount + 1,
		SampleKeys:  keys,
		UpdatedAt:   now,
	})
}

func buildLearnedContextText(preview, cat string) string {
	sample := strings.TrimSpace(truncateRunes(preview, 300))
	sample = whitespaceRe.ReplaceAllString(sample, " ")
	return truncateRunes(fmt.Sprintf("Document classified as %s. Content excerpt: %s", cat, sample), 500)
}
