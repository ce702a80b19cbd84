package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/domain"
)

// stageClassify runs the embedding pre-filter followed by the scoring-model
// ensemble and applies the confidence thresholds to the aggregate.
func (p *Pipeline) stageClassify(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	var logs []string

	ranked := prefilterCandidates(rec.DocEmbedding, rec.CategoryEmbeddings)
	names := candidateNames(ranked, p.cfg.TopCandidates)
	if len(ranked) > 0 {
		logs = append(logs, fmt.Sprintf("embedding pre-filter: top %d candidates = %v", len(names), names))
	} else {
		logs = append(logs, fmt.Sprintf("embedding pre-filter unavailable, using first %d registry categories", len(names)))
	}

	candidates := make(map[string]string, len(names))
	for _, name := range names {
		if category.Known(name) {
			candidates[name] = category.Description(name)
		}
	}

	contextText := buildContextText(rec.PredefinedContexts, rec.LearnedContexts)

	agg, err := p.ensembleClassify(ctx, rec.ContentPreview, candidates, contextText)
	if err != nil {
		return p.classifyFallback(ranked, err, logs)
	}

	primary := category.Canonicalize(agg.PrimaryCategory)
	confidence := agg.PrimaryConfidence

	additional := make([]string, 0, len(agg.AdditionalCategories))
	for _, cat := range agg.AdditionalCategories {
		canonical := category.Canonicalize(cat)
		if canonical != primary && canonical != category.Unclassified {
			additional = append(additional, canonical)
		}
	}

	reasoning := agg.Reasoning
	if confidence < p.cfg.LowConfidence {
		originalBest := agg.PrimaryCategory
		logs = append(logs, fmt.Sprintf(
			"no category reached %.0f%% threshold, best was %q at %.0f%%, marking unclassified for human review",
			p.cfg.LowConfidence*100, originalBest, confidence*100))
		primary = category.Unclassified
		additional = nil
		reasoning = fmt.Sprintf(
			"no confident classification, best score %.0f%% below %.0f%% threshold (original best: %s). %s",
			confidence*100, p.cfg.LowConfidence*100, originalBest, reasoning)
	}

	all := append([]string{primary}, additional...)

	maxVariance := 0.0
	for _, v := range agg.Variance {
		if v > maxVariance {
			maxVariance = v
		}
	}
	if maxVariance > 0.1 {
		logs = append(logs, fmt.Sprintf("high ensemble variance (%.2f), models disagree, consider human review", maxVariance))
	}

	logs = append(logs, fmt.Sprintf("classification: %q (%.0f%%) with %d additional categories %v",
		primary, confidence*100, len(additional), additional))

	return domain.StageUpdate{
		PrimaryCategory:      domain.Str(primary),
		AdditionalCategories: additional,
		AllCategories:        all,
		Confidence:           domain.Float(confidence),
		ConfidenceSource:     domain.Str(fmt.Sprintf("ensemble_%dllm", agg.Count)),
		CategoryScores:       agg.Scores,
		EnsembleVariance:     agg.Variance,
		EnsembleCount:        domain.Int(agg.Count),
		Reasoning:            domain.Str(reasoning),
		Logs:                 logs,
	}
}

// classifyFallback handles a dead ensemble: prefer the top embedding
// similarity category, otherwise surface unclassified with zero confidence.
func (p *Pipeline) classifyFallback(ranked []scoredCategory, cause error, logs []string) domain.StageUpdate {
	if len(ranked) > 0 {
		best := ranked[0]
		logs = append(logs, "classification fallback to embeddings: "+cause.Error())
		return domain.StageUpdate{
			PrimaryCategory:  domain.Str(best.Category),
			AllCategories:    []string{best.Category},
			Confidence:       domain.Float(best.Score),
			ConfidenceSource: domain.Str("embedding_fallback"),
			CategoryScores:   map[string]float64{},
			EnsembleVariance: map[string]float64{},
			EnsembleCount:    domain.Int(0),
			Reasoning:        domain.Str("ensemble unavailable: " + cause.Error() + ". Using embedding similarity."),
			Logs:             logs,
		}
	}

	logs = append(logs, "classification error: "+cause.Error())
	return domain.StageUpdate{
		PrimaryCategory:  domain.Str(category.Unclassified),
		AllCategories:    []string{category.Unclassified},
		Confidence:       domain.Float(0.0),
		ConfidenceSource: domain.Str("error"),
		CategoryScores:   map[string]float64{},
		EnsembleVariance: map[string]float64{},
		EnsembleCount:    domain.Int(0),
		Reasoning:        domain.Str("classification failed: " + cause.Error()),
		Logs:             logs,
	}
}

// buildContextText renders stored context entries into the auxiliary prompt
// section shared by every scoring model.
func buildContextText(predefined, learned []domain.ContextEntry) string {
	if len(predefined) == 0 && len(learned) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("=== EXAMPLES FROM DATABASE ===")
	for _, ctx := range predefined {
		b.WriteString(fmt.Sprintf("\n* %s: %s", strings.ToUpper(ctx.Category), truncateRunes(ctx.Text, 200)))
	}
	for _, ctx := range learned {
		sample := ctx.SampleContent
		if sample == "" {
			sample = ctx.Text
		}
		b.WriteString(fmt.Sprintf("\n* %s (learned, used %dx): %s...",
			strings.ToUpper(ctx.Category), ctx.UsageCount, truncateRunes(sample, 150)))
	}
	return b.String()
}
