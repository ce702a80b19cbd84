package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// Review exposes the human side of the loop: inspecting low-confidence
// decisions, correcting them and triggering re-classification.
type Review struct {
	decisions ports.DecisionStore
	runner    ports.PipelineRunner
	threshold float64
	log       *slog.Logger
}

func NewReview(decisions ports.DecisionStore, runner ports.PipelineRunner, threshold float64, log *slog.Logger) *Review {
	if threshold <= 0 {
		threshold = 0.70
	}
	return &Review{decisions: decisions, runner: runner, threshold: threshold, log: log}
}

// PendingReview lists decisions at or below the low-confidence threshold.
func (r *Review) PendingReview(ctx context.Context, limit int) ([]domain.RoutingDecision, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.decisions.ListLowConfidence(ctx, r.threshold, limit)
}

// Override records a human correction on a decision. The corrected category
// must resolve to a known registry entry.
func (r *Review) Override(ctx context.Context, decisionID int64, corrected string) error {
	canonical := category.Canonicalize(corrected)
	if canonical == category.Unclassified && corrected != category.Unclassified {
		return domain.WrapError(domain.ErrInvalidInput, "override decision",
			fmt.Errorf("unknown category %q", corrected))
	}
	if err := r.decisions.ApplyHumanOverride(ctx, decisionID, canonical); err != nil {
		return fmt.Errorf("apply human override: %w", err)
	}
	r.log.Info("decision overridden",
		slog.Int64("decision_id", decisionID), slog.String("category", canonical))
	return nil
}

// Relearn re-runs classification for a canonical document in place.
func (r *Review) Relearn(ctx context.Context, canonicalKey string) (*domain.PipelineResult, error) {
	if canonicalKey == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "relearn", fmt.Errorf("empty canonical key"))
	}
	return r.runner.Relearn(ctx, canonicalKey)
}

// Stats summarizes routing decisions per category.
func (r *Review) Stats(ctx context.Context) ([]domain.CategoryStat, error) {
	return r.decisions.CategoryStats(ctx)
}

// History lists the audit trail for one canonical document.
func (r *Review) History(ctx context.Context, documentKey string, limit int) ([]domain.RoutingDecision, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.decisions.ListByDocumentKey(ctx, documentKey, limit)
}
