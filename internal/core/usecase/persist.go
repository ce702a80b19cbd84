package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/domain"
)

// stagePersist writes the routing audit record and bumps usage counters for
// every context entry that contributed. The object lake write in the migrate
// stage happens-before this; there is no transaction spanning both.
func (p *Pipeline) stagePersist(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	if rec.CanonicalKey == "" {
		return domain.StageUpdate{Logs: []string{"no canonical key, skipping routing decision"}}
	}

	decision := &domain.RoutingDecision{
		DocumentKey:          rec.CanonicalKey,
		Classification:       rec.PrimaryCategory,
		Confidence:           rec.Confidence,
		Reasoning:            rec.Reasoning,
		ContextIDsUsed:       rec.ContextIDsUsed,
		PipelineTarget:       category.PipelineFor(rec.PrimaryCategory),
		AdditionalCategories: rec.AdditionalCategories,
		CreatedAt:            time.Now().UTC(),
	}

	decisionID, err := p.decisions.Save(ctx, decision)
	if err != nil {
		// The canonical object is already committed; losing the audit row is
		// logged, not fatal.
		p.log.Error("routing decision save failed", slog.Any("error", err))
		return domain.StageUpdate{Logs: []string{"routing decision save warning: " + err.Error()}}
	}

	logs := []string{fmt.Sprintf("saved routing decision (id: %d)", decisionID)}

	if len(rec.ContextIDsUsed) > 0 {
		if err := p.contexts.IncrementUsage(ctx, rec.ContextIDsUsed); err != nil {
			p.log.Warn("context usage update failed", slog.Any("error", err))
			logs = append(logs, "context usage warning: "+err.Error())
		} else {
			logs = append(logs, fmt.Sprintf("updated usage for %d contexts", len(rec.ContextIDsUsed)))
		}
	}

	return domain.StageUpdate{
		DecisionID: domain.Int64(decisionID),
		Logs:       logs,
	}
}
