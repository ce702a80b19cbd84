package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func (r *DecisionRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082902)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS routing_decisions (
	id BIGSERIAL PRIMARY KEY,
	document_key TEXT NOT NULL,
	classification TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	reasoning TEXT,
	context_ids_used JSONB NOT NULL DEFAULT '[]'::jsonb,
	pipeline_target TEXT NOT NULL,
	additional_categories JSONB NOT NULL DEFAULT '[]'::jsonb,
	human_override BOOLEAN NOT NULL DEFAULT FALSE,
	corrected_classification TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_document_key ON routing_decisions(document_key);
CREATE INDEX IF NOT EXISTS idx_decisions_confidence ON routing_decisions(confidence);
CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON routing_decisions(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DecisionRepository) Save(ctx context.Context, decision *domain.RoutingDecision) (int64, error) {
	contextIDs, err := json.Marshal(emptyIfNilInt64(decision.ContextIDsUsed))
	if err != nil {
		return 0, fmt.Errorf("marshal context ids: %w", err)
	}
	additional, err := json.Marshal(emptyIfNilStr(decision.AdditionalCategories))
	if err != nil {
		return 0, fmt.Errorf("marshal additional categories: %w", err)
	}
	createdAt := decision.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err = r.db.QueryRowContext(ctx, `
INSERT INTO routing_decisions (
	document_key, classification, confidence, reasoning, context_ids_used, pipeline_target, additional_categories, human_override, corrected_classification, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id
`,
		decision.DocumentKey, decision.Classification, decision.Confidence, decision.Reasoning, contextIDs,
		decision.PipelineTarget, additional, decision.HumanOverride, decision.CorrectedClassification, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert routing decision: %w", err)
	}
	return id, nil
}

func (r *DecisionRepository) ListByDocumentKey(ctx context.Context, documentKey string, limit int) ([]domain.RoutingDecision, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_key, classification, confidence, COALESCE(reasoning, ''), context_ids_used, pipeline_target, additional_categories, human_override, COALESCE(corrected_classification, ''), created_at
FROM routing_decisions
WHERE document_key = $1
ORDER BY created_at DESC
LIMIT $2
`, documentKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions by document: %w", err)
	}
	defer rows.Close()
	return scanDecisions(rows)
}

func (r *DecisionRepository) ListLowConfidence(ctx context.Context, threshold float64, limit int) ([]domain.RoutingDecision, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_key, classification, confidence, COALESCE(reasoning, ''), context_ids_used, pipeline_target, additional_categories, human_override, COALESCE(corrected_classification, ''), created_at
FROM routing_decisions
WHERE confidence <= $1 AND human_override = FALSE
ORDER BY created_at DESC
LIMIT $2
`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("query low-confidence decisions: %w", err)
	}
	defer rows.Close()
	return scanDecisions(rows)
}

func (r *DecisionRepository) ApplyHumanOverride(ctx context.Context, decisionID int64, corrected string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE routing_decisions
SET human_override = TRUE, corrected_classification = $2
WHERE id = $1
`, decisionID, corrected)
	if err != nil {
		return fmt.Errorf("apply human override: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("override rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDecisionNotFound, "apply human override", fmt.Errorf("decision %d", decisionID))
	}
	return nil
}

func (r *DecisionRepository) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT classification, COUNT(*), AVG(confidence)
FROM routing_decisions
GROUP BY classification
ORDER BY COUNT(*) DESC
`)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.CategoryStat
	for rows.Next() {
		var stat domain.CategoryStat
		if err := rows.Scan(&stat.Category, &stat.Count, &stat.AvgConfidence); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return stats, nil
}

func scanDecisions(rows *sql.Rows) ([]domain.RoutingDecision, error) {
	var decisions []domain.RoutingDecision
	for rows.Next() {
		var decision domain.RoutingDecision
		var contextIDs, additional []byte
		err := rows.Scan(
			&decision.ID, &decision.DocumentKey, &decision.Classification, &decision.Confidence, &decision.Reasoning,
			&contextIDs, &decision.PipelineTarget, &additional, &decision.HumanOverride, &decision.CorrectedClassification, &decision.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return decisions, nil
			}
			return nil, fmt.Errorf("scan routing decision: %w", err)
		}
		if err := json.Unmarshal(contextIDs, &decision.ContextIDsUsed); err != nil {
			return nil, fmt.Errorf("unmarshal context ids: %w", err)
		}
		if err := json.Unmarshal(additional, &decision.AdditionalCategories); err != nil {
			return nil, fmt.Errorf("unmarshal additional categories: %w", err)
		}
		decisions = append(decisions, decision)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routing decisions: %w", err)
	}
	return decisions, nil
}

func emptyIfNilInt64(s []int64) []int64 {
	if s == nil {
		return []int64{}
	}
	return s
}

func emptyIfNilStr(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
