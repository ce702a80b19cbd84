package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

type ContextRepository struct {
	db *sql.DB
}

func NewContextRepository(db *sql.DB) *ContextRepository {
	return &ContextRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ContextRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS metadata_contexts (
	id BIGSERIAL PRIMARY KEY,
	category TEXT NOT NULL,
	context_type TEXT NOT NULL,
	context_text TEXT NOT NULL,
	sample_content TEXT,
	source_document_key TEXT,
	confidence_when_learned DOUBLE PRECISION NOT NULL DEFAULT 0,
	usage_count INTEGER NOT NULL DEFAULT 0,
	verified BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	last_used_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_contexts_type ON metadata_contexts(context_type);
CREATE INDEX IF NOT EXISTS idx_contexts_usage ON metadata_contexts(usage_count DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ContextRepository) GetPredefined(ctx context.Context) ([]domain.ContextEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, category, context_type, context_text, COALESCE(sample_content, ''), COALESCE(source_document_key, ''),
	confidence_when_learned, usage_count, verified, created_at, COALESCE(last_used_at, 'epoch'::timestamptz)
FROM metadata_contexts
WHERE context_type IN ($1, $2)
ORDER BY category, id
`, string(domain.ContextPredefined), string(domain.ContextHumanVerified))
	if err != nil {
		return nil, fmt.Errorf("query predefined contexts: %w", err)
	}
	defer rows.Close()
	return scanContextEntries(rows)
}

func (r *ContextRepository) GetTopLearned(ctx context.Context, limit int) ([]domain.ContextEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, category, context_type, context_text, COALESCE(sample_content, ''), COALESCE(source_document_key, ''),
	confidence_when_learned, usage_count, verified, created_at, COALESCE(last_used_at, 'epoch'::timestamptz)
FROM metadata_contexts
WHERE context_type = $1
ORDER BY usage_count DESC, id DESC
LIMIT $2
`, string(domain.ContextLearned), limit)
	if err != nil {
		return nil, fmt.Errorf("query learned contexts: %w", err)
	}
	defer rows.Close()
	return scanContextEntries(rows)
}

func (r *ContextRepository) SaveLearned(ctx context.Context, entry domain.ContextEntry) (int64, error) {
	return r.insert(ctx, entry, domain.ContextLearned)
}

func (r *ContextRepository) SavePredefined(ctx context.Context, entry domain.ContextEntry) (int64, error) {
	return r.insert(ctx, entry, domain.ContextPredefined)
}

func (r *ContextRepository) insert(ctx context.Context, entry domain.ContextEntry, fallbackType domain.ContextType) (int64, error) {
	contextType := entry.Type
	if contextType == "" {
		contextType = fallbackType
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO metadata_contexts (
	category, context_type, context_text, sample_content, source_document_key, confidence_when_learned, usage_count, verified, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id
`,
		entry.Category, string(contextType), entry.Text, entry.SampleContent, entry.SourceDocumentKey,
		entry.ConfidenceWhenLearned, entry.UsageCount, entry.Verified, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert context entry: %w", err)
	}
	return id, nil
}

func (r *ContextRepository) IncrementUsage(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE metadata_contexts
SET usage_count = usage_count + 1, last_used_at = $2
WHERE id = ANY($1)
`, ids, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment context usage: %w", err)
	}
	return nil
}

func scanContextEntries(rows *sql.Rows) ([]domain.ContextEntry, error) {
	var entries []domain.ContextEntry
	for rows.Next() {
		var entry domain.ContextEntry
		var contextType string
		err := rows.Scan(
			&entry.ID, &entry.Category, &contextType, &entry.Text, &entry.SampleContent, &entry.SourceDocumentKey,
			&entry.ConfidenceWhenLearned, &entry.UsageCount, &entry.Verified, &entry.CreatedAt, &entry.LastUsedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan context entry: %w", err)
		}
		entry.Type = domain.ContextType(contextType)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate context entries: %w", err)
	}
	return entries, nil
}
