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

type CentroidRepository struct {
	db *sql.DB
}

func NewCentroidRepository(db *sql.DB) *CentroidRepository {
	return &CentroidRepository{db: db}
}

func (r *CentroidRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082903)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS category_centroids (
	category TEXT PRIMARY KEY,
	embedding JSONB NOT NULL,
	sample_count INTEGER NOT NULL DEFAULT 0,
	sample_keys JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CentroidRepository) GetAll(ctx context.Context) (map[string][]float32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, embedding FROM category_centroids`)
	if err != nil {
		return nil, fmt.Errorf("query centroids: %w", err)
	}
	defer rows.Close()

	centroids := make(map[string][]float32)
	for rows.Next() {
		var category string
		var raw []byte
		if err := rows.Scan(&category, &raw); err != nil {
			return nil, fmt.Errorf("scan centroid: %w", err)
		}
		var embedding []float32
		if err := json.Unmarshal(raw, &embedding); err != nil {
			return nil, fmt.Errorf("unmarshal centroid embedding: %w", err)
		}
		centroids[category] = embedding
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate centroids: %w", err)
	}
	return centroids, nil
}

func (r *CentroidRepository) Get(ctx context.Context, cat string) (*domain.CategoryCentroid, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT category, embedding, sample_count, sample_keys, updated_at
FROM category_centroids
WHERE category = $1
`, cat)

	var centroid domain.CategoryCentroid
	var embedding, sampleKeys []byte
	err := row.Scan(&centroid.Category, &embedding, &centroid.SampleCount, &sampleKeys, &centroid.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan centroid: %w", err)
	}
	if err := json.Unmarshal(embedding, &centroid.Embedding); err != nil {
		return nil, fmt.Errorf("unmarshal centroid embedding: %w", err)
	}
	if err := json.Unmarshal(sampleKeys, &centroid.SampleKeys); err != nil {
		return nil, fmt.Errorf("unmarshal centroid sample keys: %w", err)
	}
	return &centroid, nil
}

func (r *CentroidRepository) Save(ctx context.Context, centroid *domain.CategoryCentroid) error {
	embedding, err := json.Marshal(centroid.Embedding)
	if err != nil {
		return fmt.Errorf("marshal centroid embedding: %w", err)
	}
	sampleKeys, err := json.Marshal(emptyIfNilStr(centroid.SampleKeys))
	if err != nil {
		return fmt.Errorf("marshal centroid sample keys: %w", err)
	}
	updatedAt := centroid.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO category_centroids (category, embedding, sample_count, sample_keys, updated_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (category) DO UPDATE
SET embedding = EXCLUDED.embedding,
	sample_count = EXCLUDED.sample_count,
	sample_keys = EXCLUDED.sample_keys,
	updated_at = EXCLUDED.updated_at
`, centroid.Category, embedding, centroid.SampleCount, sampleKeys, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert centroid: %w", err)
	}
	return nil
}

// IsStale reports whether the oldest centroid is past maxAge. An empty table
// is stale so the first run triggers a refresh.
func (r *CentroidRepository) IsStale(ctx context.Context, maxAge time.Duration) (bool, error) {
	var oldest sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT MIN(updated_at) FROM category_centroids`).Scan(&oldest)
	if err != nil {
		return false, fmt.Errorf("query centroid age: %w", err)
	}
	if !oldest.Valid {
		return true, nil
	}
	return time.Since(oldest.Time) > maxAge, nil
}
