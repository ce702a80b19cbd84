package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

var (
	errEmptyQuestion   = errors.New("empty question")
	errUnknownCategory = errors.New("unknown category filter")
)

// Search answers ad-hoc queries against the indexed document corpus. It is a
// read-only side channel over the Q&A index and never touches the lake.
type Search struct {
	embedder ports.Embedder
	searcher ports.ChunkSearcher
	log      *slog.Logger
}

func NewSearch(embedder ports.Embedder, searcher ports.ChunkSearcher, log *slog.Logger) *Search {
	return &Search{embedder: embedder, searcher: searcher, log: log}
}

// Query embeds the question and returns the closest indexed chunks, at most
// one per document. A category filter narrows results when it names a known
// category; unknown filters are rejected rather than silently returning the
// whole corpus.
func (s *Search) Query(ctx context.Context, question string, limit int, categoryFilter string) ([]ports.RetrievedChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search query", errEmptyQuestion)
	}
	if limit <= 0 {
		limit = 5
	}

	if categoryFilter != "" {
		canonical := category.Canonicalize(categoryFilter)
		if canonical == category.Unclassified {
			return nil, domain.WrapError(domain.ErrInvalidInput, "search query", errUnknownCategory)
		}
		categoryFilter = canonical
	}

	vector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	// Over-fetch so collapsing to one chunk per document can still fill
	// the requested limit.
	hits, err := s.searcher.SearchChunks(ctx, vector, limit*3, categoryFilter)
	if err != nil {
		return nil, err
	}
	hits = collapseByDocument(hits, limit)
	s.log.Debug("search query served",
		slog.Int("hits", len(hits)),
		slog.String("category_filter", categoryFilter),
	)
	return hits, nil
}

// collapseByDocument keeps the best scoring chunk per document, orders the
// survivors by score with a deterministic tie-break and trims to limit.
func collapseByDocument(hits []ports.RetrievedChunk, limit int) []ports.RetrievedChunk {
	best := make(map[string]ports.RetrievedChunk, len(hits))
	for _, hit := range hits {
		kept, ok := best[hit.DocumentID]
		if !ok || hit.Score > kept.Score {
			best[hit.DocumentID] = hit
		}
	}

	out := make([]ports.RetrievedChunk, 0, len(best))
	for _, hit := range best {
		out = append(out, hit)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
