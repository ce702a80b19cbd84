package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// SetIndexer enables the best-effort Q&A index side channel. Must be set
// before the first Run.
func (p *Pipeline) SetIndexer(indexer ports.SearchIndexer, chunker ports.Chunker) {
	p.indexer = indexer
	p.chunker = chunker
}

// syncIndex pushes the document's chunked text into the Q&A index after a
// successful migration. Delivery is best-effort: failures are recorded on
// the result and never affect the committed routing decision.
func (p *Pipeline) syncIndex(ctx context.Context, rec *domain.PipelineRecord, result *domain.PipelineResult) {
	if p.indexer == nil || p.chunker == nil {
		return
	}
	if rec.Failed() || !rec.FeedTheBrain || rec.RawText == "" || rec.CanonicalKey == "" {
		return
	}

	count, err := p.indexDocument(ctx, rec)
	if err != nil {
		p.log.Warn("index sync failed",
			slog.String("document_id", rec.DocumentID), slog.Any("error", err))
		result.IndexSync = "failed: " + err.Error()
		return
	}
	result.IndexSync = "ok"
	result.ChunkCount = count
}

func (p *Pipeline) indexDocument(ctx context.Context, rec *domain.PipelineRecord) (int, error) {
	chunks := p.chunker.Split(rec.RawText)
	if len(chunks) == 0 {
		return 0, errors.New("chunking produced zero chunks")
	}
	vectors, err := p.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, errors.New("vectors/chunks length mismatch")
	}

	// Chunk points get fresh ids on every upsert, so prior chunks of the
	// document must be cleared first or a relearn accumulates duplicates.
	if err := p.indexer.DeleteByDocument(ctx, rec.DocumentID); err != nil {
		return 0, err
	}

	doc := ports.IndexedDocument{
		DocumentID:   rec.DocumentID,
		CanonicalKey: rec.CanonicalKey,
		Filename:     rec.Filename,
		Categories:   rec.AllCategories,
	}
	if err := p.indexer.IndexChunks(ctx, doc, chunks, vectors); err != nil {
		return 0, err
	}
	return len(chunks), nil
}
