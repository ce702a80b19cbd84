package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// Relearn re-classifies an already-migrated canonical document. The blob
// never moves: the run re-extracts text from the canonical location and
// mutates tags in place, carrying over routing flags that the new
// classification does not set.
func (p *Pipeline) Relearn(ctx context.Context, canonicalKey string) (*domain.PipelineResult, error) {
	tags, err := p.lake.GetTags(ctx, ports.TierCanonical, canonicalKey)
	if err != nil {
		return nil, domain.WrapError(domain.ErrObjectNotFound, "relearn: read canonical tags", err)
	}

	fileType := tags[domain.TagFileType]
	if fileType == "" {
		fileType = domain.InferFileType(canonicalKey)
	}

	rec := &domain.PipelineRecord{
		DocumentID:   tags[domain.TagDocumentID],
		Filename:     filepath.Base(canonicalKey),
		FileType:     fileType,
		CanonicalKey: canonicalKey,
		FeedTheBrain: domain.ParseBoolTag(tags[domain.TagFeedTheBrain], true),
		FeedTheGraph: domain.ParseBoolTag(tags[domain.TagFeedTheGraph], false),
		Tabular:      domain.ParseBoolTag(tags[domain.TagTableur], false),
		Status:       domain.StatusProcessing,
		Logs:         []string{"relearn: " + canonicalKey},
		StartedAt:    time.Now().UTC(),
	}

	stages := []stage{
		{"extract", p.stageExtractCanonical},
		{"fetch_context", p.stageFetchContext},
		{"classify", p.stageClassify},
		{"retag", p.stageRetag},
		{"persist", p.stagePersist},
		{"learn", p.stageLearn},
	}
	for _, st := range stages {
		rec.Apply(p.runStage(ctx, st, rec))
		if rec.Failed() {
			break
		}
	}

	result := domain.ResultFromRecord(rec)
	p.syncIndex(ctx, rec, result)
	rec.Shrink()
	p.log.Info("relearn finished",
		slog.String("canonical_key", canonicalKey),
		slog.String("category", rec.PrimaryCategory),
		slog.Float64("confidence", rec.Confidence),
		slog.Bool("success", result.Success),
	)
	return result, nil
}

// stageExtractCanonical mirrors stageExtract against the canonical tier.
func (p *Pipeline) stageExtractCanonical(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	if rec.CanonicalKey == "" {
		return failStage("extract", errors.New("no canonical key on record"))
	}

	tempPath := filepath.Join(p.cfg.TempDir, "relearn_"+filepath.Base(rec.CanonicalKey))
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			p.log.Warn("temp file cleanup failed", slog.String("path", tempPath), slog.Any("error", err))
		}
	}()

	if err := p.lake.Download(ctx, ports.TierCanonical, rec.CanonicalKey, tempPath); err != nil {
		return failStage("extract", fmt.Errorf("download canonical object: %w", err))
	}

	text, err := p.extractor.Extract(ctx, tempPath, rec.FileType)
	if err != nil {
		return failStage("extract", fmt.Errorf("extract text: %w", err))
	}

	preview := truncateRunes(text, p.cfg.PreviewChars)
	return domain.StageUpdate{
		RawText:        domain.Str(text),
		ContentPreview: domain.Str(preview),
		Logs:           []string{fmt.Sprintf("extracted %d characters of text", len(text))},
	}
}

// stageRetag rewrites classification tags on the canonical object.
func (p *Pipeline) stageRetag(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	if err := p.relearnTags(ctx, rec.CanonicalKey, rec, time.Now().UTC()); err != nil {
		return failStage("retag", err)
	}
	return domain.StageUpdate{
		Status: domain.Status(domain.StatusRelearned),
		Logs:   []string{fmt.Sprintf("updated canonical tags: %s (category: %s)", rec.CanonicalKey, rec.PrimaryCategory)},
	}
}
