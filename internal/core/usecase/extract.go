package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// stageInit assigns a stable document id if absent and detects the file type
// from the filename extension.
func (p *Pipeline) stageInit(_ context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	documentID := rec.DocumentID
	if documentID == "" {
		documentID = newDocumentID()
	}
	filename := rec.Filename
	if filename == "" {
		filename = filepath.Base(rec.LandingKey)
	}
	fileType := domain.InferFileType(filename)

	return domain.StageUpdate{
		DocumentID: domain.Str(documentID),
		Filename:   domain.Str(filename),
		FileType:   domain.Str(fileType),
		Logs:       []string{fmt.Sprintf("initialized: %s (type: %s, id: %s)", filename, fileType, documentID)},
	}
}

// stageExtract downloads the landing blob to a temporary file, extracts its
// text and builds the content preview. The temporary copy is removed
// unconditionally, success or failure.
func (p *Pipeline) stageExtract(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	if rec.LandingKey == "" {
		return failStage("extract", errors.New("no landing key on record"))
	}

	tempPath := filepath.Join(p.cfg.TempDir, "extract_"+filepath.Base(rec.LandingKey))
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			p.log.Warn("temp file cleanup failed", slog.String("path", tempPath), slog.Any("error", err))
		}
	}()

	if err := p.lake.Download(ctx, ports.TierLanding, rec.LandingKey, tempPath); err != nil {
		return failStage("extract", fmt.Errorf("download landing object: %w", err))
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

func newDocumentID() string {
	id := uuid.New()
	// Compact 32-char hex form, no dashes. Keeps object keys short.
	return fmt.Sprintf("%x", id[:])
}
