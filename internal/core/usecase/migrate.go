package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

// stageMigrate moves the document from landing to its permanent canonical
// location and writes the authoritative tag set. This is the durability
// checkpoint: after it succeeds the blob never moves again.
func (p *Pipeline) stageMigrate(ctx context.Context, rec *domain.PipelineRecord) domain.StageUpdate {
	if rec.LandingKey == "" {
		return failStage("migrate", errors.New("no landing key on record"))
	}
	if rec.DocumentID == "" {
		return failStage("migrate", errors.New("no document id on record"))
	}

	// Threshold is inclusive: exactly-at-threshold goes to review.
	status := domain.StatusProcessed
	if rec.Confidence <= p.cfg.LowConfidence {
		status = domain.StatusPendingReview
	}

	tabular := rec.FileType == "csv" || rec.FileType == "json"

	canonicalKey := canonicalKeyFor(rec.DocumentID, rec.Filename)
	tags := p.buildCanonicalTags(rec, status, tabular, time.Now().UTC())

	if err := p.migrateObject(ctx, rec.LandingKey, canonicalKey, tags); err != nil {
		return failStage("migrate", err)
	}

	return domain.StageUpdate{
		CanonicalKey: domain.Str(canonicalKey),
		Status:       domain.Status(status),
		Tabular:      domain.Bool(tabular),
		Logs: []string{fmt.Sprintf("migrated to canonical: %s (status: %s, categories: %s)",
			canonicalKey, status, tags[domain.TagCategories])},
	}
}

// migrateObject runs the copy-then-tag-then-delete protocol. A tag failure
// rolls back the canonical copy and leaves the landing object untouched so
// the migration can be retried; the landing copy is deleted only after tags
// are confirmed.
func (p *Pipeline) migrateObject(ctx context.Context, landingKey, canonicalKey string, tags map[string]string) error {
	if err := p.lake.Copy(ctx, ports.TierLanding, landingKey, ports.TierCanonical, canonicalKey); err != nil {
		return fmt.Errorf("copy to canonical: %w", err)
	}

	if err := p.lake.SetTags(ctx, ports.TierCanonical, canonicalKey, tags); err != nil {
		if rbErr := p.lake.Delete(ctx, ports.TierCanonical, canonicalKey); rbErr != nil {
			p.log.Warn("canonical rollback failed",
				slog.String("key", canonicalKey), slog.Any("error", rbErr))
		}
		return fmt.Errorf("set canonical tags: %w", err)
	}

	if err := p.lake.Delete(ctx, ports.TierLanding, landingKey); err != nil {
		// Canonical copy is already authoritative; a leftover landing blob
		// is an operational nuisance, not a correctness problem.
		p.log.Warn("landing cleanup failed",
			slog.String("key", landingKey), slog.Any("error", err))
	}
	return nil
}

func (p *Pipeline) buildCanonicalTags(rec *domain.PipelineRecord, status domain.RecordStatus, tabular bool, now time.Time) map[string]string {
	all := rec.AllCategories
	if len(all) == 0 {
		all = []string{rec.PrimaryCategory}
	}

	tags := map[string]string{
		domain.TagDocumentID:   domain.SanitizeTagValue(rec.DocumentID, 128),
		domain.TagFileType:     domain.SanitizeTagValue(rec.FileType, 32),
		domain.TagCategories:   domain.SanitizeTagValue(domain.FormatCategoriesTag(all, rec.CategoryScores), 256),
		domain.TagConfidence:   domain.FormatConfidenceTag(rec.Confidence),
		domain.TagUploadDate:   domain.SanitizeTagValue(now.Format(time.RFC3339), 64),
		domain.TagStatus:       string(status),
		domain.TagFeedTheBrain: domain.FormatBoolTag(rec.FeedTheBrain),
		domain.TagFeedTheGraph: domain.FormatBoolTag(rec.FeedTheGraph),
		domain.TagTableur:      domain.FormatBoolTag(tabular),
	}
	if rec.Reasoning != "" {
		tags[domain.TagReasoning] = domain.SanitizeTagValue(rec.Reasoning, 200)
	}
	return tags
}

// relearnTags rewrites classification tags on an existing canonical object
// in place. The blob never moves; identity and upload-date tags are kept,
// the routing flags carry over from the existing tag set unless overridden.
func (p *Pipeline) relearnTags(ctx context.Context, canonicalKey string, rec *domain.PipelineRecord, now time.Time) error {
	existing, err := p.lake.GetTags(ctx, ports.TierCanonical, canonicalKey)
	if err != nil {
		return fmt.Errorf("read existing tags: %w", err)
	}

	all := rec.AllCategories
	if len(all) == 0 {
		all = []string{rec.PrimaryCategory}
	}

	documentID := existing[domain.TagDocumentID]
	if documentID == "" {
		documentID = rec.DocumentID
	}
	fileType := existing[domain.TagFileType]
	if fileType == "" {
		fileType = rec.FileType
	}
	uploadDate := existing[domain.TagUploadDate]
	if uploadDate == "" {
		uploadDate = now.Format(time.RFC3339)
	}

	tags := map[string]string{
		domain.TagDocumentID:   domain.SanitizeTagValue(documentID, 128),
		domain.TagFileType:     domain.SanitizeTagValue(fileType, 32),
		domain.TagCategories:   domain.SanitizeTagValue(domain.FormatCategoriesTag(all, rec.CategoryScores), 256),
		domain.TagConfidence:   domain.FormatConfidenceTag(rec.Confidence),
		domain.TagUploadDate:   domain.SanitizeTagValue(uploadDate, 64),
		domain.TagStatus:       string(domain.StatusRelearned),
		domain.TagRelearnDate:  domain.SanitizeTagValue(now.Format(time.RFC3339), 64),
		domain.TagFeedTheBrain: carryOverFlag(existing, domain.TagFeedTheBrain, "1"),
		domain.TagFeedTheGraph: carryOverFlag(existing, domain.TagFeedTheGraph, "0"),
		domain.TagTableur:      carryOverFlag(existing, domain.TagTableur, "0"),
	}
	// S3 caps objects at 10 tags. relearn_date occupies the slot reasoning
	// uses on first migration, so reasoning is not written here.

	if err := p.lake.SetTags(ctx, ports.TierCanonical, canonicalKey, tags); err != nil {
		return fmt.Errorf("update canonical tags: %w", err)
	}
	return nil
}

func carryOverFlag(existing map[string]string, key, def string) string {
	if v, ok := existing[key]; ok && v != "" {
		return v
	}
	return def
}

func canonicalKeyFor(documentID, filename string) string {
	return "docs/" + documentID + filepath.Ext(filename)
}
