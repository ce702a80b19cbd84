package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kirillkom/docrouter/internal/core/domain"
)

func learnPipeline(contexts *contextStoreFake, centroids *centroidStoreFake) *Pipeline {
	return &Pipeline{
		contexts:  contexts,
		centroids: centroids,
		cfg:       PipelineConfig{}.withDefaults(),
		log:       testLogger(),
	}
}

func learnRecord(confidence float64) *domain.PipelineRecord {
	rec := domain.NewPipelineRecord("uploads/doc.txt", "doc.txt", "doc")
	rec.PrimaryCategory = "invoice"
	rec.CanonicalKey = "docs/doc.txt"
	rec.Confidence = confidence
	rec.ContentPreview = sampleText
	rec.DocEmbedding = []float32{1, 0}
	return rec
}

func TestLearnHighConfidenceAppendsContextAndUpdatesCentroid(t *testing.T) {
	contexts := &contextStoreFake{}
	centroids := newCentroidStoreFake()
	centroids.centroids["invoice"] = &domain.CategoryCentroid{
		Category: "invoice", Embedding: []float32{0, 1}, SampleCount: 2, SampleKeys: []string{"docs/a.txt"},
	}
	p := learnPipeline(contexts, centroids)

	update := p.stageLearn(context.Background(), learnRecord(0.91))
	if update.Status != nil {
		t.Fatalf("learning must never change status, got %v", *update.Status)
	}
	if len(contexts.saved) != 1 {
		t.Fatalf("expected 1 learned context, got %d", len(contexts.saved))
	}
	entry := contexts.saved[0]
	if entry.Category != "invoice" || entry.ConfidenceWhenLearned != 0.91 {
		t.Fatalf("unexpected learned entry: %+v", entry)
	}
	if entry.SourceDocumentKey != "docs/doc.txt" {
		t.Fatalf("source key = %q", entry.SourceDocumentKey)
	}

	inv := centroids.centroids["invoice"]
	if inv.SampleCount != 3 {
		t.Fatalf("sample count = %d, want 3", inv.SampleCount)
	}
	if len(inv.SampleKeys) != 2 || inv.SampleKeys[1] != "docs/doc.txt" {
		t.Fatalf("sample keys = %v", inv.SampleKeys)
	}
	// EMA with w=0.1: new centroid = 0.9*(0,1) + 0.1*(1,0).
	if diff := inv.Embedding[0] - 0.1; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("centroid[0] = %v, want 0.1", inv.Embedding[0])
	}
}

func TestLearnBelowThresholdIsANoOp(t *testing.T) {
	contexts := &contextStoreFake{}
	centroids := newCentroidStoreFake()
	p := learnPipeline(contexts, centroids)

	update := p.stageLearn(context.Background(), learnRecord(0.78))
	if len(contexts.saved) != 0 {
		t.Fatalf("below threshold must not save contexts")
	}
	if len(centroids.centroids) != 0 {
		t.Fatalf("below threshold must not touch centroids")
	}
	if len(update.Logs) != 1 || !strings.Contains(update.Logs[0], "skipped learning") {
		t.Fatalf("expected a skip log, got %v", update.Logs)
	}
}

func TestLearnNeverLearnsUnclassified(t *testing.T) {
	contexts := &contextStoreFake{}
	centroids := newCentroidStoreFake()
	p := learnPipeline(contexts, centroids)

	rec := learnRecord(0.95)
	rec.PrimaryCategory = "unclassified"
	p.stageLearn(context.Background(), rec)

	if len(contexts.saved) != 0 || len(centroids.centroids) != 0 {
		t.Fatalf("unclassified must never feed the learning loop")
	}
}

func TestLearnContextFailureDoesNotBlockCentroidUpdate(t *testing.T) {
	contexts := &contextStoreFake{saveErr: domain.ErrTemporary}
	centroids := newCentroidStoreFake()
	p := learnPipeline(contexts, centroids)

	p.stageLearn(context.Background(), learnRecord(0.91))
	if _, ok := centroids.centroids["invoice"]; !ok {
		t.Fatalf("centroid update must proceed despite context save failure")
	}
}

func TestFoldIntoCentroidDimensionMismatchResets(t *testing.T) {
	centroids := newCentroidStoreFake()
	centroids.centroids["invoice"] = &domain.CategoryCentroid{
		Category: "invoice", Embedding: []float32{1, 2, 3}, SampleCount: 7, SampleKeys: []string{"docs/a.txt"},
	}
	p := learnPipeline(&contextStoreFake{}, centroids)

	if err := p.foldIntoCentroid(context.Background(), "invoice", []float32{4, 5}, "docs/b.txt"); err != nil {
		t.Fatalf("foldIntoCentroid() error = %v", err)
	}
	inv := centroids.centroids["invoice"]
	if len(inv.Embedding) != 2 || inv.SampleCount != 1 {
		t.Fatalf("dimension mismatch must reset the entry, got %+v", inv)
	}
	if len(inv.SampleKeys) != 1 || inv.SampleKeys[0] != "docs/b.txt" {
		t.Fatalf("reset entry keys = %v", inv.SampleKeys)
	}
}

func TestFoldIntoCentroidBoundsSampleKeys(t *testing.T) {
	centroids := newCentroidStoreFake()
	keys := make([]string, domain.MaxCentroidSampleKeys)
	for i := range keys {
		keys[i] = fmt.Sprintf("docs/old-%d.txt", i)
	}
	centroids.centroids["invoice"] = &domain.CategoryCentroid{
		Category: "invoice", Embedding: []float32{1, 0}, SampleCount: 10, SampleKeys: keys,
	}
	p := learnPipeline(&contextStoreFake{}, centroids)

	if err := p.foldIntoCentroid(context.Background(), "invoice", []float32{0, 1}, "docs/new.txt"); err != nil {
		t.Fatalf("foldIntoCentroid() error = %v", err)
	}
	inv := centroids.centroids["invoice"]
	if len(inv.SampleKeys) != domain.MaxCentroidSampleKeys {
		t.Fatalf("sample keys = %d, want bounded at %d", len(inv.SampleKeys), domain.MaxCentroidSampleKeys)
	}
	if inv.SampleKeys[0] != "docs/old-1.txt" {
		t.Fatalf("oldest key must be evicted first, got %v", inv.SampleKeys[0])
	}
	if inv.SampleKeys[len(inv.SampleKeys)-1] != "docs/new.txt" {
		t.Fatalf("newest key must be appended, got %v", inv.SampleKeys)
	}
}
