package usecase

import (
	"math"
	"testing"

	"github.com/kirillkom/docrouter/internal/category"
)

func TestPrefilterRanksBySimilarity(t *testing.T) {
	doc := []float32{1, 0}
	centroids := map[string][]float32{
		"invoice": {1, 0},
		"receipt": {0.7, 0.7},
		"budget":  {0, 1},
	}

	ranked := prefilterCandidates(doc, centroids)
	if len(ranked) != 3 {
		t.Fatalf("ranked = %d entries, want 3", len(ranked))
	}
	if ranked[0].Category != "invoice" || ranked[2].Category != "budget" {
		t.Fatalf("unexpected order: %v", ranked)
	}

	// Rescaled scores span [0.3, 0.9] after the min-max stretch.
	if math.Abs(ranked[0].Score-0.9) > 1e-9 {
		t.Fatalf("top score = %v, want 0.9", ranked[0].Score)
	}
	if math.Abs(ranked[2].Score-0.3) > 1e-9 {
		t.Fatalf("bottom score = %v, want 0.3", ranked[2].Score)
	}
	for _, sc := range ranked {
		if sc.Score < 0.3-1e-9 || sc.Score > 0.9+1e-9 {
			t.Fatalf("score %v out of [0.3, 0.9]", sc.Score)
		}
	}
}

func TestPrefilterEmptyInputsYieldNothing(t *testing.T) {
	if got := prefilterCandidates(nil, map[string][]float32{"a": {1}}); got != nil {
		t.Fatalf("expected nil for missing doc embedding, got %v", got)
	}
	if got := prefilterCandidates([]float32{1}, nil); got != nil {
		t.Fatalf("expected nil for missing centroids, got %v", got)
	}
}

func TestCandidateNamesFallsBackToRegistryOrder(t *testing.T) {
	names := candidateNames(nil, 10)
	if len(names) != 10 {
		t.Fatalf("fallback = %d names, want 10", len(names))
	}
	want := category.Names()[:10]
	for i := range names {
		if names[i] != want[i] {
			t.Fatalf("fallback order differs at %d: %q vs %q", i, names[i], want[i])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors = %v, want 1", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("orthogonal vectors = %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1) > 1e-9 {
		t.Fatalf("opposite vectors = %v, want -1", got)
	}
	if got := cosineSimilarity([]float32{1}, []float32{1, 2}); got != 0 {
		t.Fatalf("mismatched dimensions = %v, want 0", got)
	}
}

func TestMeanCentroid(t *testing.T) {
	got := meanCentroid([][]float32{{1, 3}, {3, 5}})
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("meanCentroid = %v, want [2 4]", got)
	}
	// Vectors with a foreign dimension are skipped, not merged.
	got = meanCentroid([][]float32{{2, 2}, {1, 2, 3}})
	if len(got) != 2 || got[0] != 2 || got[1] != 2 {
		t.Fatalf("meanCentroid with mismatch = %v, want [2 2]", got)
	}
}

func TestCentroidEMABound(t *testing.T) {
	old := []float32{0, 0, 0}
	next := []float32{1, -2, 3}
	w := 0.1

	updated := updateCentroidEMA(old, next, w)
	for i := range updated {
		moved := math.Abs(float64(updated[i] - old[i]))
		bound := w * math.Abs(float64(next[i]-old[i]))
		if moved > bound+1e-6 {
			t.Fatalf("dimension %d moved %v, bound %v", i, moved, bound)
		}
	}
}

func TestCentroidEMAEdgeCases(t *testing.T) {
	next := []float32{1, 2}
	if got := updateCentroidEMA(nil, next, 0.1); len(got) != 2 || got[0] != 1 {
		t.Fatalf("empty centroid should adopt the new embedding, got %v", got)
	}
	old := []float32{5, 5}
	if got := updateCentroidEMA(old, []float32{1}, 0.1); got[0] != 5 || got[1] != 5 {
		t.Fatalf("dimension mismatch must leave centroid unchanged, got %v", got)
	}
}
