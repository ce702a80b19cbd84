package usecase

import (
	"math"
	"sort"

	"github.com/kirillkom/docrouter/internal/category"
)

// scoredCategory pairs a category with its embedding-similarity score.
type scoredCategory struct {
	Category string
	Score    float64
}

// prefilterCandidates ranks every cached category by cosine similarity to
// the document embedding and rescales the ranked scores into [0.3, 0.9] for
// better discrimination. Empty input yields an empty ranking; the caller
// falls back to registry order.
func prefilterCandidates(docEmbedding []float32, centroids map[string][]float32) []scoredCategory {
	if len(docEmbedding) == 0 || len(centroids) == 0 {
		return nil
	}

	ranked := make([]scoredCategory, 0, len(centroids))
	for cat, centroid := range centroids {
		if len(centroid) == 0 {
			continue
		}
		sim := cosineSimilarity(docEmbedding, centroid)
		// Map cosine from [-1,1] into [0,1].
		ranked = append(ranked, scoredCategory{Category: cat, Score: (sim + 1.0) / 2.0})
	}
	if len(ranked) == 0 {
		return nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Category < ranked[j].Category
	})

	rescaleScores(ranked)
	return ranked
}

// rescaleScores linearly stretches the ranked score list into [0.3, 0.9].
// Raw cosine similarities cluster tightly; the stretch keeps the ordering
// while making the gap between candidates visible.
func rescaleScores(ranked []scoredCategory) {
	if len(ranked) == 0 {
		return
	}
	maxScore := ranked[0].Score
	minScore := ranked[len(ranked)-1].Score
	span := maxScore - minScore
	for i := range ranked {
		unit := 0.5
		if span > 0 {
			unit = (ranked[i].Score - minScore) / span
		}
		ranked[i].Score = unit*0.6 + 0.3
	}
}

// candidateNames returns the top-n candidate category names, falling back to
// the first n registry-order categories when the ranking is empty.
func candidateNames(ranked []scoredCategory, n int) []string {
	if len(ranked) == 0 {
		names := category.Names()
		if len(names) > n {
			names = names[:n]
		}
		return names
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	names := make([]string, len(ranked))
	for i, sc := range ranked {
		names[i] = sc.Category
	}
	return names
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// meanCentroid is the arithmetic mean of the given embeddings. Vectors with
// a dimension differing from the first are skipped.
func meanCentroid(embeddings [][]float32) []float32 {
	if len(embeddings) == 0 {
		return nil
	}
	dim := len(embeddings[0])
	sum := make([]float64, dim)
	count := 0
	for _, emb := range embeddings {
		if len(emb) != dim {
			continue
		}
		for i, v := range emb {
			sum[i] += float64(v)
		}
		count++
	}
	if count == 0 {
		return nil
	}
	centroid := make([]float32, dim)
	for i, v := range sum {
		centroid[i] = float32(v / float64(count))
	}
	return centroid
}

// updateCentroidEMA folds a new embedding into the centroid with weight w:
// centroid' = (1-w)*centroid + w*new. The caller handles dimension
// mismatches (full reset) before calling.
func updateCentroidEMA(centroid, newEmbedding []float32, w float64) []float32 {
	if len(centroid) == 0 {
		return newEmbedding
	}
	if len(newEmbedding) == 0 || len(centroid) != len(newEmbedding) {
		return centroid
	}
	out := make([]float32, len(centroid))
	for i := range centroid {
		out[i] = float32((1-w)*float64(centroid[i]) + w*float64(newEmbedding[i]))
	}
	return out
}
