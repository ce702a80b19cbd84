package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

type ensembleResult struct {
	PrimaryCategory      string
	PrimaryConfidence    float64
	AdditionalCategories []string
	Scores               map[string]float64
	Variance             map[string]float64
	Count                int
	Reasoning            string
}

var errNoModels = errors.New("no scoring models configured")

// ensembleClassify fans the candidate set out to every configured scoring
// model in parallel and aggregates the surviving per-category scores. A
// failed model contributes nothing; only an empty model set is an error.
func (p *Pipeline) ensembleClassify(ctx context.Context, content string, candidates map[string]string, contextText string) (ensembleResult, error) {
	if len(p.models) == 0 {
		return ensembleResult{}, errNoModels
	}

	results := make([]ports.ModelScores, len(p.models))
	failed := make([]bool, len(p.models))

	var wg sync.WaitGroup
	for i, model := range p.models {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scores, err := model.ScoreCategories(ctx, content, candidates, contextText)
			if err != nil {
				p.log.Warn("scoring model failed",
					slog.String("model", model.Name()), slog.Any("error", err))
				failed[i] = true
				return
			}
			results[i] = scores
		}()
	}
	wg.Wait()

	valid := results[:0:0]
	for i, r := range results {
		if !failed[i] {
			valid = append(valid, r)
		}
	}

	return aggregateScores(valid, candidates, p.cfg.AdditionalThreshold), nil
}

// aggregateScores computes per-category mean and population variance over
// the surviving model scores and derives primary plus additional categories.
func aggregateScores(valid []ports.ModelScores, candidates map[string]string, additionalThreshold float64) ensembleResult {
	if len(valid) == 0 {
		zeroScores := make(map[string]float64, len(candidates))
		for cat := range candidates {
			zeroScores[cat] = 0.0
		}
		return ensembleResult{
			PrimaryCategory:   category.Unclassified,
			PrimaryConfidence: 0.0,
			Scores:            zeroScores,
			Variance:          map[string]float64{},
			Count:             0,
			Reasoning:         "all scoring models failed, requires human classification",
		}
	}

	cats := make([]string, 0, len(candidates))
	for cat := range candidates {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	avg := make(map[string]float64, len(cats))
	variance := make(map[string]float64, len(cats))
	for _, cat := range cats {
		var sum float64
		for _, r := range valid {
			sum += r.Scores[cat]
		}
		mean := sum / float64(len(valid))
		avg[cat] = mean

		var sq float64
		for _, r := range valid {
			d := r.Scores[cat] - mean
			sq += d * d
		}
		variance[cat] = sq / float64(len(valid))
	}

	primary := category.Unclassified
	best := -1.0
	for _, cat := range cats {
		if avg[cat] > best {
			best = avg[cat]
			primary = cat
		}
	}
	if best < 0 {
		best = 0
	}

	var additional []string
	for _, cat := range cats {
		if cat != primary && avg[cat] >= additionalThreshold {
			additional = append(additional, cat)
		}
	}
	sort.SliceStable(additional, func(i, j int) bool { return avg[additional[i]] > avg[additional[j]] })

	return ensembleResult{
		PrimaryCategory:      primary,
		PrimaryConfidence:    best,
		AdditionalCategories: additional,
		Scores:               avg,
		Variance:             variance,
		Count:                len(valid),
		Reasoning:            scoreSummary(avg, len(valid)),
	}
}

func scoreSummary(avg map[string]float64, count int) string {
	type pair struct {
		cat   string
		score float64
	}
	pairs := make([]pair, 0, len(avg))
	for cat, score := range avg {
		pairs = append(pairs, pair{cat, score})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].cat < pairs[j].cat
	})

	parts := make([]string, 0, len(pairs))
	for _, pr := range pairs {
		parts = append(parts, fmt.Sprintf("%s: %.0f%%", pr.cat, pr.score*100))
	}
	return fmt.Sprintf("ensemble (%d models): %s", count, strings.Join(parts, ", "))
}
