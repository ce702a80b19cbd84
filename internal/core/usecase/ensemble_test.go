package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kirillkom/docrouter/internal/core/ports"
)

func testCandidates() map[string]string {
	return map[string]string{
		"invoice": "billing documents",
		"receipt": "payment confirmations",
		"budget":  "financial plans",
	}
}

func ensemblePipeline(models ...ports.ScoringModel) *Pipeline {
	return &Pipeline{models: models, cfg: PipelineConfig{}.withDefaults(), log: testLogger()}
}

func TestEnsembleScenarioThresholds(t *testing.T) {
	scores := map[string]float64{"invoice": 0.92, "receipt": 0.75, "budget": 0.40}
	p := ensemblePipeline(
		&modelFake{name: "alpha", scores: scores},
		&modelFake{name: "beta", scores: scores},
	)

	agg, err := p.ensembleClassify(context.Background(), "content", testCandidates(), "")
	if err != nil {
		t.Fatalf("ensembleClassify() error = %v", err)
	}
	if agg.PrimaryCategory != "invoice" || agg.PrimaryConfidence != 0.92 {
		t.Fatalf("primary = %q (%v), want invoice (0.92)", agg.PrimaryCategory, agg.PrimaryConfidence)
	}
	if len(agg.AdditionalCategories) != 1 || agg.AdditionalCategories[0] != "receipt" {
		t.Fatalf("additional = %v, want [receipt]", agg.AdditionalCategories)
	}
	if agg.Count != 2 {
		t.Fatalf("count = %d, want 2", agg.Count)
	}
}

func TestEnsemblePartialFailureUsesSurvivors(t *testing.T) {
	p := ensemblePipeline(
		&modelFake{name: "alpha", scores: map[string]float64{"invoice": 0.9, "receipt": 0.5, "budget": 0.1}},
		&modelFake{name: "beta", err: errors.New("timeout")},
		&modelFake{name: "gamma", err: errors.New("unreachable")},
	)

	agg, err := p.ensembleClassify(context.Background(), "content", testCandidates(), "")
	if err != nil {
		t.Fatalf("ensembleClassify() error = %v", err)
	}
	if agg.Count != 1 {
		t.Fatalf("count = %d, want surviving count 1", agg.Count)
	}
	if agg.PrimaryCategory != "invoice" || agg.PrimaryConfidence != 0.9 {
		t.Fatalf("aggregation must use only survivors: %+v", agg)
	}
}

func TestEnsembleAllModelsFail(t *testing.T) {
	p := ensemblePipeline(
		&modelFake{name: "alpha", err: errors.New("down")},
		&modelFake{name: "beta", err: errors.New("down")},
	)

	agg, err := p.ensembleClassify(context.Background(), "content", testCandidates(), "")
	if err != nil {
		t.Fatalf("ensembleClassify() error = %v", err)
	}
	if agg.PrimaryCategory != "unclassified" {
		t.Fatalf("primary = %q, want unclassified", agg.PrimaryCategory)
	}
	if agg.PrimaryConfidence != 0.0 {
		t.Fatalf("confidence = %v, want exactly 0.0", agg.PrimaryConfidence)
	}
	if agg.Count != 0 {
		t.Fatalf("count = %d, want 0", agg.Count)
	}
	for cat, score := range agg.Scores {
		if score != 0.0 {
			t.Fatalf("score for %q = %v, want 0.0", cat, score)
		}
	}
}

func TestEnsembleVarianceFlagsDisagreement(t *testing.T) {
	p := ensemblePipeline(
		&modelFake{name: "alpha", scores: map[string]float64{"invoice": 1.0, "receipt": 0.5, "budget": 0.5}},
		&modelFake{name: "beta", scores: map[string]float64{"invoice": 0.0, "receipt": 0.5, "budget": 0.5}},
	)

	agg, err := p.ensembleClassify(context.Background(), "content", testCandidates(), "")
	if err != nil {
		t.Fatalf("ensembleClassify() error = %v", err)
	}
	// Population variance of {1.0, 0.0} around mean 0.5 is 0.25.
	if math.Abs(agg.Variance["invoice"]-0.25) > 1e-9 {
		t.Fatalf("variance[invoice] = %v, want 0.25", agg.Variance["invoice"])
	}
	if agg.Variance["receipt"] != 0.0 {
		t.Fatalf("variance[receipt] = %v, want 0", agg.Variance["receipt"])
	}
}

func TestEnsembleNoModelsIsAnError(t *testing.T) {
	p := ensemblePipeline()
	if _, err := p.ensembleClassify(context.Background(), "content", testCandidates(), ""); !errors.Is(err, errNoModels) {
		t.Fatalf("expected errNoModels, got %v", err)
	}
}

func TestAggregateMissingScoresDefaultToZero(t *testing.T) {
	// A model that only scored some candidates contributes 0.0 for the rest.
	valid := []ports.ModelScores{
		{Model: "alpha", Scores: map[string]float64{"invoice": 0.8}},
		{Model: "beta", Scores: map[string]float64{"invoice": 0.6, "receipt": 0.4}},
	}
	agg := aggregateScores(valid, testCandidates(), 0.70)

	if got := agg.Scores["receipt"]; got != 0.2 {
		t.Fatalf("scores[receipt] = %v, want 0.2", got)
	}
	if got := agg.Scores["budget"]; got != 0.0 {
		t.Fatalf("scores[budget] = %v, want 0.0", got)
	}
	if agg.PrimaryCategory != "invoice" {
		t.Fatalf("primary = %q, want invoice", agg.PrimaryCategory)
	}
}
