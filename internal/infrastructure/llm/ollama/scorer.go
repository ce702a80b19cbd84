package ollama

import (
	"context"

	"github.com/kirillkom/docrouter/internal/core/ports"
)

// Scorer asks one generation model to score every candidate category
// independently. Several Scorers share one Client; each wraps a different
// model so the ensemble gets genuinely diverse opinions.
type Scorer struct {
	client *Client
	model  string
}

func NewScorer(client *Client, model string) *Scorer {
	return &Scorer{client: client, model: model}
}

func (s *Scorer) Name() string { return s.model }

func (s *Scorer) ScoreCategories(ctx context.Context, content string, candidates map[string]string, contextText string) (ports.ModelScores, error) {
	raw, err := s.client.generateJSON(ctx, s.model, buildScoringPrompt(content, candidates, contextText))
	if err != nil {
		return ports.ModelScores{}, err
	}

	scores, reasoning := parseScoreResponse(raw, candidates)
	return ports.ModelScores{
		Model:     s.model,
		Scores:    scores,
		Reasoning: reasoning,
	}, nil
}
