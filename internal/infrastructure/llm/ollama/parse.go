package ollama

import (
	"encoding/json"
	"strings"
)

type scoreResponse struct {
	CategoryScores map[string]float64 `json:"category_scores"`
	Reasoning      string             `json:"reasoning"`
}

// parseScoreResponse turns a model reply into a complete score map over the
// candidate set. Models wrap JSON in markdown fences or prose often enough
// that a single json.Unmarshal is not good enough, so this tries progressively
// looser extractions. Candidates the model skipped score 0.0; a reply that
// yields nothing parseable scores everything 0.0.
func parseScoreResponse(raw string, candidates map[string]string) (map[string]float64, string) {
	var resp scoreResponse
	for _, text := range []string{raw, extractFencedBlock(raw, "```json"), extractFencedBlock(raw, "```"), extractJSONObject(raw)} {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if err := json.Unmarshal([]byte(text), &resp); err == nil && resp.CategoryScores != nil {
			break
		}
		resp = scoreResponse{}
	}

	scores := make(map[string]float64, len(candidates))
	for name := range candidates {
		scores[name] = clampScore(lookupScore(resp.CategoryScores, name))
	}
	return scores, strings.TrimSpace(resp.Reasoning)
}

// lookupScore tolerates the casing drift models introduce: exact key first,
// then lower, upper, and finally a case-insensitive scan.
func lookupScore(scores map[string]float64, name string) float64 {
	if len(scores) == 0 {
		return 0
	}
	if v, ok := scores[name]; ok {
		return v
	}
	if v, ok := scores[strings.ToLower(name)]; ok {
		return v
	}
	if v, ok := scores[strings.ToUpper(name)]; ok {
		return v
	}
	for key, v := range scores {
		if strings.EqualFold(key, name) {
			return v
		}
	}
	return 0
}

func clampScore(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// extractFencedBlock returns the body of the first fenced code block opened
// with the given marker, or "" when no complete block exists.
func extractFencedBlock(raw, marker string) string {
	start := strings.Index(raw, marker)
	if start < 0 {
		return ""
	}
	body := raw[start+len(marker):]
	end := strings.Index(body, "```")
	if end < 0 {
		return ""
	}
	return body[:end]
}

// extractJSONObject slices from the first '{' to the last '}' as a last
// resort against replies that surround the object with prose.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
