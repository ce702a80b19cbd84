package category

import (
	"regexp"
	"strings"
)

var (
	labelPrefixRe    = regexp.MustCompile(`^(category[:\s]*|type[:\s]*)`)
	trailingPunctRe  = regexp.MustCompile(`[:\s]*$`)
	separatorRe      = regexp.MustCompile(`[\s\-]+`)
	disallowedRuneRe = regexp.MustCompile(`[^a-z0-9_]`)
)

// Canonicalize normalizes a raw category value from model output to its
// canonical registry name. Unknown values fall through the alias table and a
// partial-match pass before resolving to Unclassified.
func Canonicalize(value string) string {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return Unclassified
	}

	raw = labelPrefixRe.ReplaceAllString(raw, "")
	raw = trailingPunctRe.ReplaceAllString(raw, "")
	raw = separatorRe.ReplaceAllString(raw, "_")
	raw = disallowedRuneRe.ReplaceAllString(raw, "")

	if Known(raw) {
		return raw
	}
	if canonical, ok := aliases[raw]; ok {
		return canonical
	}

	// Last resort: substring match against the alias table. Iteration order
	// over the map is not stable, so prefer the longest matching alias to
	// keep the result deterministic.
	best := ""
	for alias := range aliases {
		if !strings.Contains(raw, alias) && !strings.Contains(alias, raw) {
			continue
		}
		if len(alias) > len(best) || (len(alias) == len(best) && alias < best) {
			best = alias
		}
	}
	if best != "" {
		return aliases[best]
	}

	return Unclassified
}
