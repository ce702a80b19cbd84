package ollama

import (
	"fmt"
	"sort"
	"strings"
)

// buildScoringPrompt renders the classification prompt for one model call.
// Category order is fixed so identical inputs produce identical prompts.
func buildScoringPrompt(content string, candidates map[string]string, contextText string) string {
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("You are a document classification expert. Score how well the document matches EACH category below.\n\n")

	b.WriteString("CATEGORIES:\n")
	for _, name := range names {
		desc := candidates[name]
		if desc == "" {
			desc = "no description available"
		}
		fmt.Fprintf(&b, "* %s: %s\n", strings.ToUpper(name), desc)
	}
	b.WriteString("\n")

	if contextText != "" {
		b.WriteString(contextText)
		b.WriteString("\n\n")
	}

	b.WriteString("DOCUMENT CONTENT:\n")
	b.WriteString(content)
	b.WriteString("\n\n")

	b.WriteString("SCORING RULES:\n")
	b.WriteString("1. Score every category independently from 0.0 to 1.0.\n")
	b.WriteString("2. 0.9-1.0 means the document clearly belongs to the category.\n")
	b.WriteString("3. 0.5-0.8 means a partial or thematic match.\n")
	b.WriteString("4. 0.0-0.4 means little or no relation.\n")
	b.WriteString("5. A document can score high in more than one category.\n\n")

	b.WriteString("Respond with ONLY a JSON object in this exact format:\n")
	b.WriteString("{\"category_scores\": {")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: 0.0", name)
	}
	b.WriteString("}, \"reasoning\": \"one sentence explaining the top score\"}\n")

	return b.String()
}
