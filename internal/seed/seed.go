// Package seed ships the predefined classification contexts that bootstrap a
// fresh installation. The entries are embedded at build time so the seeder
// binary needs nothing but a database connection.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

//go:embed contexts.yaml
var contextsYAML []byte

// Entry is one predefined context from the embedded set.
type Entry struct {
	Category string `yaml:"category"`
	Text     string `yaml:"text"`
	Sample   string `yaml:"sample,omitempty"`
}

type contextFile struct {
	Contexts []Entry `yaml:"contexts"`
}

// Load parses the embedded context set. Categories are canonicalized and
// entries outside the taxonomy or without text are rejected.
func Load() ([]Entry, error) {
	var file contextFile
	if err := yaml.Unmarshal(contextsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse embedded contexts: %w", err)
	}
	if len(file.Contexts) == 0 {
		return nil, fmt.Errorf("embedded context set is empty")
	}
	for i, entry := range file.Contexts {
		canonical := category.Canonicalize(entry.Category)
		if canonical == category.Unclassified {
			return nil, fmt.Errorf("contexts[%d]: unknown category %q", i, entry.Category)
		}
		if entry.Text == "" {
			return nil, fmt.Errorf("contexts[%d] (%s): empty text", i, entry.Category)
		}
		file.Contexts[i].Category = canonical
	}
	return file.Contexts, nil
}

// Apply inserts the embedded entries through the store, skipping categories
// that already have a predefined context so reruns stay idempotent. Returns
// the number of entries inserted.
func Apply(ctx context.Context, store ports.ContextStore, log *slog.Logger) (int, error) {
	entries, err := Load()
	if err != nil {
		return 0, err
	}

	existing, err := store.GetPredefined(ctx)
	if err != nil {
		return 0, fmt.Errorf("load existing contexts: %w", err)
	}
	seeded := make(map[string]bool, len(existing))
	for _, entry := range existing {
		seeded[entry.Category] = true
	}

	inserted := 0
	for _, entry := range entries {
		if seeded[entry.Category] {
			log.Debug("context already seeded", slog.String("category", entry.Category))
			continue
		}
		_, err := store.SavePredefined(ctx, domain.ContextEntry{
			Category:      entry.Category,
			Type:          domain.ContextPredefined,
			Text:          entry.Text,
			SampleContent: entry.Sample,
			Verified:      true,
		})
		if err != nil {
			return inserted, fmt.Errorf("seed context for %s: %w", entry.Category, err)
		}
		inserted++
	}
	log.Info("predefined contexts applied",
		slog.Int("inserted", inserted),
		slog.Int("skipped", len(entries)-inserted),
	)
	return inserted, nil
}
