package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kirillkom/docrouter/internal/category"
	"github.com/kirillkom/docrouter/internal/core/domain"
)

type contextStoreFake struct {
	predefined []domain.ContextEntry
	saved      []domain.ContextEntry
}

func (f *contextStoreFake) GetPredefined(context.Context) ([]domain.ContextEntry, error) {
	return f.predefined, nil
}

func (f *contextStoreFake) GetTopLearned(context.Context, int) ([]domain.ContextEntry, error) {
	return nil, nil
}

func (f *contextStoreFake) SaveLearned(_ context.Context, entry domain.ContextEntry) (int64, error) {
	f.saved = append(f.saved, entry)
	return int64(len(f.saved)), nil
}

func (f *contextStoreFake) SavePredefined(_ context.Context, entry domain.ContextEntry) (int64, error) {
	f.saved = append(f.saved, entry)
	return int64(len(f.saved)), nil
}

func (f *contextStoreFake) IncrementUsage(context.Context, []int64) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadEmbeddedContexts(t *testing.T) {
	entries, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded entry")
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !category.Known(entry.Category) {
			t.Errorf("entry %q: category not in taxonomy", entry.Category)
		}
		if entry.Text == "" {
			t.Errorf("entry %q: empty text", entry.Category)
		}
		if seen[entry.Category] {
			t.Errorf("entry %q: duplicate category", entry.Category)
		}
		seen[entry.Category] = true
	}
}

func TestApplyInsertsAsVerifiedPredefined(t *testing.T) {
	store := &contextStoreFake{}

	inserted, err := Apply(context.Background(), store, discardLogger())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if inserted == 0 || inserted != len(store.saved) {
		t.Fatalf("inserted = %d, saved = %d", inserted, len(store.saved))
	}
	for _, entry := range store.saved {
		if entry.Type != domain.ContextPredefined {
			t.Errorf("entry %q: type = %q", entry.Category, entry.Type)
		}
		if !entry.Verified {
			t.Errorf("entry %q: not marked verified", entry.Category)
		}
	}
}

func TestApplySkipsAlreadySeededCategories(t *testing.T) {
	store := &contextStoreFake{
		predefined: []domain.ContextEntry{
			{Category: "invoice", Type: domain.ContextPredefined, Text: "existing"},
		},
	}

	inserted, err := Apply(context.Background(), store, discardLogger())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, entry := range store.saved {
		if entry.Category == "invoice" {
			t.Fatal("invoice was reseeded despite existing entry")
		}
	}
	if inserted != len(store.saved) {
		t.Fatalf("inserted = %d, saved = %d", inserted, len(store.saved))
	}
}
