package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/docrouter/internal/core/ports"
)

func TestIndexChunksUpsertsPayload(t *testing.T) {
	var upserted struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	ensured := false

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			ensured = true
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			if err := json.NewDecoder(r.Body).Decode(&upserted); err != nil {
				t.Fatalf("decode upsert: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, "docs")
	doc := ports.IndexedDocument{
		DocumentID:   "doc-1",
		CanonicalKey: "docs/doc-1.txt",
		Filename:     "invoice.txt",
		Categories:   []string{"invoice", "receipt"},
	}
	err := client.IndexChunks(context.Background(), doc, []string{"part one", "part two"}, [][]float32{{0.1, 0.2}, {0.3, 0.4}})
	if err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}
	if !ensured {
		t.Error("collection was not ensured before upsert")
	}
	if len(upserted.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(upserted.Points))
	}
	payload := upserted.Points[0].Payload
	if payload["document_id"] != "doc-1" || payload["text"] != "part one" {
		t.Errorf("payload = %v", payload)
	}
}

func TestIndexChunksVectorMismatch(t *testing.T) {
	client := New("http://unused", "docs")
	err := client.IndexChunks(context.Background(), ports.IndexedDocument{}, []string{"a", "b"}, [][]float32{{0.1}})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestDeleteByDocumentToleratesMissingCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if err := New(srv.URL, "docs").DeleteByDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("DeleteByDocument() error = %v", err)
	}
}

func TestSearchChunksAppliesCategoryFilter(t *testing.T) {
	var searched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/docs/points/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&searched); err != nil {
			t.Fatalf("decode search: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"score": 0.87,
					"payload": map[string]any{
						"document_id": "doc-1",
						"filename":    "invoice.txt",
						"categories":  []string{"invoice"},
						"text":        "total due 42",
					},
				},
			},
		})
	}))
	defer srv.Close()

	hits, err := New(srv.URL, "docs").SearchChunks(context.Background(), []float32{0.1, 0.2}, 5, "invoice")
	if err != nil {
		t.Fatalf("SearchChunks() error = %v", err)
	}
	if len(hits) != 1 || hits[0].DocumentID != "doc-1" || hits[0].Score != 0.87 {
		t.Fatalf("hits = %+v", hits)
	}
	if len(hits[0].Categories) != 1 || hits[0].Categories[0] != "invoice" {
		t.Fatalf("categories = %v", hits[0].Categories)
	}
	if searched["filter"] == nil {
		t.Error("category filter was not sent")
	}
}

func TestSearchChunksEmptyVectorIsNoOp(t *testing.T) {
	hits, err := New("http://unused", "docs").SearchChunks(context.Background(), nil, 5, "")
	if err != nil || hits != nil {
		t.Fatalf("expected no-op, got hits=%v err=%v", hits, err)
	}
}
