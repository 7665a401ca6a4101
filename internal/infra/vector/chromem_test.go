package vector

import (
	"context"
	"fmt"
	"testing"
)

// stubEmbedder returns canned vectors keyed by text.
type stubEmbedder struct {
	vecs map[string][]float32
}

func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := s.vecs[text]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", text)
		}
		out[i] = v
	}
	return out, nil
}

func testEmbedder() stubEmbedder {
	return stubEmbedder{vecs: map[string][]float32{
		"apples":  {1, 0, 0},
		"oranges": {0, 1, 0},
		"rockets": {0, 0, 1},
	}}
}

func TestChromemIndex_UpsertAndQuery(t *testing.T) {
	t.Parallel()

	idx, err := NewChromemIndex(t.TempDir(), testEmbedder())
	if err != nil {
		t.Fatalf("NewChromemIndex failed: %v", err)
	}

	ctx := context.Background()
	recs := []Record{
		{ID: "doc1#0", Content: "all about apples", Vector: []float32{1, 0, 0}},
		{ID: "doc1#1", Content: "all about oranges", Vector: []float32{0, 1, 0}},
	}
	if err := idx.Upsert(ctx, 1, recs); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := idx.Query(ctx, 1, "apples", 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].ID != "doc1#0" {
		t.Errorf("expected closest chunk doc1#0, got %q", hits[0].ID)
	}
	if hits[0].Content != "all about apples" {
		t.Errorf("unexpected hit content: %q", hits[0].Content)
	}
}

func TestChromemIndex_BotsAreIsolated(t *testing.T) {
	t.Parallel()

	idx, err := NewChromemIndex(t.TempDir(), testEmbedder())
	if err != nil {
		t.Fatalf("NewChromemIndex failed: %v", err)
	}

	ctx := context.Background()
	if err := idx.Upsert(ctx, 1, []Record{{ID: "a", Content: "apples", Vector: []float32{1, 0, 0}}}); err != nil {
		t.Fatalf("Upsert bot 1 failed: %v", err)
	}
	if err := idx.Upsert(ctx, 2, []Record{{ID: "r", Content: "rockets", Vector: []float32{0, 0, 1}}}); err != nil {
		t.Fatalf("Upsert bot 2 failed: %v", err)
	}

	hits, err := idx.Query(ctx, 2, "apples", 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for _, h := range hits {
		if h.ID == "a" {
			t.Error("bot 2 query returned a chunk indexed for bot 1")
		}
	}
}

func TestChromemIndex_Query_UnknownBot_NoHits(t *testing.T) {
	t.Parallel()

	idx, err := NewChromemIndex(t.TempDir(), testEmbedder())
	if err != nil {
		t.Fatalf("NewChromemIndex failed: %v", err)
	}

	hits, err := idx.Query(context.Background(), 99, "apples", 3)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits for unknown bot, got %d", len(hits))
	}
}

func TestChromemIndex_Query_KClampedToCount(t *testing.T) {
	t.Parallel()

	idx, err := NewChromemIndex(t.TempDir(), testEmbedder())
	if err != nil {
		t.Fatalf("NewChromemIndex failed: %v", err)
	}

	ctx := context.Background()
	if err := idx.Upsert(ctx, 1, []Record{{ID: "only", Content: "oranges", Vector: []float32{0, 1, 0}}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	hits, err := idx.Query(ctx, 1, "oranges", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("expected 1 hit, got %d", len(hits))
	}
}

func TestChromemIndex_Upsert_Empty_NoOp(t *testing.T) {
	t.Parallel()

	idx, err := NewChromemIndex(t.TempDir(), testEmbedder())
	if err != nil {
		t.Fatalf("NewChromemIndex failed: %v", err)
	}
	if err := idx.Upsert(context.Background(), 1, nil); err != nil {
		t.Errorf("empty upsert should succeed, got %v", err)
	}
}

func TestChromemIndex_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	idx, err := NewChromemIndex(dir, testEmbedder())
	if err != nil {
		t.Fatalf("NewChromemIndex failed: %v", err)
	}
	if err := idx.Upsert(ctx, 7, []Record{{ID: "persisted", Content: "rockets", Vector: []float32{0, 0, 1}}}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	reopened, err := NewChromemIndex(dir, testEmbedder())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	hits, err := reopened.Query(ctx, 7, "rockets", 1)
	if err != nil {
		t.Fatalf("Query after reopen failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "persisted" {
		t.Errorf("expected persisted chunk after reopen, got %v", hits)
	}
}
