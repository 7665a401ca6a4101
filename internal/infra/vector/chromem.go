// Package vector provides the persistent per-bot vector index backing
// semantic search over ingested documents. Each bot owns one collection,
// so ingestions for different bots never interfere.
package vector

import (
	"context"
	"fmt"
	"os"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/embed"
)

// Record is one chunk ready for indexing. Vector must be set; the index
// never re-embeds content on write.
type Record struct {
	ID       string
	Content  string
	Vector   []float32
	Metadata map[string]string
}

// Hit is a single semantic-search result. Hits are returned verbatim by
// the search API, hence the JSON tags.
type Hit struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Index stores chunk vectors per bot and answers similarity queries.
type Index interface {
	Upsert(ctx context.Context, botID int64, recs []Record) error
	Query(ctx context.Context, botID int64, query string, k int) ([]Hit, error)
}

// ChromemIndex implements Index on a persistent chromem-go database with
// one collection per bot.
type ChromemIndex struct {
	mu      sync.RWMutex
	db      *chromem.DB
	embedFn chromem.EmbeddingFunc
}

// NewChromemIndex opens (or creates) the vector database under dataDir.
// embedder embeds query texts; writes carry precomputed vectors.
func NewChromemIndex(dataDir string, embedder embed.Embedder) (*ChromemIndex, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("vector: create data dir: %w", err)
	}
	db, err := chromem.NewPersistentDB(dataDir, false)
	if err != nil {
		return nil, fmt.Errorf("vector: open database: %w", err)
	}
	return &ChromemIndex{db: db, embedFn: queryEmbeddingFunc(embedder)}, nil
}

// queryEmbeddingFunc adapts an Embedder to chromem's single-text contract.
func queryEmbeddingFunc(e embed.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) != 1 {
			return nil, fmt.Errorf("vector: expected 1 embedding, got %d", len(vecs))
		}
		return vecs[0], nil
	}
}

func collectionName(botID int64) string {
	return fmt.Sprintf("bot-%d", botID)
}

// collection returns the bot's collection, creating it on first write.
// Callers must hold the write lock.
func (x *ChromemIndex) collection(botID int64) (*chromem.Collection, error) {
	name := collectionName(botID)
	if col := x.db.GetCollection(name, x.embedFn); col != nil {
		return col, nil
	}
	col, err := x.db.CreateCollection(name, nil, x.embedFn)
	if err != nil {
		return nil, fmt.Errorf("vector: create collection %s: %w", name, err)
	}
	return col, nil
}

// Upsert writes records into the bot's collection. A record whose ID is
// already indexed replaces the previous document.
func (x *ChromemIndex) Upsert(ctx context.Context, botID int64, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	col, err := x.collection(botID)
	if err != nil {
		return err
	}
	docs := make([]chromem.Document, 0, len(recs))
	for _, r := range recs {
		docs = append(docs, chromem.Document{
			ID:        r.ID,
			Content:   r.Content,
			Embedding: r.Vector,
			Metadata:  r.Metadata,
		})
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("vector: upsert %d records for bot %d: %w", len(recs), botID, err)
	}
	return nil
}

// Query embeds the query text and returns the k most similar chunks for
// the bot. A bot with nothing indexed yields no hits and no error.
func (x *ChromemIndex) Query(ctx context.Context, botID int64, query string, k int) ([]Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	col := x.db.GetCollection(collectionName(botID), x.embedFn)
	if col == nil {
		return nil, nil
	}
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector: query bot %d: %w", botID, err)
	}
	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, Hit{ID: r.ID, Content: r.Content, Score: r.Similarity, Metadata: r.Metadata})
	}
	return hits, nil
}
