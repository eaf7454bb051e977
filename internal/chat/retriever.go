package chat

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"hrchat/internal/embeddings"
	"hrchat/internal/vectordb"
)

// Retriever runs similarity searches across document types and merges the
// results into one globally ranked list.
type Retriever struct {
	embedder embeddings.Embedder
	store    vectordb.Store
}

// NewRetriever creates a Retriever.
func NewRetriever(embedder embeddings.Embedder, store vectordb.Store) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve embeds the question once, searches every requested type in
// parallel, then merges and re-ranks by raw similarity. A failed type search
// degrades to zero results for that type; an embedding failure is fatal.
func (r *Retriever) Retrieve(ctx context.Context, orgID, question string, types []vectordb.DocumentType, limit int) ([]vectordb.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	vectors, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding question: got %d vectors, expected 1", len(vectors))
	}
	queryVector := vectors[0]

	var (
		mu     sync.Mutex
		merged []vectordb.SearchResult
		wg     sync.WaitGroup
	)

	for _, t := range types {
		wg.Add(1)
		go func(t vectordb.DocumentType) {
			defer wg.Done()
			results, err := r.store.Search(ctx, queryVector, orgID, vectordb.SearchOptions{
				Limit: limit,
				Type:  t,
			})
			if err != nil {
				log.Printf("chat: search %s failed: %v", t, err)
				return
			}
			mu.Lock()
			merged = append(merged, results...)
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
