package retriever

import (
	"context"
	"fmt"

	"github.com/SonakshiKundu06/FloatChat/embedder"
	"github.com/SonakshiKundu06/FloatChat/store"
)

// Retriever is the index over profile summary documents. The same embedder
// serves the write and query paths so both sides share one embedding space.
type Retriever interface {
	Index(ctx context.Context, docs []Document) error
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error)
	Count(ctx context.Context) (int, error)
}

type retriever struct {
	embedder embedder.Embedder
	store    store.Store
}

func (r *retriever) Index(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	records := make([]store.Record, 0, len(docs))

	for _, doc := range docs {
		vector, err := r.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embed document %s: %w", doc.Id, err)
		}

		records = append(records, store.Record{
			Id:        doc.Id,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: vector,
		})
	}

	return r.store.Upsert(ctx, records)
}

func (r *retriever) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	options := NewSearchOptions(opts...)

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	records, err := r.store.Search(ctx, vector, options.Limit)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	results := make([]Result, 0, len(records))

	for _, rec := range records {
		results = append(results, Result{
			Document: Document{
				Id:       rec.Id,
				Content:  rec.Content,
				Metadata: rec.Metadata,
			},
			Score: rec.Score,
		})
	}

	return results, nil
}

func (r *retriever) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx)
}

func New(embedder embedder.Embedder, store store.Store) Retriever {
	if embedder == nil {
		panic("embedder is required")
	}

	if store == nil {
		panic("store is required")
	}

	return &retriever{
		embedder: embedder,
		store:    store,
	}
}
