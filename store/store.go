package store

import "context"

// Store persists embedded documents keyed by id.
type Store interface {
	// Upsert writes a batch of records. Re-adding an id overwrites the stored
	// record rather than duplicating it.
	Upsert(ctx context.Context, records []Record) error
	// Search returns up to limit records nearest to the query vector, best
	// first. An empty store yields an empty result.
	Search(ctx context.Context, vector []float32, limit int) ([]Record, error)
	Count(ctx context.Context) (int, error)
}
