package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SonakshiKundu06/FloatChat/store"
)

type memoryStore struct {
	options store.Options
	records map[string]store.Record
	mtx     sync.RWMutex
}

func (s *memoryStore) Upsert(ctx context.Context, records []store.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := time.Now().UTC()

	for _, rec := range records {
		cpy := make([]float32, len(rec.Embedding))
		copy(cpy, rec.Embedding)
		rec.Embedding = cpy

		if existing, ok := s.records[rec.Id]; ok {
			rec.CreatedAt = existing.CreatedAt
		} else {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now

		s.records[rec.Id] = rec
	}

	return nil
}

func (s *memoryStore) Search(ctx context.Context, vector []float32, limit int) ([]store.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]store.Record, 0, len(s.records))

	for _, rec := range s.records {
		rec.Score = float32(store.CosineSimilarity(vector, rec.Embedding))
		candidates = append(candidates, rec)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (s *memoryStore) Count(ctx context.Context) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.records), nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		records: map[string]store.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
