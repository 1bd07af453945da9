package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SonakshiKundu06/FloatChat/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	metadata TEXT NOT NULL,
	embedding BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

type sqliteStore struct {
	options store.Options
	conn    *sql.DB
}

func (s *sqliteStore) Upsert(ctx context.Context, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO documents (id, content, metadata, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()

	for _, rec := range records {
		metaJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, rec.Id, rec.Content, metaJSON, encodeEmbedding(rec.Embedding), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) Search(ctx context.Context, vector []float32, limit int) ([]store.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	query := `
		SELECT id, content, metadata, embedding, created_at, updated_at
		FROM documents
	`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []store.Record

	for rows.Next() {
		var rec store.Record
		var metaBytes []byte
		var embBytes []byte

		if err := rows.Scan(&rec.Id, &rec.Content, &metaBytes, &embBytes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(metaBytes, &rec.Metadata); err != nil {
			rec.Metadata = make(map[string]any)
		}

		rec.Embedding = decodeEmbedding(embBytes)
		rec.Score = float32(store.CosineSimilarity(vector, rec.Embedding))

		candidates = append(candidates, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (s *sqliteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func encodeEmbedding(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(buf []byte) []float32 {
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vector
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	if len(options.Location) == 0 {
		panic("missing location for sqlite store")
	}

	if err := os.MkdirAll(filepath.Dir(options.Location), 0o755); err != nil {
		detail := "failed to create data directory for sqlite store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	conn, err := sql.Open("sqlite", options.Location+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		detail := "failed to open sqlite store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if _, err := conn.Exec(schema); err != nil {
		detail := "failed to migrate sqlite store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	s := &sqliteStore{
		options: options,
		conn:    conn,
	}

	return s
}
