// Package postgres keeps the vector index in a pgvector table of the relational database.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

var _ vectorindex.Store = (*Store)(nil)

// Store is a vectorindex.Store backed by the vector_records table.
// Records are committed in their own transaction, never together with chunk rows.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the vector extension and the vector_records table for vectors of dims dimensions.
func (s *Store) EnsureSchema(ctx context.Context, dims int) error {
	if dims <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS vector_records (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			embedding vector(%d) NOT NULL
		)`, dims))
	if err != nil {
		return fmt.Errorf("creating vector_records table: %w", err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *Store) Close() error {
	return nil
}

func (s *Store) Insert(ctx context.Context, records []vectorindex.Record) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range records {
		md, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO vector_records (id, content, metadata, embedding)
			 VALUES ($1, $2, $3::jsonb, $4)`,
			r.ID, r.Content, string(md), pgvector.NewVector(r.Vector),
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

func (s *Store) Nearest(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, content, metadata::text, embedding <=> $1 AS distance
		 FROM vector_records
		 ORDER BY distance ASC, seq ASC
		 LIMIT $2`,
		pgvector.NewVector(vector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	hits := []vectorindex.Hit{}
	for rows.Next() {
		var h vectorindex.Hit
		var md string
		if err := rows.Scan(&h.ID, &h.Content, &md, &h.Distance); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal([]byte(md), &h.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata of %s: %w", h.ID, err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return hits, nil
}

func (s *Store) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	rows, err := s.pool.Query(ctx, `SELECT id FROM vector_records WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		found[id] = true
	}
	return found, rows.Err()
}
