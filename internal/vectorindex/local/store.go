// Package local keeps the vector index in a SQLite file and ranks records with an exact cosine scan.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

const fileName = "index.db"

// existsBatch bounds the number of bound parameters per Exists query.
const existsBatch = 500

var _ vectorindex.Store = (*Store)(nil)

// Store is a vectorindex.Store backed by <dir>/index.db.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the index file in dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS vector_records (
			seq      INTEGER PRIMARY KEY AUTOINCREMENT,
			id       TEXT NOT NULL UNIQUE,
			content  TEXT NOT NULL,
			metadata TEXT NOT NULL,
			vector   BLOB NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vector_records table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the index file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert writes all records in one transaction.
func (s *Store) Insert(ctx context.Context, records []vectorindex.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO vector_records (id, content, metadata, vector) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		md, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Content, string(md), vectorindex.EncodeVector(r.Vector)); err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

// Nearest scans every record and returns the k closest to vector.
func (s *Store) Nearest(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT seq, id, content, metadata, vector FROM vector_records ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var ranked []vectorindex.RankedHit
	for rows.Next() {
		var (
			h      vectorindex.RankedHit
			mdJSON string
			blob   []byte
		)
		if err := rows.Scan(&h.Seq, &h.ID, &h.Content, &mdJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal([]byte(mdJSON), &h.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata of %s: %w", h.ID, err)
		}
		h.Distance = vectorindex.CosineDistance(vector, vectorindex.DecodeVector(blob))
		ranked = append(ranked, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return vectorindex.TopK(ranked, k), nil
}

func (s *Store) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	for start := 0; start < len(ids); start += existsBatch {
		batch := ids[start:min(start+existsBatch, len(ids))]

		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		rows, err := s.db.QueryContext(ctx,
			"SELECT id FROM vector_records WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("querying ids: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning id: %w", err)
			}
			found[id] = true
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating ids: %w", err)
		}
	}
	return found, nil
}
