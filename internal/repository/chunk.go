package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

// ChunkRepository handles persistence of document chunks.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

func (r *ChunkRepository) Create(ctx context.Context, c *domain.Chunk) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO document_chunks (document_id, content, embedding_id, chunk_index)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.DocumentID, c.Content, c.EmbeddingID, c.ChunkIndex,
	).Scan(&c.ID, &c.CreatedAt)
}

// ListByDocuments returns the chunks of each document ordered by chunk index.
func (r *ChunkRepository) ListByDocuments(ctx context.Context, documentIDs []int64) (map[int64][]domain.Chunk, error) {
	result := make(map[int64][]domain.Chunk, len(documentIDs))
	if len(documentIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, document_id, content, embedding_id, chunk_index, created_at
		 FROM document_chunks
		 WHERE document_id = ANY($1)
		 ORDER BY document_id, chunk_index`,
		documentIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		result[c.DocumentID] = append(result[c.DocumentID], c)
	}
	return result, rows.Err()
}

// ResolveIDs maps (document id, embedding id) pairs to chunk ids in one round trip.
// Pairs without a matching row are absent from the result.
func (r *ChunkRepository) ResolveIDs(ctx context.Context, keys []domain.ChunkKey) (map[domain.ChunkKey]int64, error) {
	result := make(map[domain.ChunkKey]int64, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	docIDs := make([]int64, len(keys))
	embeddingIDs := make([]string, len(keys))
	for i, k := range keys {
		docIDs[i] = k.DocumentID
		embeddingIDs[i] = k.EmbeddingID
	}

	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.document_id, c.embedding_id
		 FROM document_chunks c
		 JOIN unnest($1::bigint[], $2::text[]) AS k(document_id, embedding_id)
		   ON c.document_id = k.document_id AND c.embedding_id = k.embedding_id`,
		docIDs, embeddingIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var key domain.ChunkKey
		if err := rows.Scan(&id, &key.DocumentID, &key.EmbeddingID); err != nil {
			return nil, err
		}
		result[key] = id
	}
	return result, rows.Err()
}

// ListAfter pages through all chunks by id.
func (r *ChunkRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]domain.Chunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, document_id, content, embedding_id, chunk_index, created_at
		 FROM document_chunks
		 WHERE id > $1
		 ORDER BY id ASC LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chunks := []domain.Chunk{}
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func scanChunk(rows pgx.Rows) (domain.Chunk, error) {
	var c domain.Chunk
	err := rows.Scan(&c.ID, &c.DocumentID, &c.Content, &c.EmbeddingID, &c.ChunkIndex, &c.CreatedAt)
	return c, err
}
