package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// Create inserts the document and fills in its id and timestamps.
func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO documents (filename, content_type, file_path)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		d.Filename, d.ContentType, d.FilePath,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var d domain.Document
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, content_type, file_path, created_at, updated_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Filename, &d.ContentType, &d.FilePath, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns documents in creation order.
func (r *DocumentRepository) List(ctx context.Context, skip, limit int) ([]*domain.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, filename, content_type, file_path, created_at, updated_at
		 FROM documents ORDER BY id ASC OFFSET $1 LIMIT $2`,
		skip, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.ContentType, &d.FilePath, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// ListWithoutChunks returns ids greater than afterID of documents that have no chunk rows.
func (r *DocumentRepository) ListWithoutChunks(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT d.id FROM documents d
		 WHERE d.id > $1
		   AND NOT EXISTS (SELECT 1 FROM document_chunks c WHERE c.document_id = d.id)
		 ORDER BY d.id ASC LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Touch bumps updated_at and returns the new value.
func (r *DocumentRepository) Touch(ctx context.Context, id int64) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.QueryRow(ctx,
		`UPDATE documents SET updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		id,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, domain.ErrDocumentNotFound
		}
		return time.Time{}, err
	}
	return updatedAt, nil
}
