package service

import (
	"context"
	"io"
	"iter"
	"time"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

// DocumentRepositoryInterface defines the repository interface for document persistence
type DocumentRepositoryInterface interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Document, error)
	ListWithoutChunks(ctx context.Context, afterID int64, limit int) ([]int64, error)
	Touch(ctx context.Context, id int64) (time.Time, error)
}

// ChunkRepositoryInterface defines the repository interface for chunk persistence
type ChunkRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Chunk) error
	ListByDocuments(ctx context.Context, documentIDs []int64) (map[int64][]domain.Chunk, error)
	ResolveIDs(ctx context.Context, keys []domain.ChunkKey) (map[domain.ChunkKey]int64, error)
	ListAfter(ctx context.Context, afterID int64, limit int) ([]domain.Chunk, error)
}

// UploadStore persists uploaded bytes and returns the path they were written to.
type UploadStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// TextExtractor returns the plain text of a stored file.
type TextExtractor interface {
	Extract(path, contentType string) (string, error)
}

// Chunker splits text into ordered chunks.
type Chunker interface {
	Split(text string) iter.Seq[string]
}

// VectorIndex stores chunk texts and finds the ones closest to a query.
type VectorIndex interface {
	AddTexts(ctx context.Context, texts []string, metadatas []vectorindex.Metadata) ([]string, error)
	SimilaritySearch(ctx context.Context, query string, k int) ([]vectorindex.Hit, error)
	Exists(ctx context.Context, ids []string) (map[string]bool, error)
}
