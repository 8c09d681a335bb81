package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

// DefaultListLimit is the page size used when the caller gives no limit.
const DefaultListLimit = 10

// DocumentService reads stored documents together with their chunks.
type DocumentService struct {
	documents    DocumentRepositoryInterface
	chunks       ChunkRepositoryInterface
	defaultLimit int
}

func NewDocumentService(documents DocumentRepositoryInterface, chunks ChunkRepositoryInterface, defaultLimit int) *DocumentService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultListLimit
	}
	return &DocumentService{
		documents:    documents,
		chunks:       chunks,
		defaultLimit: defaultLimit,
	}
}

// List returns documents in creation order, skipping the first skip rows.
func (s *DocumentService) List(ctx context.Context, skip, limit int) ([]*domain.Document, error) {
	if skip < 0 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "skip must not be negative")
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	docs, err := s.documents.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		return []*domain.Document{}, nil
	}

	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	byDoc, err := s.chunks.ListByDocuments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	for _, d := range docs {
		d.Chunks = chunksOrEmpty(byDoc[d.ID])
	}
	return docs, nil
}

// Get returns one document with its chunks.
func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	byDoc, err := s.chunks.ListByDocuments(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	doc.Chunks = chunksOrEmpty(byDoc[id])
	return doc, nil
}

func chunksOrEmpty(chunks []domain.Chunk) []domain.Chunk {
	if chunks == nil {
		return []domain.Chunk{}
	}
	return chunks
}
