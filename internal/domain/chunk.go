package domain

import (
	"fmt"
	"time"
)

// Chunk is a contiguous piece of a document's extracted text.
// ChunkIndex values of one document form the sequence 0..n-1 in splitter order,
// and EmbeddingID is the identifier of the matching vector index record.
type Chunk struct {
	ID          int64
	DocumentID  int64
	Content     string
	ChunkIndex  int
	EmbeddingID string
	CreatedAt   time.Time
}

// NewChunks pairs chunk texts with the vector index identifiers assigned to them.
func NewChunks(documentID int64, texts, embeddingIDs []string) ([]Chunk, error) {
	if len(texts) != len(embeddingIDs) {
		return nil, fmt.Errorf("got %d embedding ids for %d chunks", len(embeddingIDs), len(texts))
	}

	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = Chunk{
			DocumentID:  documentID,
			Content:     text,
			ChunkIndex:  i,
			EmbeddingID: embeddingIDs[i],
		}
	}
	return chunks, nil
}

// ChunkKey identifies a chunk by its owning document and vector index record.
type ChunkKey struct {
	DocumentID  int64
	EmbeddingID string
}
