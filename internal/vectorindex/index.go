// Package vectorindex stores chunk texts with their embeddings and answers
// nearest-neighbour queries by text.
package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// MetadataDocumentID is the metadata key holding the owning document's id.
const MetadataDocumentID = "document_id"

// MetadataEmbeddingID is consulted when a backend cannot return record ids with hits.
const MetadataEmbeddingID = "embedding_id"

// ErrMetadataLength is returned when metadatas and texts differ in length.
var ErrMetadataLength = errors.New("metadatas length must equal texts length")

// Metadata is the flat key/value data stored with a record.
type Metadata map[string]string

// DocumentID returns the document id stored in metadata, if any.
func (m Metadata) DocumentID() (int64, bool) {
	raw, ok := m[MetadataDocumentID]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// DocumentMetadata tags a record with the document it came from.
func DocumentMetadata(documentID int64) Metadata {
	return Metadata{MetadataDocumentID: strconv.FormatInt(documentID, 10)}
}

// Record is one stored text with its embedding.
type Record struct {
	ID       string
	Content  string
	Metadata Metadata
	Vector   []float32
}

// Hit is a search result. Distance is the cosine distance to the query.
type Hit struct {
	ID       string
	Content  string
	Metadata Metadata
	Distance float64
}

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is a backend persisting records and ranking them by cosine distance.
// Insert must be durable when it returns. Nearest returns at most k hits by
// ascending distance, ties in insertion order.
type Store interface {
	Insert(ctx context.Context, records []Record) error
	Nearest(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Exists(ctx context.Context, ids []string) (map[string]bool, error)
	Close() error
}

// Index embeds texts and delegates storage to a Store.
type Index struct {
	embedder Embedder
	store    Store
	newID    func() string
}

func New(embedder Embedder, store Store) *Index {
	return &Index{
		embedder: embedder,
		store:    store,
		newID:    func() string { return uuid.New().String() },
	}
}

// AddTexts stores texts and returns the identifier assigned to each, in order.
// A nil metadatas stores empty metadata for every text.
func (i *Index) AddTexts(ctx context.Context, texts []string, metadatas []Metadata) ([]string, error) {
	if metadatas != nil && len(metadatas) != len(texts) {
		return nil, fmt.Errorf("%w: %d metadatas for %d texts", ErrMetadataLength, len(metadatas), len(texts))
	}
	if len(texts) == 0 {
		return []string{}, nil
	}

	vectors, err := i.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(vectors), len(texts))
	}

	ids := make([]string, len(texts))
	records := make([]Record, len(texts))
	for n, text := range texts {
		md := Metadata{}
		if metadatas != nil {
			for k, v := range metadatas[n] {
				md[k] = v
			}
		}
		ids[n] = i.newID()
		records[n] = Record{
			ID:       ids[n],
			Content:  text,
			Metadata: md,
			Vector:   vectors[n],
		}
	}

	if err := i.store.Insert(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store vectors: %w", err)
	}
	return ids, nil
}

// SimilaritySearch returns up to k records closest to query, most relevant first.
func (i *Index) SimilaritySearch(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		return []Hit{}, nil
	}

	vectors, err := i.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("got %d embeddings for one query", len(vectors))
	}

	hits, err := i.store.Nearest(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("failed to search vectors: %w", err)
	}
	return hits, nil
}

// Exists reports which of ids resolve to a stored record.
func (i *Index) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}
	return i.store.Exists(ctx, ids)
}

func (i *Index) Close() error {
	return i.store.Close()
}
