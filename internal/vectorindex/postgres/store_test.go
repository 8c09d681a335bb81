//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhanaAnjana/DocuMind/internal/testutil"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

func TestStore_AddAndSearch(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../../migrations")
	defer pool.Close()

	embedder := testutil.NewHashEmbedder(64)
	store := NewStore(pool)
	require.NoError(t, store.EnsureSchema(ctx, embedder.Dims))
	require.NoError(t, store.EnsureSchema(ctx, embedder.Dims))

	index := vectorindex.New(embedder, store)

	empty, err := index.SimilaritySearch(ctx, "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, empty)

	texts := []string{
		"Paris is the capital of France",
		"Berlin is the capital of Germany",
		"Bananas are yellow",
	}
	ids, err := index.AddTexts(ctx, texts, []vectorindex.Metadata{
		vectorindex.DocumentMetadata(1),
		vectorindex.DocumentMetadata(1),
		vectorindex.DocumentMetadata(2),
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	for i, text := range texts {
		hits, err := index.SimilaritySearch(ctx, text, 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, ids[i], hits[0].ID)
		assert.InDelta(t, 0, hits[0].Distance, 1e-5)
	}

	hits, err := index.SimilaritySearch(ctx, "capital of France", 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
	docID, ok := hits[0].Metadata.DocumentID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), docID)

	again, err := index.SimilaritySearch(ctx, "capital of France", 10)
	require.NoError(t, err)
	assert.Equal(t, hits, again)

	found, err := index.Exists(ctx, []string{ids[0], "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{ids[0]: true}, found)
}
