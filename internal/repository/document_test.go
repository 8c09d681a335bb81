//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/service"
	"github.com/DhanaAnjana/DocuMind/internal/testutil"
)

func TestDocumentRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	doc := domain.NewDocument("report.pdf", "application/pdf", "data/uploads/report.pdf")
	require.NoError(t, repo.Create(ctx, doc))
	assert.NotZero(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, "data/uploads/report.pdf", got.FilePath)

	_, err = repo.GetByID(ctx, doc.ID+1000)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	updated, err := repo.Touch(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, updated.Before(doc.UpdatedAt))

	_, err = repo.Touch(ctx, doc.ID+1000)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)
	var ids []int64
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		d := domain.NewDocument(name, "text/plain", "data/uploads/"+name)
		require.NoError(t, repo.Create(ctx, d))
		ids = append(ids, d.ID)
	}

	page, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = repo.List(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c.txt", page[0].Filename)

	page, err = repo.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestChunkRepository_ResolveAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docs := NewDocumentRepository(pool)
	chunks := NewChunkRepository(pool)

	withChunks := domain.NewDocument("a.txt", "text/plain", "p")
	orphan := domain.NewDocument("b.png", "image/png", "q")
	require.NoError(t, docs.Create(ctx, withChunks))
	require.NoError(t, docs.Create(ctx, orphan))

	created, err := domain.NewChunks(withChunks.ID, []string{"one", "two"}, []string{"e1", "e2"})
	require.NoError(t, err)
	for i := range created {
		require.NoError(t, chunks.Create(ctx, &created[i]))
		assert.NotZero(t, created[i].ID)
	}

	byDoc, err := chunks.ListByDocuments(ctx, []int64{withChunks.ID, orphan.ID})
	require.NoError(t, err)
	require.Len(t, byDoc[withChunks.ID], 2)
	assert.Equal(t, "one", byDoc[withChunks.ID][0].Content)
	assert.Equal(t, 1, byDoc[withChunks.ID][1].ChunkIndex)
	assert.Empty(t, byDoc[orphan.ID])

	hit := domain.ChunkKey{DocumentID: withChunks.ID, EmbeddingID: "e2"}
	wrongDoc := domain.ChunkKey{DocumentID: orphan.ID, EmbeddingID: "e1"}
	resolved, err := chunks.ResolveIDs(ctx, []domain.ChunkKey{hit, wrongDoc})
	require.NoError(t, err)
	assert.Equal(t, map[domain.ChunkKey]int64{hit: created[1].ID}, resolved)

	page, err := chunks.ListAfter(ctx, created[0].ID, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "e2", page[0].EmbeddingID)

	without, err := docs.ListWithoutChunks(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{orphan.ID}, without)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docs := NewDocumentRepository(pool)
	doc := domain.NewDocument("a.txt", "text/plain", "p")
	require.NoError(t, docs.Create(ctx, doc))

	runner := NewTxRunner(pool)
	boom := errors.New("boom")
	err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
		c := domain.Chunk{DocumentID: doc.ID, Content: "x", EmbeddingID: "e"}
		if err := repos.Chunks().Create(ctx, &c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	byDoc, err := NewChunkRepository(pool).ListByDocuments(ctx, []int64{doc.ID})
	require.NoError(t, err)
	assert.Empty(t, byDoc[doc.ID])

	err = runner.WithTx(ctx, func(repos service.TxRepositories) error {
		c := domain.Chunk{DocumentID: doc.ID, Content: "x", EmbeddingID: "e"}
		if err := repos.Chunks().Create(ctx, &c); err != nil {
			return err
		}
		_, err := repos.Documents().Touch(ctx, doc.ID)
		return err
	})
	require.NoError(t, err)

	byDoc, err = NewChunkRepository(pool).ListByDocuments(ctx, []int64{doc.ID})
	require.NoError(t, err)
	assert.Len(t, byDoc[doc.ID], 1)
}
