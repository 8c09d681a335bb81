package valkey

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" && cmd[1] == indexName
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	require.NoError(t, newStore(c).EnsureIndex(context.Background(), 8))
}

func TestEnsureIndex_InvalidDims(t *testing.T) {
	assert.Error(t, newStore(nil).EnsureIndex(context.Background(), 0))
}

func TestInsert_AssignsSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCRBY", seqKey, "2")).
		Return(mock.Result(mock.RedisInt64(12)))

	var seqs []string
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			results := make([]rueidis.RedisResult, len(cmds))
			for i, cmd := range cmds {
				args := cmd.Commands()
				for j := 2; j+1 < len(args); j += 2 {
					if args[j] == fieldSeq {
						seqs = append(seqs, args[j+1])
					}
				}
				results[i] = mock.Result(mock.RedisInt64(4))
			}
			return results
		})

	err := newStore(c).Insert(context.Background(), []vectorindex.Record{
		{ID: "a", Content: "first", Metadata: vectorindex.Metadata{}, Vector: []float32{1, 0}},
		{ID: "b", Content: "second", Metadata: vectorindex.Metadata{}, Vector: []float32{0, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"11", "12"}, seqs)
}

func TestInsert_Empty(t *testing.T) {
	require.NoError(t, newStore(nil).Insert(context.Background(), nil))
}

func TestNearest_OrdersByDistanceThenSeq(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == indexName
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(3),
			mock.RedisString(keyPrefix+"late"),
			mock.RedisArray(
				mock.RedisString(fieldScore), mock.RedisString("0.2"),
				mock.RedisString(fieldContent), mock.RedisString("late"),
				mock.RedisString(fieldSeq), mock.RedisString("9"),
				mock.RedisString(fieldMetadata), mock.RedisString(`{"document_id":"2"}`),
			),
			mock.RedisString(keyPrefix+"best"),
			mock.RedisArray(
				mock.RedisString(fieldScore), mock.RedisString("0.05"),
				mock.RedisString(fieldContent), mock.RedisString("best"),
				mock.RedisString(fieldSeq), mock.RedisString("5"),
				mock.RedisString(fieldMetadata), mock.RedisString(`{"document_id":"1"}`),
			),
			mock.RedisString(keyPrefix+"early"),
			mock.RedisArray(
				mock.RedisString(fieldScore), mock.RedisString("0.2"),
				mock.RedisString(fieldContent), mock.RedisString("early"),
				mock.RedisString(fieldSeq), mock.RedisString("3"),
				mock.RedisString(fieldMetadata), mock.RedisString(`{}`),
			),
		)))

	hits, err := newStore(c).Nearest(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "best", hits[0].ID)
	assert.Equal(t, "early", hits[1].ID)
	assert.Equal(t, "late", hits[2].ID)
	assert.InDelta(t, 0.05, hits[0].Distance, 1e-9)

	docID, ok := hits[0].Metadata.DocumentID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), docID)
}

func TestNearest_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	hits, err := newStore(c).Nearest(context.Background(), []float32{1}, 5)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(0)),
		})

	found, err := newStore(c).Exists(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": true}, found)
}

func TestExists_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(errors.New("connection refused"))})

	_, err := newStore(c).Exists(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "connection refused")
}
