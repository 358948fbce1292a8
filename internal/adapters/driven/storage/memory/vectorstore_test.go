package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

func TestVectorStore_InsertQueryDelete(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "x", []float32{1, 0}, domain.Chunk{DocumentID: "d", Text: "x"}))
	require.NoError(t, store.Insert(ctx, "y", []float32{0, 1}, domain.Chunk{DocumentID: "d", Text: "y"}))

	matches, err := store.Query(ctx, []float32{1, 0.1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "x", matches[0].ItemID)

	require.NoError(t, store.Delete(ctx, "x"))
	require.NoError(t, store.Delete(ctx, "x"))
	assert.Equal(t, 1, store.Len())
}

func TestVectorStore_ListAllInsertionOrder(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Insert(ctx, id, []float32{1}, domain.Chunk{}))
	}

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ItemID)
	assert.Equal(t, "a", records[1].ItemID)
	assert.Equal(t, "b", records[2].ItemID)
}

func TestVectorStore_InsertCopiesVector(t *testing.T) {
	store := NewVectorStore()
	vec := []float32{1, 2}

	require.NoError(t, store.Insert(context.Background(), "a", vec, domain.Chunk{}))
	vec[0] = 99

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, records[0].Vector)
}

func TestVectorStore_QueryEmpty(t *testing.T) {
	matches, err := NewVectorStore().Query(context.Background(), []float32{1}, 5)

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVectorStore_ClosedReturnsIOError(t *testing.T) {
	store := NewVectorStore()
	require.NoError(t, store.Close())

	err := store.Insert(context.Background(), "a", []float32{1}, domain.Chunk{})
	assert.ErrorIs(t, err, domain.ErrVectorStoreIO)

	_, err = store.ListAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrVectorStoreIO)
}

func TestOpener_ReopensSameStore(t *testing.T) {
	store := NewVectorStore()
	open := Opener(store)
	ctx := context.Background()

	first, err := open("")
	require.NoError(t, err)
	require.NoError(t, first.Insert(ctx, "a", []float32{1}, domain.Chunk{DocumentID: "d"}))
	require.NoError(t, first.Close())

	second, err := open("")
	require.NoError(t, err)
	records, err := second.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
