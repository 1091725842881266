package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/relevance/backend/badger"
	"github.com/poiesic/relevance/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T, count int) *badger.Store {
	t.Helper()

	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	docs := make([]*core.Document, count)
	for i := range docs {
		docs[i] = &core.Document{
			Kind: core.KindRepo,
			Attrs: map[string]any{
				"name":        fmt.Sprintf("repo-%d", i),
				"description": fmt.Sprintf("repository number %d", i),
			},
			Vector: []float32{1, 0},
		}
	}
	require.NoError(t, store.AddDocuments(context.Background(), docs...))

	return store
}

func TestDocumentIterator_Batches(t *testing.T) {
	store := newSeededStore(t, 7)

	iterator := NewDocumentIterator(store, core.KindRepo, 3)

	var batchSizes []int
	seen := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Document) error {
		batchSizes = append(batchSizes, len(batch))
		seen += len(batch)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3, 1}, batchSizes)
	assert.Equal(t, 7, seen)
}

func TestDocumentIterator_Empty(t *testing.T) {
	store := newSeededStore(t, 0)

	iterator := NewDocumentIterator(store, core.KindRepo, 10)
	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Document) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestDocumentIterator_StopsOnError(t *testing.T) {
	store := newSeededStore(t, 5)

	iterator := NewDocumentIterator(store, core.KindRepo, 2)
	boom := errors.New("boom")
	calls := 0
	err := iterator.ForEach(context.Background(), func(batch []*core.Document) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDocumentIterator_ContextCanceled(t *testing.T) {
	store := newSeededStore(t, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iterator := NewDocumentIterator(store, core.KindRepo, 2)
	err := iterator.ForEach(ctx, func(batch []*core.Document) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentIterator_DefaultBatchSize(t *testing.T) {
	store := newSeededStore(t, 1)

	iterator := NewDocumentIterator(store, core.KindRepo, 0)
	assert.Equal(t, DefaultBatchSize, iterator.batchSize)
}
