package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-registry/pkg/contentregistry"
	"github.com/tendant/content-registry/pkg/contentregistry/storage/memory"
)

func TestCreateAndGet(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	created, err := store.Create(ctx, contentregistry.VersionSpec{}, "item-1", map[string]any{"title": "hello"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "item-1", "title": "hello"}, created)

	got, err := store.Get(ctx, contentregistry.VersionSpec{}, "item-1", nil)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateGeneratesID(t *testing.T) {
	store := memory.New()

	created, err := store.Create(context.Background(), contentregistry.VersionSpec{}, "", map[string]any{"title": "x"})
	require.NoError(t, err)

	item, ok := created.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, item["id"])
}

func TestCreateDuplicateFails(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.Create(ctx, contentregistry.VersionSpec{}, "item-1", map[string]any{})
	require.NoError(t, err)

	_, err = store.Create(ctx, contentregistry.VersionSpec{}, "item-1", map[string]any{})
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	store := memory.New()

	_, err := store.Get(context.Background(), contentregistry.VersionSpec{}, "missing", nil)
	assert.ErrorIs(t, err, contentregistry.ErrItemNotFound)
}

func TestUpdateReplacesFields(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.Create(ctx, contentregistry.VersionSpec{}, "item-1", map[string]any{"title": "old", "tag": "a"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, contentregistry.VersionSpec{}, "item-1", map[string]any{"title": "new"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "item-1", "title": "new"}, updated)
}

func TestUpdateNotFound(t *testing.T) {
	store := memory.New()

	_, err := store.Update(context.Background(), contentregistry.VersionSpec{}, "missing", map[string]any{})
	assert.ErrorIs(t, err, contentregistry.ErrItemNotFound)
}

func TestDelete(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.Create(ctx, contentregistry.VersionSpec{}, "item-1", map[string]any{})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, contentregistry.VersionSpec{}, "item-1"))

	_, err = store.Get(ctx, contentregistry.VersionSpec{}, "item-1", nil)
	assert.ErrorIs(t, err, contentregistry.ErrItemNotFound)

	assert.ErrorIs(t, store.Delete(ctx, contentregistry.VersionSpec{}, "item-1"), contentregistry.ErrItemNotFound)
}

func TestReturnedItemsAreCopies(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.Create(ctx, contentregistry.VersionSpec{}, "item-1", map[string]any{"title": "hello"})
	require.NoError(t, err)

	got, err := store.Get(ctx, contentregistry.VersionSpec{}, "item-1", nil)
	require.NoError(t, err)

	item, ok := got.(map[string]any)
	require.True(t, ok)
	item["title"] = "mutated"

	again, err := store.Get(ctx, contentregistry.VersionSpec{}, "item-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.(map[string]any)["title"])
}

func TestCancelledContext(t *testing.T) {
	store := memory.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, contentregistry.VersionSpec{}, "item-1", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
