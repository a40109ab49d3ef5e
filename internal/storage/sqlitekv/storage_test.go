package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipemart/syncengine/internal/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestNew_InMemory(t *testing.T) {
	store, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}

func TestStorage_SetGet(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	err := store.Set(ctx, "device_id", []byte("dev-1"))
	require.NoError(t, err)

	value, err := store.Get(ctx, "device_id")
	require.NoError(t, err)
	assert.Equal(t, []byte("dev-1"), value)
}

func TestStorage_Get_NotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStorage_Set_Overwrite(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("old")))
	require.NoError(t, store.Set(ctx, "k", []byte("new")))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
}

func TestStorage_Delete(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// Повторное удаление не ошибка
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "engine.sqlite")
	ctx := context.Background()

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "offline_data", []byte("snapshot")))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	value, err := reopened.Get(ctx, "offline_data")
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), value)
}

func TestStorage_Closed(t *testing.T) {
	store := setupTestStorage(t)
	require.NoError(t, store.Close())

	ctx := context.Background()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = store.Set(ctx, "k", []byte("v"))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = store.Delete(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	assert.NoError(t, store.Close())
}
