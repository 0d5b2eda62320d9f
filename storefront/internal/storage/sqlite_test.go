package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations("./migrations"))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_LoadMissingKey(t *testing.T) {
	store := setupTestSQLite(t)

	_, err := store.Load(context.Background(), KeyCart)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	store := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, KeyCart, []byte(`[1]`)))
	require.NoError(t, store.Save(ctx, KeyCart, []byte(`[1,2]`)))

	got, err := store.Load(ctx, KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(got))
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := setupTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, KeySession, []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, KeySession))
	require.NoError(t, store.Delete(ctx, KeySession))

	_, err := store.Load(ctx, KeySession)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_CancelledContext(t *testing.T) {
	store := setupTestSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, KeyCart, []byte(`[]`))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestJSONHelpers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var ids []int64
	found, err := LoadJSON(ctx, store, KeyFavorites, &ids)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SaveJSON(ctx, store, KeyFavorites, []int64{3, 1}))

	found, err = LoadJSON(ctx, store, KeyFavorites, &ids)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int64{3, 1}, ids)
}

func TestJSONHelpers_CorruptValue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, KeyCart, []byte(`{not json`)))

	var v []int
	_, err := LoadJSON(ctx, store, KeyCart, &v)

	assert.Error(t, err)
}
