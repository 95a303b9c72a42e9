package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcpatrol/patrol/internal/domain/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestStore_SaveLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "rooms", []byte(`{"a":1}`)))

	doc, err := store.Load(ctx, "rooms")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), doc)
}

func TestStore_Upsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", []byte("v1")))
	require.NoError(t, store.Save(ctx, "k", []byte("v2")))

	doc, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), doc)
}

func TestStore_MissingKey(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "k", []byte("v")))
	require.NoError(t, store.Close(ctx))

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	doc, err := reopened.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), doc)
}
