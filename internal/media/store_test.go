package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("\x89PNG fake image bytes")
	ref, err := store.Put(ctx, data, "image/png")
	require.NoError(t, err)
	assert.Regexp(t, `^img_[0-9a-f-]{36}\.png$`, ref)

	got, contentType, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "image/png", contentType)
}

func TestFileStore_RejectsNonImages(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = store.Put(context.Background(), []byte("text"), "")
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestFileStore_RejectsOversizedImages(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	big := make([]byte, MaxImageSize+1)
	_, err = store.Put(context.Background(), big, "image/jpeg")
	assert.ErrorIs(t, err, ErrImageTooBig)
}

func TestFileStore_GetGuardsReferences(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	// Traversal attempts and malformed references never touch the disk
	for _, ref := range []string{
		"../../etc/passwd",
		"img_../secret.png",
		"plain.png",
		"",
	} {
		_, _, err := store.Get(ctx, ref)
		assert.ErrorIs(t, err, ErrMediaMissing, ref)
	}

	// Well-formed but unknown reference
	_, _, err = store.Get(ctx, "img_00000000-0000-0000-0000-000000000000.png")
	assert.ErrorIs(t, err, ErrMediaMissing)
}
