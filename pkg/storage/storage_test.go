package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Read(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Write(ctx, KeyCart, []byte(`[{"productId":"p1"}]`)))

	value, found, err := store.Read(ctx, KeyCart)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"productId":"p1"}]`, string(value))

	// The returned slice must be a copy, not a live reference.
	value[0] = 'X'
	again, _, err := store.Read(ctx, KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1"}]`, string(again))

	require.NoError(t, store.Delete(ctx, KeyCart))
	_, found, err = store.Read(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := store.Read(ctx, KeyWishlist)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Write(ctx, KeyWishlist, []byte(`[]`)))
	require.NoError(t, store.Write(ctx, KeyWishlist, []byte(`[{"productId":"p2"}]`)))

	value, found, err := store.Read(ctx, KeyWishlist)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"productId":"p2"}]`, string(value))

	require.NoError(t, store.Delete(ctx, KeyWishlist))
	require.NoError(t, store.Delete(ctx, KeyWishlist), "double delete is a no-op")
}

func TestFileStoreRequiresDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewFileStore("  ")
	assert.Error(t, err)
}
