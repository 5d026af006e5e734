package wishlist

import (
	"context"
	"encoding/json"
	"testing"

	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, wishItem("p1", "s1", "home", 30)))
	require.NoError(t, svc.Add(ctx, wishItem("p2", "s2", "office", 80)))
	require.NoError(t, svc.AddFavoriteStore(ctx, FavoriteStore{StoreID: "s1", StoreName: "Lumina"}))

	payload, err := svc.Export()
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, exportVersion, doc.Version)
	assert.False(t, doc.ExportedAt.IsZero())
	assert.Len(t, doc.Items, 2)
	assert.Len(t, doc.Stores, 1)

	// Import into a fresh engine reproduces the collection, timestamps intact.
	fresh, _ := newTestService(t)
	added, err := fresh.Import(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.True(t, fresh.Items()[0].AddedAt.Equal(svc.Items()[0].AddedAt))
	assert.True(t, fresh.IsFavorite("s1"))
}

func TestImportNeverOverwritesExistingEntries(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	existing := wishItem("p1", "s1", "home", 30)
	require.NoError(t, svc.Add(ctx, existing))

	conflicting := wishItem("p1", "s9", "garden", 1)
	incoming := wishItem("p2", "s2", "office", 80)
	payload, err := json.Marshal(ExportDocument{Version: exportVersion, Items: []Item{conflicting, incoming}})
	require.NoError(t, err)

	added, err := svc.Import(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	items := svc.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "s1", items[0].StoreID, "existing entry is untouched")
	assert.Equal(t, "p2", items[1].ProductID)
}

func TestImportMalformedPayload(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	added, err := svc.Import(context.Background(), []byte(`{"items": [}`))
	require.Error(t, err)
	assert.Equal(t, 0, added)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMalformed, typed.Code())
	assert.Empty(t, svc.Items(), "a failed import leaves state unchanged")
}
