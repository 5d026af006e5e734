package wishlist

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
)

// exportVersion tags the document format. Bump only with a migration path.
const exportVersion = 1

// ExportDocument is the single-file backup of a wishlist.
type ExportDocument struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Items      []Item          `json:"items"`
	Stores     []FavoriteStore `json:"stores"`
}

// Export serializes the current items and favorite stores into one JSON
// document.
func (s *Service) Export() ([]byte, error) {
	doc := ExportDocument{
		Version:    exportVersion,
		ExportedAt: s.now(),
		Items:      s.Items(),
		Stores:     s.FavoriteStores(),
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to serialize wishlist export")
	}
	return payload, nil
}

// Import merges a previously exported document. Only items whose product id is
// not already present are added; existing entries are never overwritten.
// Imported timestamps are preserved. Returns how many items were added.
func (s *Service) Import(ctx context.Context, payload []byte) (int, error) {
	var doc ExportDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "wishlist import is not valid JSON").
			WithDetails(map[string]any{"reason": "invalid-format"})
	}

	added := 0
	for _, item := range doc.Items {
		if item.ProductID == "" || s.Contains(item.ProductID) {
			continue
		}
		s.items = append(s.items, item)
		added++
	}
	if added > 0 {
		s.commit(ctx, "import")
	}

	merged := 0
	for _, store := range doc.Stores {
		if store.StoreID == "" || s.IsFavorite(store.StoreID) {
			continue
		}
		s.stores = append(s.stores, store)
		merged++
	}
	if merged > 0 {
		s.commitStores(ctx, "import")
	}
	return added, nil
}
