package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexim39/marketspase-engine/internal/cart"
	"github.com/alexim39/marketspase-engine/pkg/derive"
	"github.com/alexim39/marketspase-engine/pkg/enums"
	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
	"github.com/alexim39/marketspase-engine/pkg/logger"
	"github.com/alexim39/marketspase-engine/pkg/metrics"
	"github.com/alexim39/marketspase-engine/pkg/money"
	"github.com/alexim39/marketspase-engine/pkg/notify"
	"github.com/alexim39/marketspase-engine/pkg/storage"
)

// ServiceParams groups dependencies for the wishlist engine. Cart is optional;
// without it MoveToCart reports a dependency failure. Now is overridable for
// deterministic timestamps in tests.
type ServiceParams struct {
	Store    storage.Store
	Cart     CartAdder
	Logger   *logger.Logger
	Notifier notify.Sink
	Metrics  *metrics.EngineMetrics
	Now      func() time.Time
}

// Service owns the wishlist items and the favorited stores.
type Service struct {
	store    storage.Store
	cart     CartAdder
	logg     *logger.Logger
	notifier notify.Sink
	metrics  *metrics.EngineMetrics
	now      func() time.Time

	items  []Item
	stores []FavoriteStore

	src   *derive.Source
	stats *derive.Cell[Stats]
}

// NewService builds the wishlist engine and seeds it from the durable store.
// Malformed or missing persisted state is treated as empty collections.
func NewService(ctx context.Context, params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "durable store is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	s := &Service{
		store:    params.Store,
		cart:     params.Cart,
		logg:     params.Logger,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		now:      now,
		src:      derive.NewSource(),
	}
	s.stats = derive.NewCell(func() Stats {
		s.metrics.IncRecompute("wishlist_stats")
		return computeStats(s.items)
	}, s.src)
	s.load(ctx)
	return s, nil
}

// Add inserts the item stamped with the current time. Adding a product id that
// is already present leaves the list unchanged and signals the duplicate.
func (s *Service) Add(ctx context.Context, item Item) error {
	if item.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if s.Contains(item.ProductID) {
		s.metrics.IncRejection("wishlist", "already-present")
		s.toast(ctx, enums.SeverityInfo, fmt.Sprintf("%s is already in your wishlist", item.Name))
		return pkgerrors.New(pkgerrors.CodeRejected, "product already in wishlist").
			WithDetails(map[string]any{"reason": "already-present", "productId": item.ProductID})
	}
	item.AddedAt = s.now()
	s.items = append(s.items, item)
	s.commit(ctx, "add")
	return nil
}

// Remove drops the item if present.
func (s *Service) Remove(ctx context.Context, productID string) error {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.commit(ctx, "remove")
			return nil
		}
	}
	return nil
}

// Clear empties the wishlist. Favorite stores are untouched.
func (s *Service) Clear(ctx context.Context) {
	s.items = nil
	s.commit(ctx, "clear")
}

// MoveToCart hands the item to the cart engine and removes it from the
// wishlist only when the cart accepted it.
func (s *Service) MoveToCart(ctx context.Context, productID string) error {
	if s.cart == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "no cart engine attached")
	}
	item, ok := s.find(productID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not in wishlist")
	}
	line := cart.Item{
		ProductID: item.ProductID,
		Name:      item.Name,
		Price:     item.Price,
		Quantity:  1,
		StoreID:   item.StoreID,
		StoreName: item.StoreName,
	}
	if err := s.cart.AddItem(ctx, line); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRejected, err, "cart did not accept the item")
	}
	return s.Remove(ctx, productID)
}

// UpdateItemPrice mutates the matching item in place. When the new price is
// lower than the stored one, a price-drop notification is published carrying
// the absolute and percentage drop.
func (s *Service) UpdateItemPrice(ctx context.Context, productID string, newPrice float64, originalPrice *float64) error {
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		previous := s.items[i].Price
		s.items[i].Price = newPrice
		if originalPrice != nil {
			s.items[i].OriginalPrice = originalPrice
		}
		s.commit(ctx, "update_price")
		if newPrice < previous {
			drop := money.D(previous).Sub(money.D(newPrice))
			percent := money.Round(drop.Div(money.D(previous)).Mul(money.D(100)))
			s.toast(ctx, enums.SeveritySuccess, fmt.Sprintf(
				"Price drop: %s is down %.2f (%.0f%%)",
				s.items[i].Name, money.Round(drop), percent,
			))
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not in wishlist")
}

// RemoveUnavailable purges items explicitly marked unavailable and reports how
// many were removed.
func (s *Service) RemoveUnavailable(ctx context.Context) int {
	kept := s.items[:0]
	removed := 0
	for _, item := range s.items {
		if item.Available() {
			kept = append(kept, item)
		} else {
			removed++
		}
	}
	if removed > 0 {
		s.items = kept
		s.commit(ctx, "remove_unavailable")
	}
	return removed
}

// MoveMultipleToCart applies MoveToCart per id and reports how many moved.
// Individual rejections are skipped, not fatal.
func (s *Service) MoveMultipleToCart(ctx context.Context, productIDs []string) int {
	moved := 0
	for _, id := range productIDs {
		if err := s.MoveToCart(ctx, id); err == nil {
			moved++
		}
	}
	return moved
}

// RemoveMultiple removes each listed id and reports how many were present.
func (s *Service) RemoveMultiple(ctx context.Context, productIDs []string) int {
	removed := 0
	for _, id := range productIDs {
		if s.Contains(id) {
			_ = s.Remove(ctx, id)
			removed++
		}
	}
	return removed
}

// AddFavoriteStore follows the store. Duplicate follows leave the list
// unchanged and signal the duplicate.
func (s *Service) AddFavoriteStore(ctx context.Context, store FavoriteStore) error {
	if store.StoreID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if s.IsFavorite(store.StoreID) {
		s.metrics.IncRejection("wishlist", "already-favorited")
		s.toast(ctx, enums.SeverityInfo, fmt.Sprintf("%s is already in your favorites", store.StoreName))
		return pkgerrors.New(pkgerrors.CodeRejected, "store already favorited").
			WithDetails(map[string]any{"reason": "already-favorited", "storeId": store.StoreID})
	}
	store.AddedAt = s.now()
	s.stores = append(s.stores, store)
	s.commitStores(ctx, "add_favorite")
	return nil
}

// RemoveFavoriteStore unfollows the store if present.
func (s *Service) RemoveFavoriteStore(ctx context.Context, storeID string) error {
	for i := range s.stores {
		if s.stores[i].StoreID == storeID {
			s.stores = append(s.stores[:i], s.stores[i+1:]...)
			s.commitStores(ctx, "remove_favorite")
			return nil
		}
	}
	return nil
}

// Items returns a copy of the wishlist in insertion order.
func (s *Service) Items() []Item {
	return append([]Item(nil), s.items...)
}

// FavoriteStores returns a copy of the followed stores in insertion order.
func (s *Service) FavoriteStores() []FavoriteStore {
	return append([]FavoriteStore(nil), s.stores...)
}

// Contains reports whether the product is in the wishlist.
func (s *Service) Contains(productID string) bool {
	_, ok := s.find(productID)
	return ok
}

// IsFavorite reports whether the store is followed.
func (s *Service) IsFavorite(storeID string) bool {
	for _, store := range s.stores {
		if store.StoreID == storeID {
			return true
		}
	}
	return false
}

// Stats returns the memoized derived statistics.
func (s *Service) Stats() Stats {
	return s.stats.Get()
}

// RecentlyAdded returns up to limit items, newest first.
func (s *Service) RecentlyAdded(limit int) []Item {
	return recentlyAdded(s.items, limit)
}

// StoreItemCount reports how many wishlist items belong to the store.
func (s *Service) StoreItemCount(storeID string) int {
	count := 0
	for _, item := range s.items {
		if item.StoreID == storeID {
			count++
		}
	}
	return count
}

func (s *Service) find(productID string) (Item, bool) {
	for _, item := range s.items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return Item{}, false
}

func (s *Service) commit(ctx context.Context, op string) {
	s.src.Bump()
	s.metrics.IncMutation("wishlist", op)
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.logError(ctx, storage.KeyWishlist, err)
		return
	}
	if err := s.store.Write(ctx, storage.KeyWishlist, payload); err != nil {
		s.logError(ctx, storage.KeyWishlist, err)
	}
}

func (s *Service) commitStores(ctx context.Context, op string) {
	s.metrics.IncMutation("wishlist", op)
	payload, err := json.Marshal(s.stores)
	if err != nil {
		s.logError(ctx, storage.KeyFavoriteStores, err)
		return
	}
	if err := s.store.Write(ctx, storage.KeyFavoriteStores, payload); err != nil {
		s.logError(ctx, storage.KeyFavoriteStores, err)
	}
}

func (s *Service) load(ctx context.Context) {
	if payload, found, err := s.store.Read(ctx, storage.KeyWishlist); err == nil && found {
		var items []Item
		if err := json.Unmarshal(payload, &items); err != nil {
			s.logWarn(ctx, storage.KeyWishlist, err)
		} else {
			s.items = items
		}
	} else if err != nil {
		s.logWarn(ctx, storage.KeyWishlist, err)
	}

	if payload, found, err := s.store.Read(ctx, storage.KeyFavoriteStores); err == nil && found {
		var stores []FavoriteStore
		if err := json.Unmarshal(payload, &stores); err != nil {
			s.logWarn(ctx, storage.KeyFavoriteStores, err)
		} else {
			s.stores = stores
		}
	} else if err != nil {
		s.logWarn(ctx, storage.KeyFavoriteStores, err)
	}
}

func (s *Service) toast(ctx context.Context, severity enums.Severity, message string) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, severity, message)
	}
}

func (s *Service) logError(ctx context.Context, key string, err error) {
	if s.logg != nil {
		s.logg.Error(s.logg.WithStorageKey(ctx, key), "wishlist persistence failed", err)
	}
}

func (s *Service) logWarn(ctx context.Context, key string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithEngine(ctx, "wishlist")
	ctx = s.logg.WithStorageKey(ctx, key)
	if err != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
	}
	s.logg.Warn(ctx, "discarding unreadable persisted state")
}
