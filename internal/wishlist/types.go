package wishlist

import (
	"context"
	"time"

	"github.com/alexim39/marketspase-engine/internal/cart"
)

// Item is one saved product. Unique by product id; insertion order is
// preserved so "recently added" queries stay cheap.
type Item struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	StoreID       string    `json:"storeId"`
	StoreName     *string   `json:"storeName,omitempty"`
	Category      string    `json:"category"`
	AddedAt       time.Time `json:"addedAt"`
	IsAvailable   *bool     `json:"isAvailable,omitempty"`
}

// Available reports whether the product can still be bought. Only an explicit
// false counts as unavailable.
func (i Item) Available() bool {
	return i.IsAvailable == nil || *i.IsAvailable
}

// FavoriteStore is one followed store, unique by store id.
type FavoriteStore struct {
	StoreID   string    `json:"storeId"`
	StoreName string    `json:"storeName"`
	Logo      *string   `json:"logo,omitempty"`
	Category  *string   `json:"category,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// CartAdder is the handoff port into the cart engine. The wishlist never owns
// cart state; MoveToCart delegates the insert and only removes its own copy
// when the insert succeeds.
type CartAdder interface {
	AddItem(ctx context.Context, item cart.Item) error
}

// BucketCount is one bar of the price histogram.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats is the derived snapshot over the wishlist collection.
type Stats struct {
	TotalItems int            `json:"totalItems"`
	ByStore    map[string]int `json:"byStore"`
	ByCategory map[string]int `json:"byCategory"`
	Histogram  []BucketCount  `json:"histogram"`
}
