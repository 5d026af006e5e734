// Package storage defines the durable local store boundary. Each engine owns
// exactly one key; payload field names are fixed for compatibility with state
// persisted by earlier releases of the dashboard.
package storage

import "context"

// Persisted keys. Do not rename: existing state is stored under these.
const (
	KeyCart            = "cart"
	KeyShippingAddress = "shipping_address"
	KeyCartDiscount    = "cart_discount"
	KeyWishlist        = "wishlist"
	KeyFavoriteStores  = "favorite_stores"
)

// Store is the key/value persistence port. Read reports found=false for keys
// that were never written; engines treat that, and any error, as empty state.
type Store interface {
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
