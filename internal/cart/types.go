package cart

import "github.com/alexim39/marketspase-engine/pkg/enums"

// Item is one cart line, identified by the (productId, variantId) composite
// key. JSON field names are part of the persisted schema and must not change.
type Item struct {
	ProductID        string  `json:"productId"`
	VariantID        *string `json:"variantId,omitempty"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	MaxQuantity      *int    `json:"maxQuantity,omitempty"`
	StoreID          string  `json:"storeId"`
	StoreName        *string `json:"storeName,omitempty"`
	IsDigital        bool    `json:"isDigital"`
	RequiresShipping *bool   `json:"requiresShipping,omitempty"`
}

// Key returns the composite line key.
func (i Item) Key() LineKey {
	key := LineKey{ProductID: i.ProductID}
	if i.VariantID != nil {
		key.VariantID = *i.VariantID
	}
	return key
}

// Physical reports whether the line needs shipping. Only an explicit
// requiresShipping=false marks a line digital-only.
func (i Item) Physical() bool {
	return i.RequiresShipping == nil || *i.RequiresShipping
}

// LineKey identifies a unique cart line.
type LineKey struct {
	ProductID string
	VariantID string
}

// Discount is the active cart-level discount. At most one is active; applying
// a new code replaces it.
type Discount struct {
	Code        string             `json:"code"`
	Type        enums.DiscountType `json:"type"`
	Value       float64            `json:"value"`
	MinPurchase *float64           `json:"minPurchase,omitempty"`
}

// Address is the free-form shipping destination, last write wins.
type Address struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Summary is derived from the current lines and never persisted; the inputs
// are sufficient to reconstruct it.
type Summary struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// StoreGroup collects a store's lines in insertion order.
type StoreGroup struct {
	StoreID string `json:"storeId"`
	Items   []Item `json:"items"`
}

// Issue is one structured validation finding.
type Issue struct {
	Kind      string `json:"kind"`
	ProductID string `json:"productId,omitempty"`
	Message   string `json:"message"`
}

// Validation issue kinds.
const (
	IssueStockCeiling    = "stock-ceiling"
	IssueMixedMultiStore = "mixed-multi-store"
)
