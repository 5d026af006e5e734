package catalog

import (
	"math"
	"time"
)

// Product is the read-only record supplied by the remote catalog. The engine
// never mutates it.
type Product struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Brand         *string    `json:"brand,omitempty"`
	Tags          []string   `json:"tags"`
	Price         float64    `json:"price"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	Quantity      int        `json:"quantity"`
	ManageStock   bool       `json:"manageStock"`
	LowStockAlert int        `json:"lowStockAlert"`
	AverageRating float64    `json:"averageRating"`
	PurchaseCount int        `json:"purchaseCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	IsFeatured    bool       `json:"isFeatured"`
}

// InStock reports whether the product can currently be ordered. Products that
// do not manage stock are always orderable.
func (p Product) InStock() bool {
	return !p.ManageStock || p.Quantity > 0
}

// DiscountPercent returns the rounded markdown percentage, or 0 when the
// product has no original price above its current price.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}
