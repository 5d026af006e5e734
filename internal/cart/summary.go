package cart

import (
	"github.com/alexim39/marketspase-engine/pkg/enums"
	"github.com/alexim39/marketspase-engine/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 50.0
	// FlatShippingRate applies below the threshold when the cart has a
	// physical line.
	FlatShippingRate = 5.99
	// TaxRate is a flat 8%, computed on the subtotal only.
	TaxRate = 0.08
)

// computeSummary derives the totals from the current lines and discount.
// Fixed discounts are deliberately not clamped to the subtotal, so a small
// cart with a large fixed discount can yield a negative total.
func computeSummary(items []Item, discount *Discount) Summary {
	subtotal := decimal.Zero
	itemCount := 0
	hasPhysical := false
	for _, item := range items {
		subtotal = subtotal.Add(money.Line(item.Price, item.Quantity))
		itemCount += item.Quantity
		if item.Physical() {
			hasPhysical = true
		}
	}

	shipping := decimal.Zero
	if hasPhysical && subtotal.LessThan(money.D(FreeShippingThreshold)) {
		shipping = money.D(FlatShippingRate)
	}

	tax := money.Rate(subtotal, TaxRate)

	discountAmount := decimal.Zero
	if discount != nil {
		switch discount.Type {
		case enums.DiscountPercentage:
			discountAmount = money.Percent(subtotal, discount.Value)
		case enums.DiscountFixed:
			discountAmount = money.D(discount.Value)
		}
	}

	// Each component settles to cents first, then the total sums the settled
	// amounts, so total == subtotal + shipping + tax - discount holds exactly.
	subtotal = subtotal.Round(2)
	shipping = shipping.Round(2)
	tax = tax.Round(2)
	discountAmount = discountAmount.Round(2)
	total := subtotal.Add(shipping).Add(tax).Sub(discountAmount)

	return Summary{
		Subtotal:  money.Round(subtotal),
		Shipping:  money.Round(shipping),
		Tax:       money.Round(tax),
		Discount:  money.Round(discountAmount),
		Total:     money.Round(total),
		ItemCount: itemCount,
	}
}
