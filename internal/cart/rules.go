package cart

import "github.com/alexim39/marketspase-engine/pkg/enums"

// discountRule is one entry of the static code table. The table ships
// identically across releases; descriptions are the canonical user-facing
// messaging for a successful apply.
type discountRule struct {
	Type        enums.DiscountType
	Value       float64
	MinPurchase *float64
	Description string
}

func minPurchase(v float64) *float64 { return &v }

var discountRules = map[string]discountRule{
	"WELCOME10": {
		Type:        enums.DiscountPercentage,
		Value:       10,
		MinPurchase: minPurchase(20),
		Description: "10% off your order",
	},
	"FREESHIP": {
		Type:        enums.DiscountFixed,
		Value:       5.99,
		Description: "5.99 off shipping",
	},
	"SAVE20": {
		Type:        enums.DiscountPercentage,
		Value:       20,
		MinPurchase: minPurchase(50),
		Description: "20% off orders over 50.00",
	},
}
