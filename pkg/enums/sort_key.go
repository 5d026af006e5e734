package enums

import "fmt"

// SortKey selects the comparator used to order a derived catalog view.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortPopular   SortKey = "popular"
	SortRating    SortKey = "rating"
	SortDiscount  SortKey = "discount"
)

var validSortKeys = []SortKey{
	SortNewest,
	SortPriceLow,
	SortPriceHigh,
	SortPopular,
	SortRating,
	SortDiscount,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey.
func ParseSortKey(value string) (SortKey, error) {
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
