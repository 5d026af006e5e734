package catalog

import (
	"sort"

	"github.com/alexim39/marketspase-engine/pkg/enums"
)

// View is the ordered, paginated result of applying a selection to a catalog.
type View struct {
	Items        []Product `json:"items"`
	TotalMatched int       `json:"totalMatched"`
	TotalPages   int       `json:"totalPages"`
	Page         int       `json:"page"`
	PageSize     int       `json:"pageSize"`
}

// DeriveView runs the filter pipeline: text, category, price range,
// availability, rating, tags (AND), brands (OR), then a stable sort and
// pagination. Each stage narrows the previous stage's result.
func DeriveView(catalog []Product, selection FacetSelection) View {
	matched := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		if !selection.matchesSearch(p) {
			continue
		}
		if selection.Category != nil && p.Category != *selection.Category {
			continue
		}
		if p.Price < selection.PriceMin || p.Price > selection.PriceMax {
			continue
		}
		if !matchesAvailability(p, selection.Availability) {
			continue
		}
		if selection.MinRating > 0 && p.AverageRating < selection.MinRating {
			continue
		}
		if !hasAllTags(p, selection.Tags) {
			continue
		}
		if !hasAnyBrand(p, selection.Brands) {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, selection.Sort)

	pageSize := selection.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalMatched := len(matched)
	totalPages := (totalMatched + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := selection.Page * pageSize
	if start > totalMatched {
		start = totalMatched
	}
	end := start + pageSize
	if end > totalMatched {
		end = totalMatched
	}

	return View{
		Items:        matched[start:end],
		TotalMatched: totalMatched,
		TotalPages:   totalPages,
		Page:         selection.Page,
		PageSize:     pageSize,
	}
}

func matchesAvailability(p Product, availability enums.Availability) bool {
	switch availability {
	case enums.AvailabilityInStock:
		return p.InStock()
	case enums.AvailabilityOutOfStock:
		return p.ManageStock && p.Quantity == 0
	default:
		return true
	}
}

// hasAllTags applies AND semantics: every selected tag must be present.
func hasAllTags(p Product, tags []string) bool {
	for _, wanted := range tags {
		found := false
		for _, tag := range p.Tags {
			if tag == wanted {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasAnyBrand applies OR semantics: the product's brand must be one of the
// selected brands. An empty selection matches everything.
func hasAnyBrand(p Product, brands []string) bool {
	if len(brands) == 0 {
		return true
	}
	if p.Brand == nil {
		return false
	}
	for _, wanted := range brands {
		if *p.Brand == wanted {
			return true
		}
	}
	return false
}

// sortProducts orders in place. Ties keep catalog order: the sort is stable.
func sortProducts(items []Product, key enums.SortKey) {
	var less func(a, b Product) bool
	switch key {
	case enums.SortPriceLow:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case enums.SortPriceHigh:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case enums.SortPopular:
		less = func(a, b Product) bool { return a.PurchaseCount > b.PurchaseCount }
	case enums.SortRating:
		less = func(a, b Product) bool { return a.AverageRating > b.AverageRating }
	case enums.SortDiscount:
		less = func(a, b Product) bool { return a.DiscountPercent() > b.DiscountPercent() }
	default: // newest
		less = func(a, b Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
