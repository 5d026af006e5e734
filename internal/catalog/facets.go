package catalog

import (
	"math"
	"strings"

	"github.com/alexim39/marketspase-engine/pkg/enums"
)

// DefaultPageSize matches the storefront grid.
const DefaultPageSize = 12

// FacetSelection is the full set of active filter dimensions.
type FacetSelection struct {
	Search       string             `json:"search"`
	Category     *string            `json:"category"`
	PriceMin     float64            `json:"priceMin"`
	PriceMax     float64            `json:"priceMax"`
	Availability enums.Availability `json:"availability"`
	MinRating    float64            `json:"minRating"`
	Tags         []string           `json:"tags"`
	Brands       []string           `json:"brands"`
	Sort         enums.SortKey      `json:"sort"`
	Page         int                `json:"page"`
	PageSize     int                `json:"pageSize"`
}

// FacetUpdate is a partial revision: nil fields keep their prior value.
type FacetUpdate struct {
	Search        *string             `json:"search,omitempty"`
	Category      *string             `json:"category,omitempty"`
	ClearCategory bool                `json:"clearCategory,omitempty"`
	PriceMin      *float64            `json:"priceMin,omitempty"`
	PriceMax      *float64            `json:"priceMax,omitempty"`
	Availability  *enums.Availability `json:"availability,omitempty"`
	MinRating     *float64            `json:"minRating,omitempty"`
	Tags          *[]string           `json:"tags,omitempty"`
	Brands        *[]string           `json:"brands,omitempty"`
	Sort          *enums.SortKey      `json:"sort,omitempty"`
	Page          *int                `json:"page,omitempty"`
	PageSize      *int                `json:"pageSize,omitempty"`
}

func defaultSelection() FacetSelection {
	return FacetSelection{
		PriceMin:     0,
		PriceMax:     math.MaxFloat64,
		Availability: enums.AvailabilityAll,
		Sort:         enums.SortNewest,
		Page:         0,
		PageSize:     DefaultPageSize,
	}
}

// apply merges the update into the selection and reports whether anything
// other than page navigation changed.
func (s *FacetSelection) apply(update FacetUpdate) bool {
	facetChanged := false

	if update.Search != nil && *update.Search != s.Search {
		s.Search = *update.Search
		facetChanged = true
	}
	if update.ClearCategory {
		if s.Category != nil {
			s.Category = nil
			facetChanged = true
		}
	} else if update.Category != nil {
		if s.Category == nil || *s.Category != *update.Category {
			category := *update.Category
			s.Category = &category
			facetChanged = true
		}
	}
	if update.PriceMin != nil && *update.PriceMin != s.PriceMin {
		s.PriceMin = *update.PriceMin
		facetChanged = true
	}
	if update.PriceMax != nil && *update.PriceMax != s.PriceMax {
		s.PriceMax = *update.PriceMax
		facetChanged = true
	}
	if update.Availability != nil && update.Availability.IsValid() && *update.Availability != s.Availability {
		s.Availability = *update.Availability
		facetChanged = true
	}
	if update.MinRating != nil && *update.MinRating != s.MinRating {
		s.MinRating = *update.MinRating
		facetChanged = true
	}
	if update.Tags != nil {
		s.Tags = append([]string(nil), (*update.Tags)...)
		facetChanged = true
	}
	if update.Brands != nil {
		s.Brands = append([]string(nil), (*update.Brands)...)
		facetChanged = true
	}
	if update.Sort != nil && update.Sort.IsValid() && *update.Sort != s.Sort {
		s.Sort = *update.Sort
		facetChanged = true
	}
	if update.PageSize != nil && *update.PageSize > 0 && *update.PageSize != s.PageSize {
		s.PageSize = *update.PageSize
		facetChanged = true
	}

	if facetChanged {
		s.Page = 0
	} else if update.Page != nil && *update.Page >= 0 {
		s.Page = *update.Page
	}

	// Malformed ranges are clamped, never rejected.
	if s.PriceMax < s.PriceMin {
		s.PriceMax = s.PriceMin
	}
	return facetChanged
}

// clampPriceRange pins the selection bounds to the catalog's price span.
func (s *FacetSelection) clampPriceRange(catalogMin, catalogMax float64) {
	if s.PriceMin < catalogMin {
		s.PriceMin = catalogMin
	}
	if s.PriceMin > catalogMax {
		s.PriceMin = catalogMax
	}
	if s.PriceMax > catalogMax {
		s.PriceMax = catalogMax
	}
	if s.PriceMax < s.PriceMin {
		s.PriceMax = s.PriceMin
	}
}

func (s FacetSelection) matchesSearch(p Product) bool {
	needle := strings.ToLower(strings.TrimSpace(s.Search))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	if p.Brand != nil && strings.Contains(strings.ToLower(*p.Brand), needle) {
		return true
	}
	return false
}
