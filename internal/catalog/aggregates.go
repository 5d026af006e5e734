package catalog

import "sort"

// TopTagLimit caps the tag cloud computed from the catalog.
const TopTagLimit = 20

// FacetCount pairs a facet value with how many catalog products carry it.
// Counts come from the unfiltered catalog so they describe the whole
// assortment, not the current view.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func countCategories(catalog []Product) []FacetCount {
	counts := map[string]int{}
	for _, p := range catalog {
		if p.Category != "" {
			counts[p.Category]++
		}
	}
	return sortedCounts(counts, 0)
}

func countBrands(catalog []Product) []FacetCount {
	counts := map[string]int{}
	for _, p := range catalog {
		if p.Brand != nil && *p.Brand != "" {
			counts[*p.Brand]++
		}
	}
	return sortedCounts(counts, 0)
}

func countTopTags(catalog []Product) []FacetCount {
	counts := map[string]int{}
	for _, p := range catalog {
		for _, tag := range p.Tags {
			if tag != "" {
				counts[tag]++
			}
		}
	}
	return sortedCounts(counts, TopTagLimit)
}

// sortedCounts orders by count descending, value ascending for equal counts,
// truncated to limit when limit > 0.
func sortedCounts(counts map[string]int, limit int) []FacetCount {
	result := make([]FacetCount, 0, len(counts))
	for value, count := range counts {
		result = append(result, FacetCount{Value: value, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Value < result[j].Value
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
