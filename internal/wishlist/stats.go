package wishlist

import "sort"

// Fixed histogram buckets. The labels are part of the exported stats payload.
var histogramLabels = []string{"<50", "50-100", "100-200", "200-500", "500+"}

func bucketIndex(price float64) int {
	switch {
	case price < 50:
		return 0
	case price < 100:
		return 1
	case price < 200:
		return 2
	case price < 500:
		return 3
	default:
		return 4
	}
}

func computeStats(items []Item) Stats {
	stats := Stats{
		TotalItems: len(items),
		ByStore:    map[string]int{},
		ByCategory: map[string]int{},
		Histogram:  make([]BucketCount, len(histogramLabels)),
	}
	for i, label := range histogramLabels {
		stats.Histogram[i].Label = label
	}
	for _, item := range items {
		stats.ByStore[item.StoreID]++
		stats.ByCategory[item.Category]++
		stats.Histogram[bucketIndex(item.Price)].Count++
	}
	return stats
}

// recentlyAdded returns up to limit items, newest first. Ties keep insertion
// order thanks to the stable sort.
func recentlyAdded(items []Item, limit int) []Item {
	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].AddedAt.After(sorted[b].AddedAt)
	})
	if limit >= 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}
