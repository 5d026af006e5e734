package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexim39/marketspase-engine/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(v string) *string                { return &v }
func f64ptr(v float64) *float64              { return &v }
func intptr(v int) *int                      { return &v }
func sortptr(v enums.SortKey) *enums.SortKey { return &v }

func testCatalog() []Product {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []Product{
		{
			ID: "p1", Name: "Solar Lamp", Description: "garden light", Category: "home",
			Brand: strptr("Lumina"), Tags: []string{"outdoor", "solar"}, Price: 25,
			OriginalPrice: f64ptr(50), Quantity: 3, ManageStock: true,
			AverageRating: 4.5, PurchaseCount: 120, CreatedAt: base.AddDate(0, 0, 3),
		},
		{
			ID: "p2", Name: "Desk Lamp", Description: "warm office light", Category: "office",
			Brand: strptr("Lumina"), Tags: []string{"indoor"}, Price: 40,
			Quantity: 0, ManageStock: true,
			AverageRating: 3.9, PurchaseCount: 300, CreatedAt: base.AddDate(0, 0, 2),
		},
		{
			ID: "p3", Name: "Garden Hose", Description: "flexible hose", Category: "home",
			Brand: strptr("FlowMax"), Tags: []string{"outdoor", "garden"}, Price: 15,
			Quantity: 0, ManageStock: false,
			AverageRating: 4.9, PurchaseCount: 80, CreatedAt: base.AddDate(0, 0, 1),
		},
		{
			ID: "p4", Name: "Reading Light", Description: "clip-on lamp", Category: "office",
			Tags: []string{"indoor", "portable"}, Price: 25,
			OriginalPrice: f64ptr(30), Quantity: 10, ManageStock: true,
			AverageRating: 4.1, PurchaseCount: 150, CreatedAt: base,
		},
	}
}

func newTestEngine(products []Product) *Engine {
	engine := NewEngine(EngineParams{})
	engine.SetCatalog(products)
	return engine
}

func TestDeriveViewTextSearch(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())
	engine.SetFacet(FacetUpdate{Search: strptr("lamp")})

	view := engine.View()
	assert.Equal(t, 3, view.TotalMatched, "name, description and brand all match")

	// Whitespace search is a no-op.
	engine.SetFacet(FacetUpdate{Search: strptr("   ")})
	assert.Equal(t, 4, engine.View().TotalMatched)

	// Tag substrings match too.
	engine.SetFacet(FacetUpdate{Search: strptr("garde")})
	assert.Equal(t, 2, engine.View().TotalMatched)
}

func TestDeriveViewCategoryAndPrice(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())
	engine.SetFacet(FacetUpdate{Category: strptr("home")})
	assert.Equal(t, 2, engine.View().TotalMatched)

	// Inclusive bounds.
	engine.SetFacet(FacetUpdate{PriceMin: f64ptr(15), PriceMax: f64ptr(25)})
	view := engine.View()
	require.Equal(t, 2, view.TotalMatched)

	engine.SetFacet(FacetUpdate{ClearCategory: true})
	assert.Equal(t, 3, engine.View().TotalMatched)
}

func TestDeriveViewAvailability(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())

	inStock := enums.AvailabilityInStock
	engine.SetFacet(FacetUpdate{Availability: &inStock})
	view := engine.View()
	assert.Equal(t, 3, view.TotalMatched, "unmanaged stock counts as in stock")

	outOfStock := enums.AvailabilityOutOfStock
	engine.SetFacet(FacetUpdate{Availability: &outOfStock})
	view = engine.View()
	require.Equal(t, 1, view.TotalMatched)
	assert.Equal(t, "p2", view.Items[0].ID)
}

func TestDeriveViewTagAndBrandSemantics(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())

	// Tags are AND: both must be present.
	tags := []string{"outdoor", "garden"}
	engine.SetFacet(FacetUpdate{Tags: &tags})
	view := engine.View()
	require.Equal(t, 1, view.TotalMatched)
	assert.Equal(t, "p3", view.Items[0].ID)

	// Brands are OR: any listed brand matches; products without a brand never do.
	empty := []string{}
	brands := []string{"Lumina", "FlowMax"}
	engine.SetFacet(FacetUpdate{Tags: &empty, Brands: &brands})
	assert.Equal(t, 3, engine.View().TotalMatched)
}

func TestDeriveViewRatingThreshold(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())
	engine.SetFacet(FacetUpdate{MinRating: f64ptr(4.1)})
	assert.Equal(t, 3, engine.View().TotalMatched, "threshold is inclusive")

	engine.SetFacet(FacetUpdate{MinRating: f64ptr(0)})
	assert.Equal(t, 4, engine.View().TotalMatched, "zero threshold is a no-op")
}

func TestSortKeys(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())

	ids := func() []string {
		view := engine.View()
		out := make([]string, 0, len(view.Items))
		for _, p := range view.Items {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(), "newest is the default")

	engine.SetFacet(FacetUpdate{Sort: sortptr(enums.SortPriceHigh)})
	assert.Equal(t, []string{"p2", "p1", "p4", "p3"}, ids())

	engine.SetFacet(FacetUpdate{Sort: sortptr(enums.SortPopular)})
	assert.Equal(t, []string{"p2", "p4", "p1", "p3"}, ids())

	engine.SetFacet(FacetUpdate{Sort: sortptr(enums.SortRating)})
	assert.Equal(t, []string{"p3", "p1", "p4", "p2"}, ids())

	// p1: (50-25)/50 = 50%; p4: (30-25)/30 ≈ 17%; others 0.
	engine.SetFacet(FacetUpdate{Sort: sortptr(enums.SortDiscount)})
	assert.Equal(t, []string{"p1", "p4", "p2", "p3"}, ids())
}

func TestSortStability(t *testing.T) {
	t.Parallel()

	// Identical prices: price-low must preserve catalog order.
	products := make([]Product, 0, 6)
	for i := 0; i < 6; i++ {
		products = append(products, Product{
			ID:        fmt.Sprintf("p%d", i),
			Name:      "same price",
			Price:     9.99,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	engine := newTestEngine(products)
	engine.SetFacet(FacetUpdate{Sort: sortptr(enums.SortPriceLow)})

	view := engine.View()
	require.Len(t, view.Items, 6)
	for i, p := range view.Items {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.ID)
	}
}

func TestPaginationRoundTrip(t *testing.T) {
	t.Parallel()

	products := make([]Product, 0, 7)
	for i := 0; i < 7; i++ {
		products = append(products, Product{ID: fmt.Sprintf("p%d", i), Price: float64(i + 1)})
	}
	engine := newTestEngine(products)
	engine.SetFacet(FacetUpdate{PageSize: intptr(3)})

	seen := 0
	for page := 0; page < 3; page++ {
		engine.SetFacet(FacetUpdate{Page: intptr(page)})
		view := engine.View()
		assert.Equal(t, 7, view.TotalMatched, "totalMatched is the pre-slice count on every page")
		assert.Equal(t, 3, view.TotalPages)
		seen += len(view.Items)
	}
	assert.Equal(t, 7, seen, "last partial page included")

	// Page index past the end yields an empty slice, not a panic.
	engine.SetFacet(FacetUpdate{Page: intptr(9)})
	assert.Empty(t, engine.View().Items)
}

func TestEmptyCatalogView(t *testing.T) {
	t.Parallel()

	engine := NewEngine(EngineParams{})
	view := engine.View()
	assert.Zero(t, view.TotalMatched)
	assert.Equal(t, 1, view.TotalPages)
	assert.Empty(t, view.Items)
}

func TestFacetChangeResetsPage(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())
	engine.SetFacet(FacetUpdate{PageSize: intptr(2)})
	engine.SetFacet(FacetUpdate{Page: intptr(1)})
	require.Equal(t, 1, engine.Selection().Page, "page navigation alone keeps the index")

	engine.SetFacet(FacetUpdate{Search: strptr("lamp")})
	assert.Equal(t, 0, engine.Selection().Page, "facet change resets to page 0")
}

func TestPriceRangeClampedToCatalog(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())
	selection := engine.Selection()
	assert.Equal(t, 15.0, selection.PriceMin)
	assert.Equal(t, 40.0, selection.PriceMax)

	// max < min is clamped, not rejected.
	engine.SetFacet(FacetUpdate{PriceMin: f64ptr(30), PriceMax: f64ptr(20)})
	selection = engine.Selection()
	assert.Equal(t, selection.PriceMin, selection.PriceMax)
}

func TestAggregatesUseUnfilteredCatalog(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())
	engine.SetFacet(FacetUpdate{Category: strptr("office")})

	categories := engine.Categories()
	require.Len(t, categories, 2, "counts cover the whole catalog, not the filtered view")

	brands := engine.Brands()
	require.Len(t, brands, 2)
	assert.Equal(t, FacetCount{Value: "Lumina", Count: 2}, brands[0])

	tags := engine.TopTags()
	require.NotEmpty(t, tags)
	assert.Equal(t, FacetCount{Value: "indoor", Count: 2}, tags[0])
}

func TestViewReferentialStability(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(testCatalog())

	first := engine.View()
	second := engine.View()
	require.NotEmpty(t, first.Items)
	assert.Equal(t, &first.Items[0], &second.Items[0], "reads between mutations share the cached slice")

	engine.SetFacet(FacetUpdate{Search: strptr("lamp")})
	third := engine.View()
	assert.NotEqual(t, first.TotalMatched, third.TotalMatched)
}
