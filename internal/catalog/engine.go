package catalog

import (
	"github.com/alexim39/marketspase-engine/pkg/derive"
	"github.com/alexim39/marketspase-engine/pkg/metrics"
)

// EngineParams groups dependencies for the filter/sort engine.
type EngineParams struct {
	Metrics *metrics.EngineMetrics
}

// Engine owns the facet selection and derives ordered, paginated views from
// the current catalog. All mutations flow through SetCatalog/SetFacet; reads
// are memoized until the next mutation.
type Engine struct {
	catalog   []Product
	selection FacetSelection

	catalogSrc *derive.Source
	facetSrc   *derive.Source

	view       *derive.Cell[View]
	categories *derive.Cell[[]FacetCount]
	brands     *derive.Cell[[]FacetCount]
	topTags    *derive.Cell[[]FacetCount]

	metrics *metrics.EngineMetrics
}

// NewEngine builds an engine with an empty catalog and default selection.
func NewEngine(params EngineParams) *Engine {
	e := &Engine{
		selection:  defaultSelection(),
		catalogSrc: derive.NewSource(),
		facetSrc:   derive.NewSource(),
		metrics:    params.Metrics,
	}
	e.view = derive.NewCell(func() View {
		e.metrics.IncRecompute("catalog_view")
		return DeriveView(e.catalog, e.selection)
	}, e.catalogSrc, e.facetSrc)
	e.categories = derive.NewCell(func() []FacetCount {
		e.metrics.IncRecompute("catalog_categories")
		return countCategories(e.catalog)
	}, e.catalogSrc)
	e.brands = derive.NewCell(func() []FacetCount {
		e.metrics.IncRecompute("catalog_brands")
		return countBrands(e.catalog)
	}, e.catalogSrc)
	e.topTags = derive.NewCell(func() []FacetCount {
		e.metrics.IncRecompute("catalog_tags")
		return countTopTags(e.catalog)
	}, e.catalogSrc)
	return e
}

// SetCatalog replaces the product collection and clamps the selection's price
// range to the new catalog's span.
func (e *Engine) SetCatalog(products []Product) {
	e.catalog = append([]Product(nil), products...)
	if len(e.catalog) > 0 {
		min, max := e.catalog[0].Price, e.catalog[0].Price
		for _, p := range e.catalog[1:] {
			if p.Price < min {
				min = p.Price
			}
			if p.Price > max {
				max = p.Price
			}
		}
		e.selection.clampPriceRange(min, max)
	}
	e.catalogSrc.Bump()
	e.facetSrc.Bump()
	e.metrics.IncMutation("catalog", "set_catalog")
}

// SetFacet merges a partial update into the selection. Any facet change other
// than page navigation resets the page index to 0.
func (e *Engine) SetFacet(update FacetUpdate) {
	e.selection.apply(update)
	e.facetSrc.Bump()
	e.metrics.IncMutation("catalog", "set_facet")
}

// Selection returns a copy of the active facet selection.
func (e *Engine) Selection() FacetSelection {
	selection := e.selection
	selection.Tags = append([]string(nil), e.selection.Tags...)
	selection.Brands = append([]string(nil), e.selection.Brands...)
	return selection
}

// View returns the memoized derived view for the current catalog and selection.
func (e *Engine) View() View {
	return e.view.Get()
}

// Categories returns category counts over the unfiltered catalog.
func (e *Engine) Categories() []FacetCount {
	return e.categories.Get()
}

// Brands returns brand counts over the unfiltered catalog.
func (e *Engine) Brands() []FacetCount {
	return e.brands.Get()
}

// TopTags returns the most frequent catalog tags, capped at TopTagLimit.
func (e *Engine) TopTags() []FacetCount {
	return e.topTags.Get()
}
