package catalog

import (
	"net/http"

	"github.com/alexim39/marketspase-engine/api/responses"
	"github.com/alexim39/marketspase-engine/api/validators"
	catalogeng "github.com/alexim39/marketspase-engine/internal/catalog"
	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
	"github.com/alexim39/marketspase-engine/pkg/logger"
)

// View returns the ordered, paginated product view for the active selection.
func View(engine *catalogeng.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog engine unavailable"))
			return
		}
		responses.WriteSuccess(w, engine.View())
	}
}

// GetFacets returns the active facet selection.
func GetFacets(engine *catalogeng.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog engine unavailable"))
			return
		}
		responses.WriteSuccess(w, engine.Selection())
	}
}

// UpdateFacets merges a partial facet update and returns the refreshed view.
func UpdateFacets(engine *catalogeng.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog engine unavailable"))
			return
		}
		var payload catalogeng.FacetUpdate
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		engine.SetFacet(payload)
		responses.WriteSuccess(w, engine.View())
	}
}

// ReplaceCatalog swaps the product collection.
func ReplaceCatalog(engine *catalogeng.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog engine unavailable"))
			return
		}
		var payload struct {
			Products []catalogeng.Product `json:"products" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		engine.SetCatalog(payload.Products)
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]int{"count": len(payload.Products)})
	}
}

// Aggregates returns category/brand/tag counts over the unfiltered catalog.
func Aggregates(engine *catalogeng.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog engine unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"categories": engine.Categories(),
			"brands":     engine.Brands(),
			"topTags":    engine.TopTags(),
		})
	}
}
