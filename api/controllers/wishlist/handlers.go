package wishlist

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alexim39/marketspase-engine/api/responses"
	"github.com/alexim39/marketspase-engine/api/validators"
	wishsvc "github.com/alexim39/marketspase-engine/internal/wishlist"
	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
	"github.com/alexim39/marketspase-engine/pkg/logger"
)

// Fetch returns the wishlist items and favorite stores.
func Fetch(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"items":  svc.Items(),
			"stores": svc.FavoriteStores(),
		})
	}
}

// AddItem inserts a product into the wishlist.
func AddItem(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		var payload wishsvc.Item
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Add(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int{"count": len(svc.Items())})
	}
}

// RemoveItem drops a product from the wishlist.
func RemoveItem(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		if err := svc.Remove(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": len(svc.Items())})
	}
}

// Clear empties the wishlist.
func Clear(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		svc.Clear(r.Context())
		responses.WriteSuccess(w, map[string]int{"count": 0})
	}
}

// MoveToCart hands one wishlist entry to the cart engine.
func MoveToCart(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		if err := svc.MoveToCart(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": len(svc.Items())})
	}
}

// MoveMultipleToCart applies MoveToCart per id and reports the moved count.
func MoveMultipleToCart(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		var payload struct {
			ProductIDs []string `json:"productIds" validate:"required,min=1"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		moved := svc.MoveMultipleToCart(r.Context(), payload.ProductIDs)
		responses.WriteSuccess(w, map[string]int{"moved": moved})
	}
}

// RemoveMultiple removes the listed ids and reports the removed count.
func RemoveMultiple(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		var payload struct {
			ProductIDs []string `json:"productIds" validate:"required,min=1"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		removed := svc.RemoveMultiple(r.Context(), payload.ProductIDs)
		responses.WriteSuccess(w, map[string]int{"removed": removed})
	}
}

// UpdatePrice mutates the stored price and raises a price-drop notification
// when it fell.
func UpdatePrice(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		var payload struct {
			Price         float64  `json:"price" validate:"required,gt=0"`
			OriginalPrice *float64 `json:"originalPrice"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID := chi.URLParam(r, "productId")
		if err := svc.UpdateItemPrice(r.Context(), productID, payload.Price, payload.OriginalPrice); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]float64{"price": payload.Price})
	}
}

// Prune removes items marked unavailable and reports the count.
func Prune(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		removed := svc.RemoveUnavailable(r.Context())
		responses.WriteSuccess(w, map[string]int{"removed": removed})
	}
}

// Stats returns the derived statistics and the recently-added slice.
func Stats(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		limit := 5
		if raw := r.URL.Query().Get("recentLimit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "recentLimit must be a non-negative integer"))
				return
			}
			limit = parsed
		}
		responses.WriteSuccess(w, map[string]any{
			"stats":         svc.Stats(),
			"recentlyAdded": svc.RecentlyAdded(limit),
		})
	}
}

// Export streams the single-document wishlist backup.
func Export(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		payload, err := svc.Export()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="wishlist.json"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(payload); err != nil && logg != nil {
			logg.Error(r.Context(), "failed to write export", err)
		}
	}
}

// Import merges a previously exported document and reports how many items
// were added.
func Import(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "failed to read import payload"))
			return
		}
		added, err := svc.Import(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"added": added})
	}
}

// AddFavorite follows a store.
func AddFavorite(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		var payload wishsvc.FavoriteStore
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddFavoriteStore(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]int{"count": len(svc.FavoriteStores())})
	}
}

// RemoveFavorite unfollows a store.
func RemoveFavorite(svc *wishsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist engine unavailable"))
			return
		}
		if err := svc.RemoveFavoriteStore(r.Context(), chi.URLParam(r, "storeId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": len(svc.FavoriteStores())})
	}
}
