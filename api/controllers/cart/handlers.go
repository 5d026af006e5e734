package cart

import (
	"net/http"
	"time"

	"github.com/alexim39/marketspase-engine/api/responses"
	"github.com/alexim39/marketspase-engine/api/validators"
	cartsvc "github.com/alexim39/marketspase-engine/internal/cart"
	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
	"github.com/alexim39/marketspase-engine/pkg/logger"
)

func lineKeyFromQuery(r *http.Request) (cartsvc.LineKey, error) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		return cartsvc.LineKey{}, pkgerrors.New(pkgerrors.CodeValidation, "productId query parameter is required")
	}
	return cartsvc.LineKey{
		ProductID: productID,
		VariantID: r.URL.Query().Get("variantId"),
	}, nil
}

// Fetch returns the full cart projection: lines, totals, store groups and the
// active discount/address.
func Fetch(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"items":    svc.Items(),
			"summary":  svc.Summary(),
			"groups":   svc.GroupedByStore(),
			"discount": svc.ActiveDiscount(),
			"address":  svc.ShippingAddress(),
		})
	}
}

// AddItem inserts or merges a line.
func AddItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		var payload cartsvc.Item
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddItem(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, svc.Summary())
	}
}

// SetQuantity replaces a line quantity; zero removes the line.
func SetQuantity(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		var payload struct {
			ProductID string `json:"productId" validate:"required"`
			VariantID string `json:"variantId"`
			Quantity  int    `json:"quantity"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		key := cartsvc.LineKey{ProductID: payload.ProductID, VariantID: payload.VariantID}
		if err := svc.SetQuantity(r.Context(), key, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Summary())
	}
}

// RemoveItem drops the line named by productId/variantId query parameters.
func RemoveItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		key, err := lineKeyFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveItem(r.Context(), key); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Summary())
	}
}

// Clear empties the cart.
func Clear(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		svc.Clear(r.Context())
		responses.WriteSuccess(w, svc.Summary())
	}
}

// ApplyDiscount validates and activates a discount code.
func ApplyDiscount(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		var payload struct {
			Code string `json:"code" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		description, err := svc.ApplyDiscount(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"description": description,
			"summary":     svc.Summary(),
		})
	}
}

// RemoveDiscount clears the active discount.
func RemoveDiscount(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		svc.RemoveDiscount(r.Context())
		responses.WriteSuccess(w, svc.Summary())
	}
}

// SetAddress stores the shipping destination.
func SetAddress(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		var payload cartsvc.Address
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		svc.SetShippingAddress(r.Context(), payload)
		responses.WriteSuccess(w, payload)
	}
}

// Validate returns structured findings without mutating the cart.
func Validate(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		issues, _ := svc.Validate()
		responses.WriteSuccess(w, map[string]any{
			"valid":  len(issues) == 0,
			"issues": issues,
		})
	}
}

// DeliveryEstimate returns the expected delivery date from now.
func DeliveryEstimate(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart engine unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"estimatedDelivery": svc.EstimateDelivery(time.Now()).Format(time.RFC3339),
		})
	}
}
