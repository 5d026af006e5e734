package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexim39/marketspase-engine/api/controllers"
	catalogcontrollers "github.com/alexim39/marketspase-engine/api/controllers/catalog"
	cartcontrollers "github.com/alexim39/marketspase-engine/api/controllers/cart"
	wishlistcontrollers "github.com/alexim39/marketspase-engine/api/controllers/wishlist"
	"github.com/alexim39/marketspase-engine/api/middleware"
	"github.com/alexim39/marketspase-engine/internal/cart"
	"github.com/alexim39/marketspase-engine/internal/catalog"
	"github.com/alexim39/marketspase-engine/internal/wishlist"
	"github.com/alexim39/marketspase-engine/pkg/config"
	"github.com/alexim39/marketspase-engine/pkg/logger"
	"github.com/alexim39/marketspase-engine/pkg/storage"
)

// NewRouter wires the engines behind the dashboard API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store storage.Store,
	catalogEngine *catalog.Engine,
	cartService *cart.Service,
	wishlistService *wishlist.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/view", catalogcontrollers.View(catalogEngine, logg))
		r.Get("/facets", catalogcontrollers.GetFacets(catalogEngine, logg))
		r.Patch("/facets", catalogcontrollers.UpdateFacets(catalogEngine, logg))
		r.Put("/products", catalogcontrollers.ReplaceCatalog(catalogEngine, logg))
		r.Get("/aggregates", catalogcontrollers.Aggregates(catalogEngine, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", cartcontrollers.Fetch(cartService, logg))
		r.Delete("/", cartcontrollers.Clear(cartService, logg))
		r.Post("/items", cartcontrollers.AddItem(cartService, logg))
		r.Put("/items/quantity", cartcontrollers.SetQuantity(cartService, logg))
		r.Delete("/items", cartcontrollers.RemoveItem(cartService, logg))
		r.Post("/discount", cartcontrollers.ApplyDiscount(cartService, logg))
		r.Delete("/discount", cartcontrollers.RemoveDiscount(cartService, logg))
		r.Put("/address", cartcontrollers.SetAddress(cartService, logg))
		r.Get("/validate", cartcontrollers.Validate(cartService, logg))
		r.Get("/delivery-estimate", cartcontrollers.DeliveryEstimate(cartService, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Get("/", wishlistcontrollers.Fetch(wishlistService, logg))
		r.Delete("/", wishlistcontrollers.Clear(wishlistService, logg))
		r.Post("/items", wishlistcontrollers.AddItem(wishlistService, logg))
		r.Delete("/items/{productId}", wishlistcontrollers.RemoveItem(wishlistService, logg))
		r.Post("/items/{productId}/move-to-cart", wishlistcontrollers.MoveToCart(wishlistService, logg))
		r.Put("/items/{productId}/price", wishlistcontrollers.UpdatePrice(wishlistService, logg))
		r.Post("/move-to-cart", wishlistcontrollers.MoveMultipleToCart(wishlistService, logg))
		r.Post("/remove", wishlistcontrollers.RemoveMultiple(wishlistService, logg))
		r.Post("/prune", wishlistcontrollers.Prune(wishlistService, logg))
		r.Get("/stats", wishlistcontrollers.Stats(wishlistService, logg))
		r.Get("/export", wishlistcontrollers.Export(wishlistService, logg))
		r.Post("/import", wishlistcontrollers.Import(wishlistService, logg))
	})

	r.Route("/api/v1/favorites", func(r chi.Router) {
		r.Post("/", wishlistcontrollers.AddFavorite(wishlistService, logg))
		r.Delete("/{storeId}", wishlistcontrollers.RemoveFavorite(wishlistService, logg))
	})

	return r
}
