package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/animequeens/storefront/internal/cart"
	"github.com/animequeens/storefront/internal/catalog"
	"github.com/animequeens/storefront/pkg/health"
	"github.com/animequeens/storefront/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	hub *cart.Hub,
	cat *catalog.Catalog,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.CORS)

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(hub, cat, logger)
	catalogHandler := NewCatalogHandler(cat, logger)
	checkoutHandler := NewCheckoutHandler(hub, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{productID}", catalogHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(Session)
			r.Use(ContentTypeJSON)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Get("/summary", cartHandler.GetSummary)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productID}", cartHandler.UpdateQuantity)
				r.Delete("/items/{productID}", cartHandler.RemoveItem)
			})

			r.Post("/checkout/confirm", checkoutHandler.Confirm)
		})
	})

	return r
}
