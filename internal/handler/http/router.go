package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acs027/eshop-backend/internal/service"
	"github.com/acs027/eshop-backend/pkg/health"
	"github.com/acs027/eshop-backend/pkg/middleware"
)

// RouterConfig carries the dependencies and settings the router needs.
type RouterConfig struct {
	CatalogService *service.CatalogService
	CartService    *service.CartService
	ReviewService  *service.ReviewService
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	GuestUserID    string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("eshop"))
	r.Use(middleware.Tracing("eshop"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(cfg.CatalogService, cfg.Logger)
	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.ReviewService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.ListProducts)

		r.Route("/products/{productId}/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.ListReviews)
			r.With(ContentTypeJSON, RequireUserID).Post("/", reviewHandler.WriteReview)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(OwnerFromHeader(cfg.GuestUserID))

			r.Get("/", cartHandler.ListCart)
			r.Delete("/", cartHandler.RemoveAll)
			r.Get("/consolidated", cartHandler.ConsolidatedCart)

			r.Post("/items", cartHandler.AddEntry)
			r.Delete("/items/{cartId}", cartHandler.RemoveEntry)
			r.Put("/lines/{name}", cartHandler.SetQuantity)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/catalog/sync", catalogHandler.SyncCatalog)
		})
	})

	return r
}
