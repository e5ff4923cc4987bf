package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mhasan0505/sanslibyzebin/internal/cart"
	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/internal/wishlist"
	"github.com/mhasan0505/sanslibyzebin/pkg/health"
	"github.com/mhasan0505/sanslibyzebin/pkg/middleware"
)

// RouterConfig carries the HTTP-level settings of the router.
type RouterConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	CatalogMaxAge  time.Duration
	PprofCIDRs     []string
	CORS           middleware.CORSConfig
	Session        middleware.SessionConfig
}

// Dependencies are the services the handlers read and mutate.
type Dependencies struct {
	Catalog   *catalog.Catalog
	Carts     *cart.Provider
	Wishlists *wishlist.Provider
	Health    *health.Handler
	Logger    *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig, deps Dependencies) http.Handler {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "storefront"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	logger := deps.Logger

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Session(cfg.Session))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(deps.Catalog, logger)
	cartHandler := NewCartHandler(deps.Catalog, logger)
	wishlistHandler := NewWishlistHandler(deps.Catalog, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalog reads are the same for every shopper.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(int(cfg.CatalogMaxAge.Seconds())))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/featured", catalogHandler.Featured)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.Categories)
			r.Get("/collections/{slug}", catalogHandler.Collection)
			r.Get("/search", catalogHandler.Search)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(cart.Middleware(deps.Carts))

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(wishlist.Middleware(deps.Wishlists))

			r.Get("/", wishlistHandler.List)
			r.Delete("/", wishlistHandler.Clear)
			r.Get("/{productId}", wishlistHandler.Contains)
			r.Post("/{productId}", wishlistHandler.Add)
			r.Delete("/{productId}", wishlistHandler.Remove)
			r.Post("/{productId}/toggle", wishlistHandler.Toggle)
		})

		r.With(middleware.NoStore).Post("/newsletter", Subscribe)
	})

	return r
}
