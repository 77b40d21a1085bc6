package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tablerio/tablerio-backend/api/controllers"
	"github.com/tablerio/tablerio-backend/api/middleware"
	"github.com/tablerio/tablerio-backend/internal/catalog"
	"github.com/tablerio/tablerio-backend/internal/pricing"
	"github.com/tablerio/tablerio-backend/internal/quotes"
	"github.com/tablerio/tablerio-backend/pkg/config"
	"github.com/tablerio/tablerio-backend/pkg/db"
	"github.com/tablerio/tablerio-backend/pkg/logger"
	"github.com/tablerio/tablerio-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: quote computation, catalog reads,
// admin mutations, health, and metrics. There is no auth layer; access
// control lives in front of this service.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	pricingService pricing.Service,
	quoteService quotes.Service,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quotes", controllers.QuoteCompute(quoteService, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/options", controllers.CatalogOptions(catalogService, logg))
			r.Get("/extras", controllers.CatalogExtras(catalogService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/pricing-rules", func(r chi.Router) {
				r.Get("/", controllers.AdminPricingRuleList(pricingService, logg))
				r.Post("/", controllers.AdminPricingRuleCreate(pricingService, logg))
				r.Patch("/{ruleId}", controllers.AdminPricingRuleUpdate(pricingService, logg))
				r.Delete("/{ruleId}", controllers.AdminPricingRuleDeactivate(pricingService, logg))
			})
			r.Route("/discount-tiers", func(r chi.Router) {
				r.Post("/", controllers.AdminDiscountTierCreate(pricingService, logg))
				r.Patch("/{tierId}", controllers.AdminDiscountTierUpdate(pricingService, logg))
				r.Delete("/{tierId}", controllers.AdminDiscountTierDeactivate(pricingService, logg))
			})
			r.Route("/extra-items", func(r chi.Router) {
				r.Post("/", controllers.AdminExtraItemCreate(pricingService, logg))
				r.Patch("/{extraId}", controllers.AdminExtraItemUpdate(pricingService, logg))
				r.Delete("/{extraId}", controllers.AdminExtraItemRetire(pricingService, logg))
			})
		})
	})

	return r
}
