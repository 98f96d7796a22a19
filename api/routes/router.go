package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/materialhub-backend/api/controllers"
	"github.com/angelmondragon/materialhub-backend/api/middleware"
	"github.com/angelmondragon/materialhub-backend/pkg/config"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
	"github.com/angelmondragon/materialhub-backend/pkg/metrics"
	"github.com/angelmondragon/materialhub-backend/pkg/redis"
)

// SessionService is everything the operator routes need from the session
// controller.
type SessionService interface {
	controllers.CatalogService
	controllers.CartService
	controllers.CheckoutService
}

// Dependencies carries the collaborators the router wires into handlers.
type Dependencies struct {
	Session     SessionService
	Idempotency redis.IdempotencyStore
	Ready       map[string]controllers.Pinger
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		r.Get("/catalog", controllers.CatalogList(deps.Session, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Session, logg))
			r.Post("/lines", controllers.CartAddLine(deps.Session, logg))
			r.Patch("/lines/{lineId}", controllers.CartUpdateLine(deps.Session, logg))
			r.Delete("/lines/{lineId}", controllers.CartRemoveLine(deps.Session, logg))
			r.Put("/payment-status", controllers.CartSetPaymentStatus(deps.Session, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/line", controllers.CheckoutLine(deps.Session, logg))
			r.Post("/vendor", controllers.CheckoutVendor(deps.Session, logg))
		})
	})

	return r
}
