package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Owusua22/Franko-MobileApp-sub001/api/controllers"
	"github.com/Owusua22/Franko-MobileApp-sub001/api/middleware"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/config"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    controllers.Pinger
	Checkout controllers.CheckoutService
	Orders   controllers.OrderReader
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Store))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSubmit(deps.Checkout, deps.Logger))
			r.Post("/resume", controllers.CheckoutResume(deps.Checkout, deps.Logger))
			r.Get("/status", controllers.CheckoutStatus(deps.Checkout, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderHistory(deps.Orders, deps.Logger))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, deps.Logger))
			r.Get("/{orderId}/delivery-address", controllers.OrderDeliveryAddress(deps.Orders, deps.Logger))
		})
	})

	return r
}
