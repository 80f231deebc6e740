package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshboxhq/freshbox-backend/api/controllers"
	"github.com/freshboxhq/freshbox-backend/api/middleware"
	adminsvc "github.com/freshboxhq/freshbox-backend/internal/admin"
	batchsvc "github.com/freshboxhq/freshbox-backend/internal/batches"
	catalogsvc "github.com/freshboxhq/freshbox-backend/internal/catalog"
	couponsvc "github.com/freshboxhq/freshbox-backend/internal/coupons"
	ordersvc "github.com/freshboxhq/freshbox-backend/internal/orders"
	paymentsvc "github.com/freshboxhq/freshbox-backend/internal/payments"
	settingsvc "github.com/freshboxhq/freshbox-backend/internal/settings"
	"github.com/freshboxhq/freshbox-backend/pkg/config"
	"github.com/freshboxhq/freshbox-backend/pkg/db"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
	"github.com/freshboxhq/freshbox-backend/pkg/metrics"
	"github.com/freshboxhq/freshbox-backend/pkg/ratelimit"
	"github.com/freshboxhq/freshbox-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Limiter  ratelimit.Limiter
	Registry *prometheus.Registry

	HTTPMetrics *metrics.HTTPMetrics

	Orders   ordersvc.Service
	Payments paymentsvc.Service
	Coupons  couponsvc.Service
	Catalog  catalogsvc.Service
	Settings settingsvc.Service
	Batches  batchsvc.Service
	Admin    adminsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	orderPolicy := middleware.NewRateLimitPolicy("order_create", cfg.RateLimit.OrderWindow, cfg.RateLimit.OrderLimit)
	lookupPolicy := middleware.NewRateLimitPolicy("order_lookup", cfg.RateLimit.LookupWindow, cfg.RateLimit.LookupLimit)

	var dbPinger, cachePinger controllers.Pinger
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	if deps.Redis != nil {
		cachePinger = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, cachePinger, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(orderPolicy, deps.Limiter, logg)).
			Post("/orders", controllers.CreateOrder(deps.Orders, logg))
		r.With(middleware.RateLimit(lookupPolicy, deps.Limiter, logg)).
			Get("/orders", controllers.LookupOrders(deps.Orders, logg))
		r.Get("/orders/{id}", controllers.OrderDetail(deps.Orders, logg))

		r.Post("/coupons/verify", controllers.VerifyCoupon(deps.Coupons, logg))
		r.Get("/packages", controllers.ListPackages(deps.Catalog, logg))
		r.Get("/fruits", controllers.ListFruits(deps.Catalog, logg))
		r.Get("/settings", controllers.GetSettings(deps.Settings, logg))
		r.Get("/delivery-batches", controllers.TodayBatch(deps.Batches, logg))

		r.Post("/payments/order", controllers.CreatePaymentIntent(deps.Payments, logg))
		r.Post("/payments/verify", controllers.VerifyPayment(deps.Payments, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(cfg, deps.Admin, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.Admin, deps.Admin, logg))
			r.Get("/auth/verify", controllers.AdminVerify())
			r.Post("/auth/logout", controllers.AdminLogout(cfg, deps.Admin, logg))
			r.Get("/orders", controllers.AdminListOrders(deps.Orders, logg))
			r.Patch("/orders/{id}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
		})
	})

	return r
}
