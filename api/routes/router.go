package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kantinapp/kantin-gateway/api/controllers"
	"github.com/kantinapp/kantin-gateway/api/middleware"
	"github.com/kantinapp/kantin-gateway/internal/auth"
	"github.com/kantinapp/kantin-gateway/internal/cart"
	checkoutsvc "github.com/kantinapp/kantin-gateway/internal/checkout"
	"github.com/kantinapp/kantin-gateway/internal/menu"
	orderssvc "github.com/kantinapp/kantin-gateway/internal/orders"
	reportssvc "github.com/kantinapp/kantin-gateway/internal/reports"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/config"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
	"github.com/kantinapp/kantin-gateway/pkg/metrics"
	"github.com/kantinapp/kantin-gateway/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Sessions    *auth.Manager
	Catalog     *menu.Fetcher
	Carts       *cart.Manager
	Checkout    *checkoutsvc.Service
	Orders      *orderssvc.Service
	Reports     *reportssvc.Service
	Upstream    *upstream.Client
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		if deps.Redis != nil {
			r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Redis))
		} else {
			r.Get("/ready", controllers.HealthReady(cfg, logg, nil))
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRate.LoginWindow,
		cfg.AuthRate.LoginIPLimit,
		cfg.AuthRate.LoginUsernameLimit,
	)

	r.Route("/api/v1/auth", func(r chi.Router) {
		login := r.With()
		if deps.Redis != nil {
			login = r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg))
		}
		login.Post("/login", controllers.AuthLogin(deps.Sessions, logg))
		r.Post("/register", controllers.AuthRegister(deps.Sessions, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Sessions, logg))

		r.Get("/session", controllers.AuthSession(logg))
		r.Get("/menus", controllers.MenuList(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Carts, logg))
			r.Post("/", controllers.CartAdd(deps.Carts, deps.Catalog, logg))
			r.Post("/{menuId}/increment", controllers.CartIncrement(deps.Carts, logg))
			r.Post("/{menuId}/decrement", controllers.CartDecrement(deps.Carts, logg))
			r.Delete("/{menuId}", controllers.CartRemove(deps.Carts, logg))
			r.Post("/reset", controllers.CartReset(deps.Carts, logg))
			r.Post("/open", controllers.CartOpen(deps.Carts, logg))
			r.Post("/close", controllers.CartClose(deps.Carts, logg))
		})

		checkout := r.With()
		if deps.Redis != nil {
			checkout = r.With(middleware.CheckoutIdempotency(deps.Redis, logg))
		}
		checkout.Post("/checkout", controllers.Checkout(deps.Checkout, deps.Carts, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/buckets", controllers.OrderBuckets())
			r.Get("/status/{bucket}", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}/receipt", controllers.OrderReceipt(deps.Upstream, logg))
			r.With(middleware.RequireRole(upstream.RoleStand, logg)).
				Put("/{orderId}/status", controllers.OrderStatusUpdate(deps.Upstream, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.With(middleware.RequireRole(upstream.RoleStand, logg)).
				Get("/monthly", controllers.MonthlyRecap(deps.Reports, logg))
			r.With(middleware.RequireRole(upstream.RoleStudent, logg)).
				Get("/monthly/me", controllers.StudentMonthlyRecap(deps.Reports, logg))
		})

		r.Route("/stand", func(r chi.Router) {
			r.Use(middleware.RequireRole(upstream.RoleStand, logg))
			r.Post("/menus", controllers.MenuCreate(deps.Upstream, logg))
			r.Put("/menus/{menuId}", controllers.MenuUpdate(deps.Upstream, logg))
			r.Delete("/menus/{menuId}", controllers.MenuDelete(deps.Upstream, logg))
			r.Route("/students", func(r chi.Router) {
				r.Get("/", controllers.StudentList(deps.Upstream, logg))
				r.Post("/", controllers.StudentCreate(deps.Upstream, logg))
				r.Delete("/{studentId}", controllers.StudentDelete(deps.Upstream, logg))
			})
		})
	})

	return r
}
