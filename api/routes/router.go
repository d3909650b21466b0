package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/procifarmed/storefront-api/api/controllers"
	"github.com/procifarmed/storefront-api/api/middleware"
	"github.com/procifarmed/storefront-api/internal/address"
	"github.com/procifarmed/storefront-api/internal/auth"
	"github.com/procifarmed/storefront-api/internal/cart"
	"github.com/procifarmed/storefront-api/internal/catalog"
	"github.com/procifarmed/storefront-api/internal/checkout"
	"github.com/procifarmed/storefront-api/internal/orders"
	"github.com/procifarmed/storefront-api/internal/profiles"
	"github.com/procifarmed/storefront-api/pkg/auth/session"
	"github.com/procifarmed/storefront-api/pkg/config"
	"github.com/procifarmed/storefront-api/pkg/logger"
	"github.com/procifarmed/storefront-api/pkg/metrics"
	"github.com/procifarmed/storefront-api/pkg/redis"
)

// KeyValueStore is the redis surface used by the rate limiter and the
// checkout idempotency middleware.
type KeyValueStore interface {
	redis.IdempotencyStore
	middleware.WindowLimiter
}

// Dependencies is everything the API surface needs, built once in cmd/api.
type Dependencies struct {
	DB             controllers.Pinger
	Redis          controllers.Pinger
	Store          KeyValueStore
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth      auth.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Profiles  profiles.Service
	Addresses address.Service
	Checkout  checkout.Service
	Orders    orders.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	limits := cfg.AuthRateLimit
	loginPolicy := middleware.AuthRateLimitPolicy{Name: "login", Window: limits.LoginWindow, IPLimit: limits.LoginIPLimit, EmailLimit: limits.LoginEmailLimit}
	signupPolicy := middleware.AuthRateLimitPolicy{Name: "signup", Window: limits.SignupWindow, IPLimit: limits.SignupIPLimit, EmailLimit: limits.SignupEmailLimit}
	refreshPolicy := middleware.AuthRateLimitPolicy{Name: "refresh", Window: limits.LoginWindow, IPLimit: limits.LoginIPLimit}

	authenticate := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	requireSession := middleware.RequireSession(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(signupPolicy, deps.Store, logg)).Post("/signup", controllers.AuthSignup(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Store, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(refreshPolicy, deps.Store, logg)).Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.With(requireSession).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
				r.Get("/session", controllers.AuthSession(deps.Auth, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/products", controllers.CatalogList(deps.Catalog, logg))
				r.Get("/products/{productId}", controllers.CatalogProduct(deps.Catalog, logg))
				r.Get("/facets", controllers.CatalogFacets(deps.Catalog))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Use(middleware.CartToken())
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Put("/items/{productId}", controllers.CartSetQuantity(deps.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(requireSession)

				r.Get("/profile", controllers.ProfileGet(deps.Profiles, logg))
				r.Put("/profile", controllers.ProfileUpdate(deps.Profiles, logg))

				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", controllers.AddressList(deps.Addresses, logg))
					r.Post("/", controllers.AddressCreate(deps.Addresses, logg))
					r.Post("/{addressId}/default", controllers.AddressSetDefault(deps.Addresses, logg))
					r.Delete("/{addressId}", controllers.AddressDelete(deps.Addresses, logg))
				})

				r.With(
					middleware.CartToken(),
					middleware.Idempotency(deps.Store, cfg.Checkout.IdempotencyTTL, logg),
				).Post("/checkout", controllers.Checkout(deps.Checkout, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.OrdersList(deps.Orders, logg))
					r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
					r.Get("/{orderId}/receipt.pdf", controllers.OrderReceipt(deps.Orders, logg))
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(deps.Auth, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminProductsList(deps.Catalog, logg))
					r.Post("/", controllers.AdminProductCreate(deps.Catalog, logg))
					r.Put("/{productId}", controllers.AdminProductUpdate(deps.Catalog, logg))
					r.Patch("/{productId}/active", controllers.AdminProductSetActive(deps.Catalog, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminOrdersList(deps.Orders, logg))
					r.Get("/statuses", controllers.AdminOrderStatusOptions())
					r.Get("/export.xlsx", controllers.AdminOrdersExport(deps.Orders, logg))
					r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.Orders, logg))
					r.Patch("/{orderId}/payment-status", controllers.AdminOrderUpdatePaymentStatus(deps.Orders, logg))
				})
			})
		})
	})

	return r
}
