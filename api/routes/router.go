package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akashch1512/crystalreadymades.com/api/controllers"
	"github.com/akashch1512/crystalreadymades.com/api/middleware"
	authsvc "github.com/akashch1512/crystalreadymades.com/internal/auth"
	"github.com/akashch1512/crystalreadymades.com/internal/cart"
	"github.com/akashch1512/crystalreadymades.com/internal/catalog"
	"github.com/akashch1512/crystalreadymades.com/internal/notifications"
	"github.com/akashch1512/crystalreadymades.com/internal/orders"
	"github.com/akashch1512/crystalreadymades.com/internal/users"
	"github.com/akashch1512/crystalreadymades.com/internal/wishlist"
	"github.com/akashch1512/crystalreadymades.com/pkg/config"
	"github.com/akashch1512/crystalreadymades.com/pkg/logger"
	"github.com/akashch1512/crystalreadymades.com/pkg/metrics"
	"github.com/akashch1512/crystalreadymades.com/pkg/redis"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config        *config.Config
	Logger        *logger.Logger
	Redis         *redis.Client
	HTTPMetrics   *metrics.HTTPMetrics
	Pingers       map[string]controllers.Pinger
	Auth          authsvc.Service
	Addresses     users.AddressService
	Catalog       catalog.Service
	Cart          cart.Service
	Wishlist      wishlist.Service
	Orders        orders.Service
	Notifications notifications.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginPhoneLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).
				Get("/me", controllers.AuthMe(deps.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.Catalog, logg))
			r.Get("/search", controllers.ProductsSearch(deps.Catalog, logg))
			r.Get("/{productID}", controllers.ProductGet(deps.Catalog, logg))
		})
		r.Get("/categories", controllers.CategoriesList(deps.Catalog, logg))
		r.Get("/brands", controllers.BrandsList(deps.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressesList(deps.Addresses, logg))
				r.Post("/", controllers.AddressCreate(deps.Addresses, logg))
				r.Put("/{addressID}", controllers.AddressUpdate(deps.Addresses, logg))
				r.Delete("/{addressID}", controllers.AddressDelete(deps.Addresses, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{lineID}", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/items/{lineID}", controllers.CartRemoveItem(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Post("/discount", controllers.CartApplyDiscount(deps.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(deps.Wishlist, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.Orders, logg))
				r.Post("/", controllers.OrderPlace(deps.Orders, logg))
				r.Get("/{orderID}", controllers.OrderGet(deps.Orders, logg))
				r.Post("/{orderID}/cancel", controllers.OrderCancel(deps.Orders, logg))
			})

			r.Post("/payments/order", controllers.PaymentOrderCreate(deps.Orders, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationsList(deps.Notifications, logg))
				r.Get("/unread-count", controllers.NotificationsUnreadCount(deps.Notifications, logg))
				r.Patch("/{notificationID}/read", controllers.NotificationMarkRead(deps.Notifications, logg))
				r.Post("/read-all", controllers.NotificationsMarkAllRead(deps.Notifications, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireAdmin(logg))

		r.Get("/orders", controllers.OrdersList(deps.Orders, logg))
		r.Patch("/orders/{orderID}/status", controllers.AdminOrderUpdateStatus(deps.Orders, logg))

		r.Post("/products", controllers.AdminProductCreate(deps.Catalog, logg))
		r.Put("/products/{productID}", controllers.AdminProductUpdate(deps.Catalog, logg))
		r.Delete("/products/{productID}", controllers.AdminProductDelete(deps.Catalog, logg))
	})

	return r
}
