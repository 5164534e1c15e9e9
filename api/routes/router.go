package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshkart/freshkart-backend/api/controllers"
	"github.com/freshkart/freshkart-backend/api/middleware"
	internalauth "github.com/freshkart/freshkart-backend/internal/auth"
	"github.com/freshkart/freshkart-backend/internal/cart"
	"github.com/freshkart/freshkart-backend/internal/catalog"
	"github.com/freshkart/freshkart-backend/internal/notifications"
	"github.com/freshkart/freshkart-backend/internal/orders"
	"github.com/freshkart/freshkart-backend/internal/shops"
	"github.com/freshkart/freshkart-backend/internal/zones"
	"github.com/freshkart/freshkart-backend/pkg/auth/session"
	"github.com/freshkart/freshkart-backend/pkg/config"
	"github.com/freshkart/freshkart-backend/pkg/db"
	"github.com/freshkart/freshkart-backend/pkg/enums"
	"github.com/freshkart/freshkart-backend/pkg/logger"
	"github.com/freshkart/freshkart-backend/pkg/metrics"
	pkgredis "github.com/freshkart/freshkart-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DBPinger      db.Pinger
	RedisClient   *pkgredis.Client
	Sessions      session.AccessSessionChecker
	HTTPMetrics   *metrics.HTTPMetrics
	Auth          internalauth.Service
	Catalog       catalog.Service
	Cart          cart.Service
	Zones         zones.Service
	Shops         shops.Service
	Orders        orders.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
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
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisClient))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).
				With(middleware.Idempotency(deps.RedisClient, logg)).
				Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).
				Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		})

		// public catalog and zone surface
		r.Get("/products", controllers.ProductList(deps.Catalog, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(deps.Catalog, logg))
		r.Get("/categories", controllers.CategoryList(deps.Catalog, logg))
		r.Get("/shops", controllers.ShopList(deps.Shops, logg))
		r.Get("/delivery-zones", controllers.ZoneList(deps.Zones, logg))
		r.Post("/check-delivery-zone", controllers.ZoneCheck(deps.Zones, logg))

		// order tracking and creation admit guests
		r.Get("/orders/track/{orderId}", controllers.TrackOrder(deps.Orders, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(deps.RedisClient, logg))
			r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Post("/orders/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartList(deps.Cart, logg))
				r.Post("/", controllers.CartAdd(deps.Cart, logg))
				r.Post("/clear", controllers.CartClear(deps.Cart, logg))
				r.Delete("/{productId}", controllers.CartRemove(deps.Cart, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
				r.Put("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Use(middleware.Idempotency(deps.RedisClient, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
					r.Put("/{orderId}", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
					r.Put("/{orderId}/assign", controllers.AdminAssignOrder(deps.Orders, logg))
					r.Put("/{orderId}/cancel", controllers.AdminCancelOrder(deps.Orders, logg))
				})
				r.Post("/products", controllers.AdminCreateProduct(deps.Catalog, logg))
				r.Put("/products/{productId}", controllers.AdminUpdateProduct(deps.Catalog, logg))
				r.Put("/inventory", controllers.AdminSetShopInventory(deps.Catalog, logg))
				r.Route("/shops", func(r chi.Router) {
					r.Get("/", controllers.AdminListShops(deps.Shops, logg))
					r.Get("/{shopId}", controllers.AdminShopDetail(deps.Shops, logg))
					r.Post("/", controllers.AdminCreateShop(deps.Shops, logg))
				})
				r.Route("/zones", func(r chi.Router) {
					r.Get("/", controllers.ZoneList(deps.Zones, logg))
					r.Post("/", controllers.AdminCreateZone(deps.Zones, logg))
					r.Put("/{zoneId}", controllers.AdminUpdateZone(deps.Zones, logg))
					r.Delete("/{zoneId}", controllers.AdminDeleteZone(deps.Zones, logg))
				})
			})

			r.Route("/delivery/orders", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleDeliveryPerson, logg))
				r.Use(middleware.Idempotency(deps.RedisClient, logg))

				r.Get("/", controllers.DeliveryListOrders(deps.Orders, logg))
				r.Put("/{orderId}/accept", controllers.DeliveryAcceptOrder(deps.Orders, logg))
				r.Put("/{orderId}/reject", controllers.DeliveryRejectOrder(deps.Orders, logg))
				r.Put("/{orderId}/out-for-delivery", controllers.DeliveryOutForDelivery(deps.Orders, logg))
				r.Put("/{orderId}/reached", controllers.DeliveryMarkReached(deps.Orders, logg))
				r.Put("/{orderId}/collect-cash", controllers.DeliveryCollectCash(deps.Orders, logg))
				r.Put("/{orderId}/deliver", controllers.DeliveryMarkDelivered(deps.Orders, logg))
			})
		})
	})

	return r
}
