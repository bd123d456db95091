package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eyad6789/book-store-platfotms-sub000/api/controllers"
	"github.com/eyad6789/book-store-platfotms-sub000/api/middleware"
	"github.com/eyad6789/book-store-platfotms-sub000/internal/catalog"
	"github.com/eyad6789/book-store-platfotms-sub000/internal/notifications"
	"github.com/eyad6789/book-store-platfotms-sub000/internal/orders"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/config"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/logger"
	"github.com/eyad6789/book-store-platfotms-sub000/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Redis         *redis.Client
	HealthPingers map[string]controllers.Pinger
	Catalog       catalog.Service
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
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.HealthPingers))
	})

	r.Handle("/metrics", promhttp.Handler())

	var idempotencyStore redis.IdempotencyStore
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
	}

	customerOnly := middleware.RequireRole(string(enums.ActorRoleCustomer), logg)
	vendorOnly := middleware.RequireRole(string(enums.ActorRoleVendor), logg)
	vendorOrAdmin := middleware.RequireAnyRole(logg, string(enums.ActorRoleVendor), string(enums.ActorRoleAdmin))
	customerOrAdmin := middleware.RequireAnyRole(logg, string(enums.ActorRoleCustomer), string(enums.ActorRoleAdmin))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(customerOnly).Post("/", controllers.PlaceOrder(deps.Orders, logg))
			r.With(customerOnly).Get("/", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
			r.With(vendorOrAdmin).Post("/{orderID}/status", controllers.TransitionOrderStatus(deps.Orders, logg))
			r.With(customerOrAdmin).Post("/{orderID}/cancel", controllers.CancelOrder(deps.Orders, logg))
			r.With(vendorOrAdmin).Patch("/{orderID}/shipment", controllers.UpdateShipment(deps.Orders, logg))
		})

		r.Route("/books", func(r chi.Router) {
			r.With(vendorOnly).Post("/", controllers.CreateBook(deps.Catalog, logg))
			r.Get("/{bookID}", controllers.GetBook(deps.Catalog, logg))
			r.With(vendorOnly).Patch("/{bookID}", controllers.UpdateBook(deps.Catalog, logg))
		})

		r.With(vendorOnly).Get("/vendor/books", controllers.ListVendorBooks(deps.Catalog, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	return r
}
