package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/media2net-app/bloemenvandegier-sub001/api/controllers"
	"github.com/media2net-app/bloemenvandegier-sub001/api/middleware"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	authsvc "github.com/media2net-app/bloemenvandegier-sub001/internal/auth"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/cart"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/catalog"
	checkoutsvc "github.com/media2net-app/bloemenvandegier-sub001/internal/checkout"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/deliveries"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/leads"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/orders"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/reports"
	subscriptionsvc "github.com/media2net-app/bloemenvandegier-sub001/internal/subscriptions"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/tasks"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/users"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/places"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          authsvc.Service
	Users         users.Service
	Catalog       catalog.Service
	Cart          cart.Service
	Checkout      checkoutsvc.Service
	Orders        orders.Service
	Deliveries    deliveries.Service
	Leads         leads.Service
	Tasks         tasks.Service
	Subscriptions subscriptionsvc.Service
	Reports       reports.Service
	Activity      activity.Service
	Places        *places.Client
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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

	requireAdmin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))

		// Public surface.
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/auth/login", controllers.Login(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/auth/register", controllers.Register(svcs.Users, logg))
		r.Post("/auth/refresh", controllers.RefreshSession(svcs.Auth, logg))

		r.Get("/products", controllers.ListProducts(svcs.Catalog, logg))
		r.Get("/products/{slug}", controllers.GetProductBySlug(svcs.Catalog, logg))
		r.Get("/variants", controllers.ListProductVariants(svcs.Catalog, logg))
		r.Get("/addons", controllers.ListAddons(svcs.Catalog, logg))
		r.Post("/quotes", controllers.QuoteUnitPrice(svcs.Catalog, logg))

		r.Post("/leads", controllers.CreateLead(svcs.Leads, logg))

		r.Get("/places", controllers.AutocompleteAddress(svcs.Places, logg))
		r.Get("/places/{placeID}", controllers.ResolvePlace(svcs.Places, logg))

		// Authenticated customers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Post("/auth/logout", controllers.Logout(svcs.Auth, logg))
			r.Get("/auth/me", controllers.Me(svcs.Users, logg))
			r.Post("/auth/password", controllers.ChangePassword(svcs.Users, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(svcs.Cart, logg))
				r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
				r.Patch("/items/{itemID}", controllers.UpdateCartItemQuantity(svcs.Cart, logg))
				r.Delete("/items/{itemID}", controllers.RemoveCartItem(svcs.Cart, logg))
				r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

			r.Get("/orders", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/orders/{id}", controllers.GetMyOrder(svcs.Orders, logg))

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/", controllers.CreateSubscription(svcs.Subscriptions, logg))
				r.Get("/{id}", controllers.GetSubscription(svcs.Subscriptions, logg))
				r.With(requireAdmin).Get("/", controllers.ListSubscriptions(svcs.Subscriptions, logg))
				r.With(requireAdmin).Patch("/{id}/status", controllers.UpdateSubscriptionStatus(svcs.Subscriptions, logg))
				r.With(requireAdmin).Post("/{id}/renew", controllers.RenewSubscription(svcs.Subscriptions, logg))
			})
		})

		// Back office.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(requireAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
				r.Patch("/{id}", controllers.UpdateProduct(svcs.Catalog, logg))
				r.Delete("/{id}", controllers.DeleteProduct(svcs.Catalog, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(svcs.Orders, logg))
				r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
				r.Patch("/{id}/status", controllers.UpdateOrderStatus(svcs.Orders, logg))
			})

			r.Route("/deliveries", func(r chi.Router) {
				r.Get("/", controllers.ListDeliveries(svcs.Deliveries, logg))
				r.Get("/{id}", controllers.GetDelivery(svcs.Deliveries, logg))
				r.Patch("/{id}/status", controllers.UpdateDeliveryStatus(svcs.Deliveries, logg))
				r.Post("/{id}/reschedule", controllers.RescheduleDelivery(svcs.Deliveries, logg))
			})

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", controllers.ListLeads(svcs.Leads, logg))
				r.Get("/{id}", controllers.GetLead(svcs.Leads, logg))
				r.Patch("/{id}", controllers.UpdateLead(svcs.Leads, logg))
				r.Patch("/{id}/status", controllers.UpdateLeadStatus(svcs.Leads, logg))
				r.Delete("/{id}", controllers.DeleteLead(svcs.Leads, logg))
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", controllers.CreateTask(svcs.Tasks, logg))
				r.Get("/", controllers.ListTasks(svcs.Tasks, logg))
				r.Get("/{id}", controllers.GetTask(svcs.Tasks, logg))
				r.Patch("/{id}", controllers.UpdateTask(svcs.Tasks, logg))
				r.Patch("/{id}/status", controllers.UpdateTaskStatus(svcs.Tasks, logg))
				r.Delete("/{id}", controllers.DeleteTask(svcs.Tasks, logg))
			})

			r.Get("/reports/revenue", controllers.RevenueReport(svcs.Reports, logg))
			r.Get("/exports/orders", controllers.ExportOrders(svcs.Reports, logg))
			r.Get("/exports/leads", controllers.ExportLeads(svcs.Reports, logg))

			r.Get("/activity", controllers.ListActivity(svcs.Activity, logg))
		})
	})

	// Compatibility alias kept for the old shop's reporting consumer.
	r.With(
		middleware.Auth(cfg.JWT, logg),
		requireAdmin,
	).Get("/api/omzet-oude-shop", controllers.RevenueReport(svcs.Reports, logg))

	return r
}
