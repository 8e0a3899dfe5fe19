package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sofiaibarra/blendery-backend/api/controllers"
	"github.com/sofiaibarra/blendery-backend/api/middleware"
	"github.com/sofiaibarra/blendery-backend/internal/auth"
	"github.com/sofiaibarra/blendery-backend/internal/catalog"
	"github.com/sofiaibarra/blendery-backend/internal/mixes"
	"github.com/sofiaibarra/blendery-backend/internal/notifications"
	"github.com/sofiaibarra/blendery-backend/internal/orders"
	"github.com/sofiaibarra/blendery-backend/internal/points"
	products "github.com/sofiaibarra/blendery-backend/internal/products"
	"github.com/sofiaibarra/blendery-backend/pkg/auth/session"
	"github.com/sofiaibarra/blendery-backend/pkg/config"
	"github.com/sofiaibarra/blendery-backend/pkg/db"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
	"github.com/sofiaibarra/blendery-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService catalog.Service,
	mixesService mixes.Service,
	pointsService points.Service,
	ordersService orders.Service,
	productsService products.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var cache db.Pinger
	if redisClient != nil {
		cache = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cache))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/register", controllers.AuthRegister(registerService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/catalog", func(r chi.Router) {
			r.Get("/ingredients", controllers.CatalogIngredients(catalogService, logg))
			r.Get("/packagings", controllers.CatalogPackagings(catalogService, logg))
		})

		r.Route("/v1/mixes", func(r chi.Router) {
			r.Post("/", controllers.MixCreate(mixesService, logg))
			r.Get("/", controllers.MixListMine(mixesService, logg))
			r.Get("/published", controllers.MixListPublished(mixesService, logg))
			r.Route("/{mixId}", func(r chi.Router) {
				r.Get("/", controllers.MixDetail(mixesService, logg))
				r.Patch("/", controllers.MixUpdate(mixesService, logg))
				r.Delete("/", controllers.MixDelete(mixesService, logg))
				r.Get("/quote", controllers.MixQuote(mixesService, logg))
				r.Put("/items/{ingredientId}", controllers.MixSetItemWeight(mixesService, logg))
				r.Post("/publish", controllers.MixPublish(mixesService, logg))
				r.Post("/like", controllers.MixLike(mixesService, logg))
				r.Post("/unlike", controllers.MixUnlike(mixesService, logg))
			})
		})

		r.Route("/v1/points", func(r chi.Router) {
			r.Get("/balance", controllers.PointsBalance(pointsService, logg))
			r.Get("/history", controllers.PointsHistory(pointsService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPurchase(ordersService, logg))
			r.Get("/", controllers.OrderListMine(ordersService, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.OrderDetail(ordersService, logg))
				// Completion is an operator action: it mints the buyer's
				// earned points and the publisher commission.
				r.With(middleware.RequireRole("admin", logg)).
					Post("/complete", controllers.OrderComplete(ordersService, logg))
				r.Post("/pay-with-points", controllers.OrderPayWithPoints(ordersService, logg))
			})
		})

		r.Route("/v1/shop/products", func(r chi.Router) {
			r.Get("/", controllers.ShopList(productsService, logg))
			r.Get("/{productId}", controllers.ShopProductDetail(productsService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())
		r.Route("/v1/catalog", func(r chi.Router) {
			r.Post("/ingredients", controllers.AdminCreateIngredient(catalogService, logg))
			r.Put("/ingredients/{ingredientId}", controllers.AdminUpdateIngredient(catalogService, logg))
			r.Post("/packagings", controllers.AdminCreatePackaging(catalogService, logg))
			r.Put("/packagings/{packagingId}", controllers.AdminUpdatePackaging(catalogService, logg))
		})
		r.Route("/v1/points", func(r chi.Router) {
			r.Post("/adjust", controllers.AdminAdjustPoints(pointsService, logg))
			r.Post("/bulk-adjust", controllers.AdminBulkAdjustPoints(pointsService, logg))
		})
	})

	return r
}
