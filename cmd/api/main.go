package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sofiaibarra/blendery-backend/api/routes"
	"github.com/sofiaibarra/blendery-backend/internal/auth"
	"github.com/sofiaibarra/blendery-backend/internal/catalog"
	"github.com/sofiaibarra/blendery-backend/internal/mixes"
	"github.com/sofiaibarra/blendery-backend/internal/notifications"
	"github.com/sofiaibarra/blendery-backend/internal/orders"
	"github.com/sofiaibarra/blendery-backend/internal/points"
	products "github.com/sofiaibarra/blendery-backend/internal/products"
	"github.com/sofiaibarra/blendery-backend/internal/users"
	"github.com/sofiaibarra/blendery-backend/pkg/auth/session"
	"github.com/sofiaibarra/blendery-backend/pkg/config"
	"github.com/sofiaibarra/blendery-backend/pkg/db"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
	"github.com/sofiaibarra/blendery-backend/pkg/metrics"
	"github.com/sofiaibarra/blendery-backend/pkg/migrate"
	"github.com/sofiaibarra/blendery-backend/pkg/outbox"
	"github.com/sofiaibarra/blendery-backend/pkg/outbox/idempotency"
	"github.com/sofiaibarra/blendery-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	pointsRepo := points.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	mixesRepo := mixes.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)

	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)
	completionMarker, err := idempotency.NewManager(redisClient, cfg.Outbox.IdempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency manager", err)
		os.Exit(1)
	}

	pointsMetrics := metrics.NewPointsMetrics(prometheus.DefaultRegisterer)

	pointsService, err := points.NewService(pointsRepo, dbClient, pointsMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create points service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	mixesService, err := mixes.NewService(
		mixesRepo,
		catalogRepo,
		pointsService,
		productsService,
		outboxService,
		dbClient,
		logg,
		cfg.Points.PublishBonus,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create mixes service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		ordersRepo,
		mixesRepo,
		catalogRepo,
		productsService,
		productsRepo,
		pointsService,
		outboxService,
		completionMarker,
		dbClient,
		logg,
		cfg.Points.SaleCommission,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:          dbClient,
		PointsService:     pointsService,
		SessionManager:    sessionManager,
		PasswordConfig:    cfg.Password,
		JWTConfig:         cfg.JWT,
		RegistrationBonus: cfg.Points.RegistrationBonus,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			catalogService,
			mixesService,
			pointsService,
			ordersService,
			productsService,
			notificationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
