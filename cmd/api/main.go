package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/media2net-app/bloemenvandegier-sub001/api/routes"
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
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/env"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/migrate"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/places"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/redis"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/security"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	gormDB := dbClient.DB()

	activityService, err := activity.NewService(activity.NewRepository(gormDB))
	if err != nil {
		fatal(logg, "failed to create activity service", err)
	}
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	usersRepo := users.NewRepository(gormDB)
	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		fatal(logg, "failed to create users service", err)
	}
	authService, err := authsvc.NewService(usersRepo, redisClient, security.VerifyPassword, cfg.JWT)
	if err != nil {
		fatal(logg, "failed to create auth service", err)
	}

	catalogRepo := catalog.NewRepository(gormDB)
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		fatal(logg, "failed to create catalog service", err)
	}

	cartRepo := cart.NewRepository(gormDB)
	cartService, err := cart.NewService(cartRepo, dbClient, catalogRepo)
	if err != nil {
		fatal(logg, "failed to create cart service", err)
	}

	ordersRepo := orders.NewRepository(gormDB)
	numberGenerator, err := orders.NewRedisNumberGenerator(redisClient)
	if err != nil {
		fatal(logg, "failed to create order number generator", err)
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient, outboxService, activityService)
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}

	deliveriesRepo := deliveries.NewRepository(gormDB)
	deliveriesService, err := deliveries.NewService(deliveriesRepo, dbClient, outboxService, activityService)
	if err != nil {
		fatal(logg, "failed to create deliveries service", err)
	}

	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		cartRepo,
		ordersRepo,
		numberGenerator,
		catalogRepo,
		deliveriesRepo,
		outboxService,
		cfg.Checkout,
	)
	if err != nil {
		fatal(logg, "failed to create checkout service", err)
	}

	leadsService, err := leads.NewService(leads.NewRepository(gormDB), dbClient, outboxService, activityService)
	if err != nil {
		fatal(logg, "failed to create leads service", err)
	}
	tasksService, err := tasks.NewService(tasks.NewRepository(gormDB), dbClient, activityService)
	if err != nil {
		fatal(logg, "failed to create tasks service", err)
	}

	subscriptionsService, err := subscriptionsvc.NewService(
		subscriptionsvc.NewRepository(gormDB),
		dbClient,
		ordersRepo,
		numberGenerator,
		outboxService,
		activityService,
		cfg.Checkout,
	)
	if err != nil {
		fatal(logg, "failed to create subscriptions service", err)
	}

	reportsService, err := reports.NewService(
		reports.NewRepository(gormDB),
		ordersRepo,
		leads.NewRepository(gormDB),
		activityService,
	)
	if err != nil {
		fatal(logg, "failed to create reports service", err)
	}

	var placesClient *places.Client
	if cfg.Places.APIKey != "" {
		placesClient, err = places.NewClient(
			cfg.Places.APIKey,
			places.WithBaseURL(cfg.Places.BaseURL),
			places.WithTimeout(cfg.Places.Timeout),
		)
		if err != nil {
			fatal(logg, "failed to create places client", err)
		}
	} else {
		logg.Warn(context.Background(), "places api key missing, address lookup disabled")
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, routes.Services{
			Auth:          authService,
			Users:         usersService,
			Catalog:       catalogService,
			Cart:          cartService,
			Checkout:      checkoutService,
			Orders:        ordersService,
			Deliveries:    deliveriesService,
			Leads:         leadsService,
			Tasks:         tasksService,
			Subscriptions: subscriptionsService,
			Reports:       reportsService,
			Activity:      activityService,
			Places:        placesClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
