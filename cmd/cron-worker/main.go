package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/cron"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/leads"
	"github.com/media2net-app/bloemenvandegier-sub001/internal/orders"
	subscriptionsvc "github.com/media2net-app/bloemenvandegier-sub001/internal/subscriptions"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/metrics"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/migrate"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/redis"
)

const lockKeyFormat = "bvdg:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	activityRepo := activity.NewRepository(gormDB)
	activityService, err := activity.NewService(activityRepo)
	if err != nil {
		fatal(logg, "failed to create activity service", err)
	}

	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)
	ordersRepo := orders.NewRepository(gormDB)
	numberGenerator, err := orders.NewRedisNumberGenerator(redisClient)
	if err != nil {
		fatal(logg, "failed to create order number generator", err)
	}

	leadsRepo := leads.NewRepository(gormDB)

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

	renewalJob, err := cron.NewSubscriptionRenewalJob(cron.SubscriptionRenewalJobParams{
		Logger:        logg,
		Subscriptions: subscriptionsService,
	})
	if err != nil {
		fatal(logg, "failed to create renewal job", err)
	}
	staleLeadJob, err := cron.NewStaleLeadJob(cron.StaleLeadJobParams{
		Logger:   logg,
		Leads:    leadsRepo,
		Recorder: activityService,
	})
	if err != nil {
		fatal(logg, "failed to create stale lead job", err)
	}
	retentionJob, err := cron.NewActivityRetentionJob(cron.ActivityRetentionJobParams{
		Logger:     logg,
		Repository: activityRepo,
	})
	if err != nil {
		fatal(logg, "failed to create activity retention job", err)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		fatal(logg, "failed to create cron lock", err)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(renewalJob, staleLeadJob, retentionJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		fatal(logg, "failed to create cron service", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
