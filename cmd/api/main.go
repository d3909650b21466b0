package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/procifarmed/storefront-api/api"
	"github.com/procifarmed/storefront-api/api/routes"
	"github.com/procifarmed/storefront-api/internal/address"
	"github.com/procifarmed/storefront-api/internal/auth"
	"github.com/procifarmed/storefront-api/internal/cart"
	"github.com/procifarmed/storefront-api/internal/catalog"
	"github.com/procifarmed/storefront-api/internal/checkout"
	"github.com/procifarmed/storefront-api/internal/notifications"
	"github.com/procifarmed/storefront-api/internal/orders"
	"github.com/procifarmed/storefront-api/internal/profiles"
	"github.com/procifarmed/storefront-api/internal/users"
	"github.com/procifarmed/storefront-api/pkg/auth/session"
	"github.com/procifarmed/storefront-api/pkg/config"
	"github.com/procifarmed/storefront-api/pkg/db"
	"github.com/procifarmed/storefront-api/pkg/instance"
	"github.com/procifarmed/storefront-api/pkg/logger"
	"github.com/procifarmed/storefront-api/pkg/metrics"
	"github.com/procifarmed/storefront-api/pkg/migrate"
	"github.com/procifarmed/storefront-api/pkg/redis"
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
		Console:     strings.EqualFold(cfg.App.LogFormat, "console"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	catalogRepo := catalog.NewRepository(dbClient.DB())
	if cfg.FeatureFlags.SeedCatalog {
		inserted, err := catalog.Seed(ctx, catalogRepo)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "inserted", inserted), "catalog seed applied")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	profileService, err := profiles.NewService(profiles.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		UserRepo:       users.NewRepository(dbClient.DB()),
		Profiles:       profileService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		return err
	}

	cartStorage, err := cart.NewRedisStorage(redisClient, cfg.Cart.TTL)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cartStorage, catalogRepo, logg)
	if err != nil {
		return err
	}

	addressService, err := address.NewService(dbClient, address.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, logg)
	if err != nil {
		return err
	}

	mailer, err := notifications.NewService(notifications.NewDialer(cfg.Mail), cfg.Mail.From, logg)
	if err != nil {
		return err
	}
	if !mailer.Enabled() {
		logg.Warn(ctx, "smtp not configured, order e-mails disabled")
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:            dbClient,
		Cart:          cartService,
		Orders:        ordersRepo,
		Profiles:      profileService,
		Notifications: mailer,
		Metrics:       checkoutMetrics,
		Config:        cfg.Checkout,
		PublicBaseURL: cfg.App.PublicBaseURL,
		Logger:        logg,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:             dbClient,
		Redis:          redisClient,
		Store:          redisClient,
		Sessions:       sessionManager,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:           authService,
		Catalog:        catalogService,
		Cart:           cartService,
		Profiles:       profileService,
		Addresses:      addressService,
		Checkout:       checkoutService,
		Orders:         ordersService,
	})

	server := api.NewServer(cfg, os.Getenv("PORT"), handler, logg)

	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr(),
		"instance": instance.GetID(),
	}), "starting api server")

	return server.Run(ctx)
}
