package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/freshboxhq/freshbox-backend/api/routes"
	"github.com/freshboxhq/freshbox-backend/internal/admin"
	"github.com/freshboxhq/freshbox-backend/internal/admission"
	"github.com/freshboxhq/freshbox-backend/internal/batches"
	"github.com/freshboxhq/freshbox-backend/internal/catalog"
	"github.com/freshboxhq/freshbox-backend/internal/coupons"
	"github.com/freshboxhq/freshbox-backend/internal/notifications"
	"github.com/freshboxhq/freshbox-backend/internal/orders"
	"github.com/freshboxhq/freshbox-backend/internal/payments"
	"github.com/freshboxhq/freshbox-backend/internal/settings"
	"github.com/freshboxhq/freshbox-backend/pkg/config"
	"github.com/freshboxhq/freshbox-backend/pkg/db"
	"github.com/freshboxhq/freshbox-backend/pkg/logger"
	"github.com/freshboxhq/freshbox-backend/pkg/metrics"
	"github.com/freshboxhq/freshbox-backend/pkg/migrate"
	"github.com/freshboxhq/freshbox-backend/pkg/ratelimit"
	"github.com/freshboxhq/freshbox-backend/pkg/razorpay"
	"github.com/freshboxhq/freshbox-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dbClient.Close(); cerr != nil {
			logg.Error(context.Background(), "error closing database", cerr)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logg.Error(context.Background(), "error closing redis", cerr)
		}
	}()

	gateway, err := razorpay.NewClient(ctx, cfg.Razorpay, logg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Backend == "redis" {
		limiter = ratelimit.NewRedisLimiter(redisClient)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	gdb := dbClient.DB()
	settingsSvc, err := settings.NewService(settings.NewRepository(gdb))
	if err != nil {
		return err
	}
	gate, err := admission.NewGate(settingsSvc, cfg.App.Timezone, logg)
	if err != nil {
		return err
	}
	catalogRepo := catalog.NewRepository(gdb)
	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		return err
	}
	couponSvc, err := coupons.NewService(coupons.NewRepository(gdb))
	if err != nil {
		return err
	}
	ordersRepo := orders.NewRepository(gdb)
	ordersSvc, err := orders.NewService(ordersRepo, catalogRepo, couponSvc, gate, dbClient, orderMetrics, logg)
	if err != nil {
		return err
	}
	paymentsSvc, err := payments.NewService(
		payments.NewRepository(gdb),
		ordersRepo,
		gateway,
		dbClient,
		notifications.NewMailer(cfg.SMTP, logg),
		orderMetrics,
		logg,
	)
	if err != nil {
		return err
	}
	batchesSvc, err := batches.NewService(batches.NewRepository(gdb), cfg.App.Timezone)
	if err != nil {
		return err
	}
	adminSvc, err := admin.NewService(cfg.Admin, redisClient, logg)
	if err != nil {
		return err
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Limiter:     limiter,
		Registry:    registry,
		HTTPMetrics: httpMetrics,
		Orders:      ordersSvc,
		Payments:    paymentsSvc,
		Coupons:     couponSvc,
		Catalog:     catalogSvc,
		Settings:    settingsSvc,
		Batches:     batchesSvc,
		Admin:       adminSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": server.Addr,
	})
	logg.Info(startCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return multierr.Append(server.Shutdown(shutdownCtx), <-serveErr)
}
