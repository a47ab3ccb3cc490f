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
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Owusua22/Franko-MobileApp-sub001/api/routes"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/checkout"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/finalizer"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/gateway"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderid"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/pending"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/config"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/metrics"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "checkout-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	orderClient, err := orderapi.NewClient(cfg.OrderAPI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order api client", err)
		os.Exit(1)
	}
	gatewayClient, err := gateway.NewClient(cfg.Gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway client", err)
		os.Exit(1)
	}

	store, err := pending.NewStore(redisClient, cfg.Checkout.PendingTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create pending store", err)
		os.Exit(1)
	}
	finalizeSvc, err := finalizer.NewService(orderClient, store, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order finalizer", err)
		os.Exit(1)
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Generator:    orderid.NewGenerator(),
		Store:        store,
		Gateway:      gatewayClient,
		Finalizer:    finalizeSvc,
		Statuses:     orderClient,
		Logger:       logg,
		Metrics:      checkoutMetrics,
		PollInterval: cfg.Poller.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	defer checkoutSvc.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting checkout api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			Store:    redisClient,
			Checkout: checkoutSvc,
			Orders:   orderClient,
			Registry: registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down server", err)
		}
		logg.Info(ctx, "checkout api shutting down gracefully")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "checkout api stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}
