package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kantinapp/kantin-gateway/api/routes"
	"github.com/kantinapp/kantin-gateway/internal/auth"
	"github.com/kantinapp/kantin-gateway/internal/cart"
	"github.com/kantinapp/kantin-gateway/internal/checkout"
	"github.com/kantinapp/kantin-gateway/internal/menu"
	"github.com/kantinapp/kantin-gateway/internal/orders"
	"github.com/kantinapp/kantin-gateway/internal/reports"
	"github.com/kantinapp/kantin-gateway/internal/upstream"
	"github.com/kantinapp/kantin-gateway/pkg/config"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
	"github.com/kantinapp/kantin-gateway/pkg/metrics"
	"github.com/kantinapp/kantin-gateway/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var redisClient *redis.Client
	needsRedis := cfg.Cart.NormalizedBackend() == config.CartBackendRedis || cfg.Redis.URL != "" || cfg.Redis.Address != ""
	if needsRedis {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	persister, err := buildCartPersister(cfg, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cart persistence", err)
		os.Exit(1)
	}

	upstreamClient, err := upstream.NewClient(cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap upstream client", err)
		os.Exit(1)
	}

	var sessionStore auth.SessionStore
	if redisClient != nil {
		sessionStore = redisClient
	} else {
		sessionStore = auth.NewMemorySessionStore()
	}
	sessions, err := auth.NewManager(upstreamClient, sessionStore, cfg.Session, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalog, err := menu.NewFetcher(upstreamClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog fetcher", err)
		os.Exit(1)
	}

	carts, err := cart.NewManager(persister, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(upstreamClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(upstreamClient, catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(upstreamClient, catalog, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.NormalizedBackend(),
	})
	logg.Info(ctx, "starting gateway server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			Sessions:    sessions,
			Catalog:     catalog,
			Carts:       carts,
			Checkout:    checkoutService,
			Orders:      ordersService,
			Reports:     reportsService,
			Upstream:    upstreamClient,
			HTTPMetrics: httpMetrics,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildCartPersister(cfg *config.Config, redisClient *redis.Client) (cart.Persister, error) {
	switch cfg.Cart.NormalizedBackend() {
	case config.CartBackendRedis:
		return cart.NewRedisPersister(redisClient, cfg.Cart.SlotTTL)
	case config.CartBackendSQLite:
		return cart.NewSQLitePersister(cfg.Cart.SQLitePath)
	default:
		return cart.NewMemoryPersister(), nil
	}
}
