package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/aurora-storefront/internal/api-gateway/infra/httpx"
	authapp "github.com/jcmexdev/aurora-storefront/internal/auth/app"
	cartapp "github.com/jcmexdev/aurora-storefront/internal/cart/app"
	catalogapp "github.com/jcmexdev/aurora-storefront/internal/catalog/app"
	"github.com/jcmexdev/aurora-storefront/internal/checkout"
	"github.com/jcmexdev/aurora-storefront/internal/coordinator/sagalog"
	sagalogsqlite "github.com/jcmexdev/aurora-storefront/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/order/adapters/memory"
	ordersqlite "github.com/jcmexdev/aurora-storefront/internal/order/adapters/sqlite"
	orderapp "github.com/jcmexdev/aurora-storefront/internal/order/app"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
	"github.com/jcmexdev/aurora-storefront/internal/pkg/cache"
	"github.com/jcmexdev/aurora-storefront/internal/pkg/config"
	"github.com/jcmexdev/aurora-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/aurora-storefront/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.Telemetry.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.ShutdownFunc(telemetry.NoopShutdown)
	if cfg.Telemetry.Enabled {
		var err error
		if shutdown, err = telemetry.SetupTracer(ctx, cfg.Telemetry.ServiceName); err != nil {
			return err
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	store := newCache(cfg)

	orderRepo, sagaLog, closeRepos, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	products, err := catalogapp.NewDefault()
	if err != nil {
		return err
	}
	methods := payment.DefaultDirectory()
	orders := orderapp.NewService(orderRepo)
	carts := cartapp.NewService(cartapp.NewCacheStore(store, cfg.Sessions.CartTTL), products)
	auth := authapp.NewService(store, cfg.Sessions.SessionTTL)

	handler := httpx.NewHandler(httpx.Deps{
		Auth:    auth,
		Catalog: products,
		Carts:   carts,
		Checkout: checkout.NewService(checkout.Config{
			Carts:          carts,
			Orders:         orders,
			Stock:          products,
			Methods:        methods,
			Idempotency:    store,
			IdempotencyTTL: cfg.Sessions.IdempotencyTTL,
			SagaLog:        sagaLog,
		}),
		Orders:    orders,
		Methods:   methods,
		Reports:   report.NewReporter(orders, nil),
		Dashboard: report.NewDashboardService(products, orders),
		SagaLog:   sagaLog,
		Converter: currency.NewConverter(cfg.ExchangeRateVES),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      otelhttp.NewHandler(httpx.NewRouter(handler), cfg.Telemetry.ServiceName),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("storefront running", "addr", cfg.HTTP.Addr, "redis", cfg.Redis.Addr != "", "orders_db", cfg.Orders.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCache(cfg config.Config) cache.Cache {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache(cfg.Telemetry.ServiceName)
	}
	return cache.NewRedisCache(cfg.Redis.Addr, cfg.Telemetry.ServiceName)
}

// openRepositories keeps orders and saga logs in memory unless ORDERS_DB_PATH
// is set, in which case both tables live in that SQLite file.
func openRepositories(cfg config.Config) (domain.Repository, sagalog.Repository, func(), error) {
	if cfg.Orders.DBPath == "" {
		return memory.NewRepository(), sagalog.NewMemoryRepository(), func() {}, nil
	}

	orderRepo, err := ordersqlite.Open(cfg.Orders.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	sagaRepo, err := sagalogsqlite.Open(cfg.Orders.DBPath)
	if err != nil {
		_ = orderRepo.Close()
		return nil, nil, nil, err
	}
	closeAll := func() {
		if err := sagaRepo.Close(); err != nil {
			slog.Error("failed to close saga log", "error", err)
		}
		if err := orderRepo.Close(); err != nil {
			slog.Error("failed to close orders db", "error", err)
		}
	}
	return orderRepo, sagaRepo, closeAll, nil
}
