package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"markets-engine/config"
	"markets-engine/internal/api"
	"markets-engine/internal/logger"
	"markets-engine/internal/markets"
	"markets-engine/internal/metrics"
	"markets-engine/internal/model"
	"markets-engine/internal/store/mongo"
	"markets-engine/internal/store/postgres"
	redisstore "markets-engine/internal/store/redis"
	"markets-engine/internal/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger.Init("marketsapi", logger.ParseLevel(cfg.LogLevel))

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("catalog load failed", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	mode, err := markets.ParseVarianceMode(cfg.PercentVarianceMode)
	if err != nil {
		slog.Error("invalid PERCENT_VARIANCE_MODE", "error", err)
		os.Exit(1)
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, catalog, m)
	if err != nil {
		slog.Error("store init failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("store close failed", "error", err)
		}
	}()

	health := metrics.NewHealthStatus()
	health.Register(cfg.StoreBackend, true, store.Ping)

	if cfg.RedisAddr != "" {
		cache, err := redisstore.NewBarCache(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			TTL:      cfg.CacheTTL,
		}, store, m)
		if err != nil {
			// the cache is optional; serve straight from the store
			slog.Warn("bar cache disabled", "error", err)
		} else {
			health.Register("redis", false, cache.Ping)
			store = redisstore.WithCache(store, cache)
		}
	}

	scheduler, err := health.StartLivenessChecker(ctx, cfg.HealthCheckCron)
	if err != nil {
		slog.Error("health scheduler failed", "spec", cfg.HealthCheckCron, "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health, prometheus.DefaultGatherer)
	metricsSrv.Start()

	svc := markets.NewService(store, store, markets.Options{
		DefaultWindowBars: cfg.DefaultWindowBars,
		VarianceMode:      mode,
	}, m)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(svc, api.Options{
		MaxPageSize:        cfg.MaxPageSize,
		CacheControlMaxAge: cfg.CacheControlMaxAge,
		Catalog:            catalog.Tickers,
		Metrics:            m,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("marketsapi listening",
			"addr", cfg.HTTPAddr,
			"backend", cfg.StoreBackend,
			"variance_mode", string(mode),
			"tickers", len(catalog.Tickers),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			cancel()
		}
	}()

	gracefulShutdown(ctx, server, metricsSrv)
}

// openStore connects the configured backend. Mongo bar indexes are ensured
// on the catalog's ticker indexes and news indexes on its news indexes.
func openStore(ctx context.Context, cfg *config.Config, catalog *config.Catalog, m *metrics.Metrics) (model.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		s, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, m)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBarIndexes(ctx, catalog.BarIndexes()...); err != nil {
			slog.Warn("mongo bar indexes not ensured", "error", err)
		}
		if err := s.EnsureNewsIndexes(ctx, catalog.AllNewsIndexes(cfg.NewsIndexes)...); err != nil {
			slog.Warn("mongo news indexes not ensured", "error", err)
		}
		return s, nil
	case config.BackendSQLite:
		return sqlite.Open(cfg.SQLitePath, m)
	case config.BackendPostgres:
		return postgres.Open(cfg.PostgresDSN, cfg.Production(), m)
	default:
		return nil, errors.New("unknown store backend " + cfg.StoreBackend)
	}
}

func gracefulShutdown(ctx context.Context, server *http.Server, metricsSrv *metrics.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("shutting down after server failure")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server forced to shutdown", "error", err)
	}
	metricsSrv.Stop(shutdownCtx)
	slog.Info("marketsapi stopped")
}
