// solrgate is a thin HTTP gateway in front of a Solr core: it exposes
// search and term suggestion over a small JSON API, with API key auth,
// request metrics and an optional Redis-backed result cache.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	solrdex "github.com/kailas-cloud/solrdex"
	"github.com/kailas-cloud/solrdex/internal/config"
	logpkg "github.com/kailas-cloud/solrdex/internal/logger"
	"github.com/kailas-cloud/solrdex/internal/metrics"
	"github.com/kailas-cloud/solrdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting solrgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("solr_url", cfg.Solr.URL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	solr, err := solrdex.New(cfg.Solr.URL,
		solrdex.WithTimeout(time.Duration(cfg.Solr.TimeoutSec)*time.Second),
		solrdex.WithLogger(logpkg.Slog(logger)),
		solrdex.WithPrometheus(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logger.Fatal("Failed to create Solr client", zap.Error(err))
	}

	var admin *solrdex.CoreAdmin
	if cfg.Solr.AdminURL != "" {
		admin = solrdex.NewCoreAdmin(cfg.Solr.AdminURL,
			solrdex.WithTimeout(time.Duration(cfg.Solr.TimeoutSec)*time.Second),
		)
	}

	var cache *searchCache
	if cfg.Cache.Enabled {
		cache, err = newSearchCache(cfg.Cache)
		if err != nil {
			logger.Fatal("Failed to create search cache", zap.Error(err))
		}
		defer cache.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := cache.Ping(ctx); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cancel()
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	gw := &gateway{
		solr:   solr,
		admin:  admin,
		cache:  cache,
		cfg:    cfg.Solr,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(bearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/search", gw.handleSearch)
	r.Get("/terms", gw.handleTerms)
	r.Get("/healthz", gw.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
