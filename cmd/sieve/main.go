package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/config"
	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/db/memory"
	dbRedis "github.com/kailas-cloud/sieve/internal/db/redis"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	logpkg "github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/metrics"
	documentrepo "github.com/kailas-cloud/sieve/internal/repository/document"
	indexrepo "github.com/kailas-cloud/sieve/internal/repository/index"
	searchrepo "github.com/kailas-cloud/sieve/internal/repository/search"
	viewrepo "github.com/kailas-cloud/sieve/internal/repository/view"
	chiTransport "github.com/kailas-cloud/sieve/internal/transport/chi"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	provisionuc "github.com/kailas-cloud/sieve/internal/usecase/provision"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
	"github.com/kailas-cloud/sieve/internal/version"
)

func main() {
	reindex := flag.Bool("reindex", false, "drop and rebuild every view index before serving")
	flag.Parse()

	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:    cfg.Logging.Level,
		Encoding: cfg.Logging.Encoding,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sieve API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Int("views", len(cfg.Views)),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Registered explicitly, no init().
	metrics.RegisterQueryMetrics()

	if cfg.Database.SeedDemo {
		if err := memory.SeedDemo(ctx, store); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
		logger.Info("Demo data seeded")
	}

	views, err := cfg.BuildViews()
	if err != nil {
		logger.Fatal("Invalid view configuration", zap.Error(err))
	}
	catalog, err := viewrepo.NewCatalog(views...)
	if err != nil {
		logger.Fatal("Invalid view catalog", zap.Error(err))
	}
	schemas := schema.NewRegistry()

	// Every view must resolve before the server accepts traffic.
	provisionSvc := provisionuc.New(indexrepo.New(store), documentrepo.New(store, cfg.Search.LoadBatchSize), schemas)
	for i, v := range views {
		if err := prepareView(ctx, provisionSvc, v, cfg.Views[i].Fixtures, *reindex); err != nil {
			logger.Fatal("Failed to prepare view", zap.String("view", v.Name()), zap.Error(err))
		}
	}

	logger.Info("Views ready", zap.Strings("views", catalog.Names()), zap.Int("schemas", schemas.Len()))

	searchSvc := searchuc.New(searchrepo.New(store), catalog, schemas, cfg.Search.DefaultLimit)
	healthSvc := healthuc.New(store, catalog)

	server := chiTransport.NewServer(searchSvc, healthSvc, catalog, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:     cfg.Auth.APIKeys,
		CORSOrigins: cfg.HTTP.CORS.AllowedOrigins,
		CORSMaxAge:  time.Duration(cfg.HTTP.CORS.MaxAgeSec) * time.Second,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case config.DriverMemory:
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// prepareView creates the view's index and loads its fixture file, if any.
func prepareView(ctx context.Context, svc *provisionuc.Service, v domview.View, fixtures string, reindex bool) error {
	var records []documentrepo.Record
	if fixtures != "" {
		var err error
		if records, err = documentrepo.ReadFile(fixtures); err != nil {
			return err
		}
	}

	prepare := svc.Prepare
	if reindex {
		prepare = svc.Reindex
	}
	_, err := prepare(ctx, v, records)
	return err
}
