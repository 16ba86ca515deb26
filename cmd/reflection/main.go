package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bokjinpyeong/my-data-reflection/internal/config"
	"github.com/bokjinpyeong/my-data-reflection/internal/db"
	dbMemory "github.com/bokjinpyeong/my-data-reflection/internal/db/memory"
	dbRedis "github.com/bokjinpyeong/my-data-reflection/internal/db/redis"
	dbSqlite "github.com/bokjinpyeong/my-data-reflection/internal/db/sqlite"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
	logpkg "github.com/bokjinpyeong/my-data-reflection/internal/logger"
	"github.com/bokjinpyeong/my-data-reflection/internal/metrics"
	recordrepo "github.com/bokjinpyeong/my-data-reflection/internal/repository/record"
	chiTransport "github.com/bokjinpyeong/my-data-reflection/internal/transport/chi"
	archiveuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/archive"
	healthuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/health"
	insightuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/insight"
	rankinguc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/ranking"
	similarityuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/similarity"
	snapshotuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/snapshot"
	"github.com/bokjinpyeong/my-data-reflection/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting reflection API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "sqlite":
		store, err = dbSqlite.NewStore(cfg.Database.Path)
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "memory":
		store = dbMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.Register()

	scale, err := record.NewScale(cfg.Engine.ScaleMin, cfg.Engine.ScaleMax)
	if err != nil {
		logger.Fatal("Invalid score scale", zap.Error(err))
	}

	metric, err := similarityuc.ParseMetric(cfg.Engine.Metric)
	if err != nil {
		logger.Fatal("Invalid distance metric", zap.Error(err))
	}

	// Repositories and use case services
	repo := recordrepo.New(store, cfg.Storage.KeyPrefix)

	archiveSvc := archiveuc.New(repo, scale, logger)
	snapshotSvc := snapshotuc.New(repo, scale, logger)
	rankingSvc := rankinguc.New()
	similaritySvc := similarityuc.New(metric)
	insightSvc := insightuc.New(repo)
	healthSvc := healthuc.New(store, snapshotHealthChecker{snapshots: snapshotSvc})

	// Initial fit. An empty archive is fine: the first refit after
	// ingestion establishes the snapshot.
	if _, err := snapshotSvc.Refit(ctx); err != nil {
		if errors.Is(err, domain.ErrEmptyPopulation) {
			logger.Warn("Archive is empty, starting without a fitted snapshot")
		} else {
			logger.Fatal("Initial fit failed", zap.Error(err))
		}
	}

	server := chiTransport.NewServer(
		archiveSvc, snapshotSvc, rankingSvc, similaritySvc, insightSvc, healthSvc,
		logger,
		chiTransport.Limits{DefaultK: cfg.Engine.DefaultK, MaxK: cfg.Engine.MaxK},
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

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

// snapshotHealthChecker adapts snapshot.Service to health.SnapshotChecker.
type snapshotHealthChecker struct {
	snapshots *snapshotuc.Service
}

func (c snapshotHealthChecker) Current() error {
	_, err := c.snapshots.Current()
	return err
}
