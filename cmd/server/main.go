package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/config"
	"github.com/courtsync/concilia-backend/internal/database"
	"github.com/courtsync/concilia-backend/internal/handler"
	"github.com/courtsync/concilia-backend/internal/logger"
	"github.com/courtsync/concilia-backend/internal/repository"
	"github.com/courtsync/concilia-backend/internal/router"
	"github.com/courtsync/concilia-backend/internal/service"
	"github.com/courtsync/concilia-backend/internal/sheets"
	"github.com/courtsync/concilia-backend/internal/validator"
	"github.com/courtsync/concilia-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Concilia Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Storage Boundary ───────────────────────────────────
	sheetClient := sheets.NewClient(cfg, log)
	snapshotRepo := repository.NewSnapshotRepository(rdb, log)
	auditRepo := repository.NewReviewAuditRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	reconcileService := service.NewReconcileService(sheetClient, snapshotRepo, log)
	reviewWriter := worker.NewReviewWriter(sheetClient, cfg.AppendDelay, log)
	reviewService := service.NewReviewService(reviewWriter, reconcileService, auditRepo, log)

	// Serve the cached snapshot until the first upstream fetch lands.
	if err := reconcileService.RestoreFromCache(ctx); err != nil {
		log.Warn().Err(err).Msg("Snapshot cache restore failed")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Session: handler.NewSessionHandler(reconcileService),
		Review:  handler.NewReviewHandler(reviewService, reconcileService),
		Catalog: handler.NewCatalogHandler(reconcileService),
		Refresh: handler.NewRefreshHandler(reconcileService),
		WS:      handler.NewWSHandler(snapshotRepo, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	refreshWorker := worker.NewRefreshWorker(reconcileService, cfg.RefreshInterval, log)
	go refreshWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the refresh worker.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
