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

	"github.com/SAP-F-2025/exam-document-service/internal/cache"
	"github.com/SAP-F-2025/exam-document-service/internal/config"
	"github.com/SAP-F-2025/exam-document-service/internal/events"
	"github.com/SAP-F-2025/exam-document-service/internal/handlers"
	"github.com/SAP-F-2025/exam-document-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-document-service/internal/services"
	"github.com/SAP-F-2025/exam-document-service/internal/utils"
	"github.com/SAP-F-2025/exam-document-service/internal/validator"
	"github.com/SAP-F-2025/exam-document-service/pkg"
	"github.com/SAP-F-2025/exam-document-service/pkg/monitoring"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment, os.Stdout)
	slogLogger := utils.ToSlogLogger(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Database initialization failed")
		os.Exit(1)
	}
	if err := postgres.Migrate(db); err != nil {
		logger.LogError(err, "Database migration failed")
		os.Exit(1)
	}

	// Rendering works without the cache, so a missing redis only costs repeat renders.
	var renderCache cache.CacheService
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Render cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		renderCache = cache.NewRedisCache(redisClient, slogLogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("Failed to create event publisher, falling back to mock", "error", err)
		publisher = events.NewMockEventPublisher(slogLogger)
	}
	defer publisher.Close()

	monitoring.Init()

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:           postgres.NewRepository(db),
		Cache:          renderCache,
		Publisher:      publisher,
		Validator:      validator.New(),
		Logger:         slogLogger,
		RenderCacheTTL: cfg.RenderCacheTTL,
	})
	router := handlers.NewRouter(handlers.NewHandlerManager(serviceManager, logger), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Graceful shutdown failed")
	}
}
