package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carbon-insights/internal/api"
	"carbon-insights/internal/api/handlers"
	"carbon-insights/internal/artifact"
	"carbon-insights/internal/events"
	"carbon-insights/internal/forecast"
	"carbon-insights/internal/observability"
	"carbon-insights/internal/repository"
	"carbon-insights/internal/service"
	"carbon-insights/pkg/config"
	"carbon-insights/pkg/logger"
	"carbon-insights/pkg/postgres"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// @title Carbon Insights API
// @version 1.0
// @description Emission uploads, monthly aggregation, reduction recommendations and per-organization forecasts.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Carbon Insights service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := postgres.RunMigrations(db, appLogger.Named("migrate")); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db, appLogger)
	emissionRepo := repository.NewEmissionRepository(db, appLogger)
	recRepo := repository.NewRecommendationRepository(db, appLogger)

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Model artifacts
	store, err := artifact.NewStore(ctx, &cfg.Models)
	if err != nil {
		appLogger.Fatal("Failed to initialize model store", zap.Error(err))
	}
	var resolver forecast.ModelResolver = artifact.NewResolver(
		store,
		cfg.Models.KeyPattern,
		func(d time.Duration) { metrics.ModelLoadDuration.Observe(d.Seconds()) },
		appLogger.Named("artifact"),
	)
	if cfg.Models.CacheSize > 0 {
		resolver = forecast.NewCachedResolver(resolver, cfg.Models.CacheSize, cfg.Models.CacheTTL, metrics.ObserveModelCache)
	}
	appLogger.Info("Model store ready",
		zap.String("backend", cfg.Models.Backend),
		zap.String("key_pattern", cfg.Models.KeyPattern),
		zap.Int("cache_size", cfg.Models.CacheSize),
	)

	publisher := events.NewPublisher(&cfg.Kafka, appLogger.Named("events"))
	defer publisher.Close()

	// Initialize services
	orgService := service.NewOrganizationService(orgRepo, clock, appLogger)
	ingestService := service.NewIngestService(orgRepo, emissionRepo, publisher, metrics, clock, appLogger.Named("ingest"))
	aggService := service.NewAggregationService(orgRepo, emissionRepo, appLogger)
	forecastService := service.NewForecastService(orgRepo, emissionRepo, resolver, cfg.Forecast.MaxPeriods, metrics, appLogger.Named("forecast"))
	recService := service.NewRecommendationService(orgRepo, emissionRepo, recRepo, clock, appLogger)

	// Setup router
	app := api.SetupRouter(api.Handlers{
		Organization:   handlers.NewOrganizationHandler(orgService, appLogger),
		Emission:       handlers.NewEmissionHandler(orgService, ingestService, aggService, forecastService, cfg.Forecast.DefaultPeriods, appLogger),
		Recommendation: handlers.NewRecommendationHandler(recService, appLogger),
		Health:         handlers.NewHealthHandler(orgRepo, appLogger),
	}, api.RouterConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimitMB << 20,
	}, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
