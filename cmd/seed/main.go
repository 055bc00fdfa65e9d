package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

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

func main() {
	manifestPath := flag.String("manifest", filepath.Join("cmd", "seed", "seed.yaml"), "path to the seed manifest")
	force := flag.Bool("force", false, "re-import files and re-publish models even if they were seeded before")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, appLogger.Named("migrate")); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	store, err := artifact.NewStore(ctx, &cfg.Models)
	if err != nil {
		appLogger.Fatal("Failed to initialize model store", zap.Error(err))
	}

	orgRepo := repository.NewOrganizationRepository(db, appLogger)
	emissionRepo := repository.NewEmissionRepository(db, appLogger)
	clock := clockwork.NewRealClock()

	publisher := events.NewPublisher(&cfg.Kafka, appLogger.Named("events"))
	defer publisher.Close()

	s := &seeder{
		orgs:       service.NewOrganizationService(orgRepo, clock, appLogger),
		ingest:     service.NewIngestService(orgRepo, emissionRepo, publisher, observability.NewMetrics(), clock, appLogger),
		store:      store,
		keyPattern: cfg.Models.KeyPattern,
		clock:      clock,
		force:      *force,
		logger:     appLogger,
	}

	appLogger.Info("Starting database seeding...", zap.String("manifest", *manifestPath))
	if err := s.run(ctx, *manifestPath); err != nil {
		appLogger.Fatal("Seeding failed", zap.Error(err))
	}
	appLogger.Info("Database seeding completed successfully!")
}

type seeder struct {
	orgs       *service.OrganizationService
	ingest     *service.IngestService
	store      artifact.Store
	keyPattern string
	clock      clockwork.Clock
	force      bool
	logger     *zap.Logger
}

func (s *seeder) run(ctx context.Context, manifestPath string) error {
	manifest, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(manifestPath)
	cacheFile := filepath.Join(baseDir, ".seed_cache.json")
	cache, err := loadCache(cacheFile)
	if err != nil {
		s.logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	for _, entry := range manifest.Organizations {
		org, created, err := s.orgs.FindOrCreate(ctx, service.CreateOrganizationInput{
			Name:    entry.Name,
			Website: entry.Website,
		})
		if err != nil {
			return fmt.Errorf("organization %q: %w", entry.Name, err)
		}
		orgLog := s.logger.With(zap.Int64("organization_id", org.ID), zap.String("organization", org.Name))
		if created {
			orgLog.Info("Created organization")
		}

		for _, name := range entry.Files {
			path := resolvePath(baseDir, name)
			if err := s.importFile(ctx, org.ID, path, cache, orgLog); err != nil {
				orgLog.Error("Failed to import file", zap.String("path", path), zap.Error(err))
			}
		}

		if entry.Model != "" {
			if err := s.publishModel(ctx, org.ID, resolvePath(baseDir, entry.Model), orgLog); err != nil {
				orgLog.Error("Failed to publish model", zap.String("path", entry.Model), zap.Error(err))
			}
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		s.logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		s.logger.Info("Cache saved", zap.Int("processed_files", len(cache.ProcessedFiles)))
	}
	return nil
}

func (s *seeder) importFile(ctx context.Context, orgID int64, path string, cache *CacheData, orgLog *zap.Logger) error {
	hash, err := calculateFileHash(path)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%d:%s", orgID, path)
	if !s.force && cache.Seen(key, hash) {
		orgLog.Info("File already imported, skipping", zap.String("path", path))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	report, err := s.ingest.Import(ctx, orgID, data)
	if err != nil {
		return err
	}

	for _, rej := range report.Rejected {
		orgLog.Warn("Row rejected",
			zap.String("path", path),
			zap.Int("line", rej.Line),
			zap.String("reason", string(rej.Reason)),
			zap.String("detail", rej.Detail),
		)
	}
	orgLog.Info("Imported file",
		zap.String("path", path),
		zap.Int("imported", report.Imported),
		zap.Int("rejected", len(report.Rejected)),
	)

	cache.Mark(key, hash, s.clock.Now())
	return nil
}

// publishModel validates an artifact and stores it under the organization's key.
func (s *seeder) publishModel(ctx context.Context, orgID int64, path string, orgLog *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	model, err := forecast.DecodeLinearModel(bytes.NewReader(data))
	if err != nil {
		return err
	}

	key := fmt.Sprintf(s.keyPattern, orgID)
	if !s.force {
		exists, err := s.store.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			orgLog.Info("Forecast model already published, skipping", zap.String("key", key))
			return nil
		}
	}
	if err := s.store.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return err
	}
	orgLog.Info("Published forecast model", zap.String("key", key), zap.Stringer("schema", model.Schema()))
	return nil
}
