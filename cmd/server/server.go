package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/model-browser/internal/config"
	"jan-server/services/model-browser/internal/domain/catalog"
	"jan-server/services/model-browser/internal/infrastructure/auth"
	"jan-server/services/model-browser/internal/infrastructure/database"
	"jan-server/services/model-browser/internal/infrastructure/database/transaction"
	"jan-server/services/model-browser/internal/infrastructure/logger"
	"jan-server/services/model-browser/internal/infrastructure/observability"
	"jan-server/services/model-browser/internal/infrastructure/registry"
	repo "jan-server/services/model-browser/internal/infrastructure/repository/catalog"
	"jan-server/services/model-browser/internal/interfaces/httpserver"
)

// @title Model Browser API
// @version 1.0
// @description Searches registered data models and opens their list views
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := newGormDB(ctx, newDatabaseConfig(cfg), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	modelRegistry, err := newRegistry(ctx, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("discover models")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	catalogService := newCatalogService(cfg, transaction.NewDatabase(db), modelRegistry, log)

	httpServer := httpserver.New(cfg, log, catalogService, authValidator, db)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

// newGormDB connects, migrates, and applies the optional catalog seed file.
func newGormDB(ctx context.Context, dbCfg database.Config, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(dbCfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, cfg.AdminGroup, log); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if cfg.CatalogSeedFile != "" {
		seed, err := database.LoadSeedFile(cfg.CatalogSeedFile)
		if err != nil {
			return nil, err
		}
		if err := database.ApplySeed(ctx, db, seed); err != nil {
			return nil, fmt.Errorf("apply catalog seed: %w", err)
		}
		log.Info().Str("file", cfg.CatalogSeedFile).Int("models", len(seed.Models)).Msg("catalog seed applied")
	}
	return db, nil
}

func newRegistry(ctx context.Context, db *gorm.DB, log zerolog.Logger) (*registry.Registry, error) {
	r := registry.New()
	if err := r.Discover(ctx, db, log); err != nil {
		return nil, err
	}
	return r, nil
}

func newCatalogService(cfg *config.Config, txdb *transaction.Database, modelRegistry *registry.Registry, log zerolog.Logger) catalog.Service {
	return catalog.NewService(catalog.Dependencies{
		Descriptors: repo.NewDescriptorRepository(txdb),
		Registry:    modelRegistry,
		Access:      repo.NewAccessChecker(txdb, cfg.AdminGroup),
		Records:     repo.NewRecordStore(txdb, modelRegistry, cfg.AdminGroup),
		Actions:     repo.NewActionRepository(txdb),
		Tx:          txdb,
	}, catalog.Options{
		DefaultLimit: cfg.SearchDefaultLimit,
		MaxLimit:     cfg.SearchMaxLimit,
	}, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
