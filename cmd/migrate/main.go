package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/vidinfra/commtrack/internal/config"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
	"github.com/vidinfra/commtrack/internal/postgres/migrations"
	"github.com/vidinfra/commtrack/internal/repository"
	"github.com/vidinfra/commtrack/internal/service"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	seed := flag.Bool("seed", false, "Provision the default statuses and communication types after migrating")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		names, err := migrations.Names()
		if err != nil {
			logger.Fatalw("Failed to list migrations", "error", err)
		}
		for _, name := range names {
			stmt, err := migrations.Read(name)
			if err != nil {
				logger.Fatalw("Failed to read migration", "migration", name, "error", err)
			}
			fmt.Printf("-- %s\n%s\n", name, stmt)
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	applied, err := migrations.Apply(ctx, db.DB, logger)
	if err != nil {
		logger.Fatalw("Failed to apply migrations", "error", err, "applied", applied)
	}
	logger.Infow("Migration completed successfully", "applied", applied)

	if *seed || cfg.Seed.DefaultTaxonomy {
		if err := seedDefaultTaxonomy(ctx, cfg, logger, db); err != nil {
			logger.Fatalw("Failed to seed default taxonomy", "error", err)
		}
	}

	fmt.Println("Migration process completed")
}

func seedDefaultTaxonomy(ctx context.Context, cfg *config.Configuration, logger *logger.Logger, db *postgres.DB) error {
	params := service.NewServiceParams(
		logger,
		cfg,
		postgres.NewClient(db),
		repository.NewGlobalStatusRepository(db, logger),
		repository.NewCommunicationTypeRepository(db, logger),
		repository.NewTypeStatusRepository(db, logger),
		repository.NewCommunicationRepository(db, logger),
		repository.NewStatusHistoryRepository(db, logger),
	)

	seeder := service.NewSeedService(
		params,
		service.NewCatalogService(params),
		service.NewTaxonomyService(params),
	)

	result, err := seeder.SeedDefaultTaxonomy(ctx)
	if err != nil {
		return err
	}

	logger.Infow("Seed completed",
		"statuses_created", result.StatusesCreated,
		"types_created", result.TypesCreated,
	)
	return nil
}
