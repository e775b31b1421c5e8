package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vidinfra/commtrack/internal/api"
	v1 "github.com/vidinfra/commtrack/internal/api/v1"
	"github.com/vidinfra/commtrack/internal/cache"
	"github.com/vidinfra/commtrack/internal/config"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
	"github.com/vidinfra/commtrack/internal/publisher"
	"github.com/vidinfra/commtrack/internal/pubsub"
	"github.com/vidinfra/commtrack/internal/pubsub/kafka"
	"github.com/vidinfra/commtrack/internal/pubsub/memory"
	pubsubRouter "github.com/vidinfra/commtrack/internal/pubsub/router"
	"github.com/vidinfra/commtrack/internal/repository"
	"github.com/vidinfra/commtrack/internal/sentry"
	"github.com/vidinfra/commtrack/internal/service"
	"github.com/vidinfra/commtrack/internal/types"
	"github.com/vidinfra/commtrack/internal/validator"
	"go.uber.org/fx"
)

func init() {
	time.Local = time.UTC
}

func main() {
	// local overrides for COMMTRACK_* variables
	_ = godotenv.Load()

	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Postgres
			postgres.NewDB,
			provideDBClient,

			// Repositories
			repository.NewGlobalStatusRepository,
			repository.NewCommunicationTypeRepository,
			repository.NewTypeStatusRepository,
			repository.NewCommunicationRepository,
			repository.NewStatusHistoryRepository,

			// PubSub
			providePubSub,
			provideDeduplicator,
			provideMessageRouter,
			publisher.NewEventPublisher,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCatalogService,
			service.NewMappingService,
			service.NewTransitionValidator,
			service.NewCommunicationService,
			service.NewLedgerService,
			service.NewTaxonomyService,
			service.NewSeedService,
			service.NewTransitionEventHandler,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			registerCloseHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideDBClient(db *postgres.DB, sentryService *sentry.Service, logger *logger.Logger) postgres.IClient {
	return postgres.NewSentryClient(postgres.NewClient(db), sentryService, logger)
}

func providePubSub(cfg *config.Configuration, logger *logger.Logger) (pubsub.PubSub, error) {
	switch cfg.Consumer.PubSub {
	case types.KafkaPubSub:
		return kafka.NewPubSub(cfg, logger)
	default:
		return memory.NewPubSub(logger), nil
	}
}

func provideDeduplicator(cfg *config.Configuration) *cache.Deduplicator {
	return cache.NewDeduplicator(cache.NewInMemoryCache(cfg.Consumer.DedupeTTL), cfg.Consumer.DedupeTTL)
}

func provideMessageRouter(
	cfg *config.Configuration,
	logger *logger.Logger,
	sentryService *sentry.Service,
	ps pubsub.PubSub,
) (*pubsubRouter.Router, error) {
	return pubsubRouter.NewRouter(cfg, logger, sentryService, pubsub.MessagePublisher(ps))
}

func provideHandlers(
	logger *logger.Logger,
	catalogService service.CatalogService,
	taxonomyService service.TaxonomyService,
	mappingService service.MappingService,
	communicationService service.CommunicationService,
	eventHandler service.TransitionEventHandler,
	eventPublisher publisher.EventPublisher,
) api.Handlers {
	return api.Handlers{
		Health:        v1.NewHealthHandler(logger),
		Status:        v1.NewStatusHandler(catalogService, logger),
		Type:          v1.NewTypeHandler(taxonomyService, mappingService, logger),
		Communication: v1.NewCommunicationHandler(communicationService, logger),
		Events:        v1.NewEventsHandler(eventHandler, eventPublisher, logger),
	}
}

func registerCloseHooks(lc fx.Lifecycle, db *postgres.DB, ps pubsub.PubSub, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing pubsub and database")
			if err := ps.Close(); err != nil {
				log.Errorw("failed to close pubsub", "error", err)
			}
			db.Close()
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	eventHandler service.TransitionEventHandler,
	seeder service.SeedService,
	ps pubsub.PubSub,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	if cfg.Seed.DefaultTaxonomy && mode != types.ModeConsumer {
		startSeeder(lc, seeder, log)
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, eventHandler, ps, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeConsumer:
		startMessageRouter(lc, router, eventHandler, ps, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startSeeder(lc fx.Lifecycle, seeder service.SeedService, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := seeder.SeedDefaultTaxonomy(ctx); err != nil {
				log.Errorw("failed to seed default taxonomy", "error", err)
				return err
			}
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	eventHandler service.TransitionEventHandler,
	subscriber pubsub.Subscriber,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	if !cfg.Consumer.Enabled {
		log.Info("transition event consumer is disabled")
		return
	}

	// Register handlers before starting the router
	eventHandler.RegisterHandler(router, subscriber)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting message router")
			go func() {
				if err := router.Run(context.Background()); err != nil {
					log.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping message router")
			return router.Close()
		},
	})
}
