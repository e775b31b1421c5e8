package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vidinfra/commtrack/internal/api/dto"
	"github.com/vidinfra/commtrack/internal/config"
	"github.com/vidinfra/commtrack/internal/logger"
	"github.com/vidinfra/commtrack/internal/postgres"
	"github.com/vidinfra/commtrack/internal/publisher"
	"github.com/vidinfra/commtrack/internal/pubsub/kafka"
	"github.com/vidinfra/commtrack/internal/replay"
	"github.com/vidinfra/commtrack/internal/repository"
	"github.com/vidinfra/commtrack/internal/sentry"
	"github.com/vidinfra/commtrack/internal/service"
	"github.com/vidinfra/commtrack/internal/types"
)

// replay feeds a file of JSON-lines transition events into the engine, either
// through the consumer topic or directly against the store
func main() {
	file := flag.String("file", "-", "Event file, one JSON transition event per line; - reads stdin")
	direct := flag.Bool("direct", false, "Apply events against postgres instead of publishing them")
	ratePerSecond := flag.Float64("rate", 100, "Maximum events per second, 0 for unlimited")
	workers := flag.Int("workers", 4, "Concurrent deliveries")
	continueOnError := flag.Bool("continue-on-error", false, "Keep going after a failed event")
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

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Fatalw("Failed to open event file", "file", *file, "error", err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = types.SetUserID(ctx, "replay")

	if !*direct && cfg.Consumer.PubSub != types.KafkaPubSub {
		logger.Warnw("in-memory pubsub cannot reach a running consumer, applying events directly",
			"pubsub", cfg.Consumer.PubSub,
		)
		*direct = true
	}

	var (
		sink    replay.Sink
		cleanup func()
	)
	if *direct {
		sink, cleanup = directSink(cfg, logger)
	} else {
		sink, cleanup = publishSink(cfg, logger)
	}
	defer cleanup()

	replayer := replay.NewReplayer(sink, replay.Options{
		RatePerSecond:   *ratePerSecond,
		Workers:         *workers,
		ContinueOnError: *continueOnError,
	}, logger)

	logger.Infow("Starting replay",
		"file", *file,
		"direct", *direct,
		"rate", *ratePerSecond,
		"workers", *workers,
	)
	result, err := replayer.Run(ctx, in)
	if result != nil {
		logger.Infow("Replay finished",
			"read", result.Read,
			"delivered", result.Delivered,
			"malformed", result.Malformed,
			"failed", result.Failed,
			"duration", result.Duration,
		)
	}
	if err != nil {
		logger.Fatalw("Replay failed", "error", err)
	}

	fmt.Println("Replay completed")
}

func publishSink(cfg *config.Configuration, logger *logger.Logger) (replay.Sink, func()) {
	ps, err := kafka.NewPubSub(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to kafka", "error", err)
	}
	eventPublisher := publisher.NewEventPublisher(cfg, ps, logger)

	sink := func(ctx context.Context, event *dto.TransitionEvent) error {
		_, err := eventPublisher.Publish(ctx, event)
		return err
	}
	return sink, func() { _ = ps.Close() }
}

func directSink(cfg *config.Configuration, logger *logger.Logger) (replay.Sink, func()) {
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}

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
	communications := service.NewCommunicationService(params, service.NewTransitionValidator(params))
	handler := service.NewTransitionEventHandler(params, communications, sentry.NewSentryService(cfg, logger), nil)

	return handler.HandleTransitionEvent, db.Close
}
