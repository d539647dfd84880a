package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/adapters/chmetrics"
	"github.com/selivandex/finpulse/internal/adapters/config"
	"github.com/selivandex/finpulse/internal/adapters/database"
	"github.com/selivandex/finpulse/internal/adapters/reddit"
	"github.com/selivandex/finpulse/internal/adapters/telegram"
	"github.com/selivandex/finpulse/internal/analytics"
	"github.com/selivandex/finpulse/internal/catalog"
	"github.com/selivandex/finpulse/internal/ingest"
	"github.com/selivandex/finpulse/internal/links"
	"github.com/selivandex/finpulse/internal/posts"
	"github.com/selivandex/finpulse/internal/sentiment"
	"github.com/selivandex/finpulse/internal/server"
	"github.com/selivandex/finpulse/internal/tagger"
	"github.com/selivandex/finpulse/pkg/logger"
)

func main() {
	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("finpulse server starting",
		zap.Int("port", cfg.Server.Port),
	)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	telemetry, err := chmetrics.NewRecorder(&cfg.Metrics)
	if err != nil {
		logger.Warn("ingest telemetry unavailable", zap.Error(err))
	}
	defer telemetry.Close()

	// Core components
	postRepo := posts.NewRepository(db.DB())
	catalogRepo := catalog.NewRepository(db.DB())
	linkRepo := links.NewRepository(db.DB())
	engine := analytics.NewEngine(db.DB())
	analyzer := sentiment.NewAnalyzer()
	tg := tagger.New()
	hub := server.NewHub()

	ingestSvc := ingest.NewService(postRepo, catalogRepo, linkRepo, analyzer, tg, telemetry, hub)

	// Ingestion source
	var source ingest.Source
	if cfg.Reddit.Enabled {
		client := reddit.NewClient(&cfg.Reddit)
		source = client
		go ingestSvc.RunLoop(ctx, client, cfg.Reddit.FetchLimit, cfg.Reddit.FetchInterval)
	}

	// Market pulse digest
	notifier, err := telegram.NewNotifier(&cfg.Telegram)
	if err != nil {
		return fmt.Errorf("failed to initialize telegram notifier: %w", err)
	}
	go notifier.StartDigestLoop(ctx, engine)

	handler := server.NewHandler(
		cfg.Server.MaxPageSize,
		db,
		postRepo,
		catalogRepo,
		engine,
		ingestSvc,
		analyzer,
		tg,
		source,
		hub,
	)

	return server.New(&cfg.Server, handler).Run(ctx)
}
