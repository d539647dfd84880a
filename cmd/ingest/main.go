// Command ingest runs one fetch-and-ingest batch from the configured source
// and exits. Useful for cron-driven ingestion without the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/adapters/chmetrics"
	"github.com/selivandex/finpulse/internal/adapters/config"
	"github.com/selivandex/finpulse/internal/adapters/database"
	"github.com/selivandex/finpulse/internal/adapters/reddit"
	"github.com/selivandex/finpulse/internal/catalog"
	"github.com/selivandex/finpulse/internal/ingest"
	"github.com/selivandex/finpulse/internal/links"
	"github.com/selivandex/finpulse/internal/posts"
	"github.com/selivandex/finpulse/internal/sentiment"
	"github.com/selivandex/finpulse/internal/tagger"
	"github.com/selivandex/finpulse/pkg/logger"
)

func main() {
	limit := flag.Int("limit", 0, "posts to fetch (0 uses the configured limit)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, limit int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if limit <= 0 {
		limit = cfg.Reddit.FetchLimit
	}

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

	svc := ingest.NewService(
		posts.NewRepository(db.DB()),
		catalog.NewRepository(db.DB()),
		links.NewRepository(db.DB()),
		sentiment.NewAnalyzer(),
		tagger.New(),
		telemetry,
		nil,
	)

	saved, err := svc.FetchAndIngest(ctx, reddit.NewClient(&cfg.Reddit), limit)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	logger.Info("ingest finished", zap.Int("saved", len(saved)))

	return nil
}
