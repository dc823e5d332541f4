package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/enrichment"
	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/notify"
	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers/tcgplayer"
	appsync "github.com/eshaffer321/tcg-inventory-backend/internal/application/sync"
	"github.com/eshaffer321/tcg-inventory-backend/internal/cli"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/config"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

func main() {
	_ = godotenv.Load()

	flags := cli.ParseSyncFlags()
	cfg := config.LoadOrEnvWithPath(flags.Config)

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "sync")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	scraper := tcgplayer.NewClient(cfg.Store.ScraperURL, cfg.Store.URL, cfg.Store.MaxListings).
		WithMailbox(cfg.Email.MaxEmails, cfg.Email.UnreadOnly)
	notifier := notify.NewDiscord(cfg.Notify.DiscordWebhook, logger)
	enricher := enrichment.NewClient(cfg.Enrichment, enrichment.NewFileCache(cfg.Enrichment.CachePath))

	orchestrator := appsync.NewOrchestrator(scraper, scraper, store, notifier, logger).
		WithEnricher(enricher)

	cli.PrintHeader(cfg.Store.URL, flags.DryRun)

	ctx := context.Background()
	result, err := orchestrator.Run(ctx, flags.ToSyncOptions())
	if err != nil {
		logger.Error("sync failed", slog.Any("error", err))
		os.Exit(1)
	}

	if !flags.SkipSales {
		ingest, err := orchestrator.IngestSales(ctx)
		if err != nil {
			logger.Error("sale ingestion failed", slog.Any("error", err))
		} else {
			cli.PrintIngestSummary(ingest)
		}
	}

	cli.PrintSyncSummary(result, store, flags.DryRun)
}
