package cli

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/enrichment"
	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/notify"
	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers/tcgplayer"
	"github.com/eshaffer321/tcg-inventory-backend/internal/api"
	"github.com/eshaffer321/tcg-inventory-backend/internal/application/service"
	appsync "github.com/eshaffer321/tcg-inventory-backend/internal/application/sync"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/config"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Config  string
	Port    int
	Verbose bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.StringVar(&flags.Config, "config", "config.yaml", "Configuration file path")
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// RunServe runs the API server.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Scraper sidecar serves inventory fetches, product search and the
	// sale notification mailbox.
	scraper := tcgplayer.NewClient(cfg.Store.ScraperURL, cfg.Store.URL, cfg.Store.MaxListings).
		WithMailbox(cfg.Email.MaxEmails, cfg.Email.UnreadOnly)
	searchCache := tcgplayer.NewSearchCache(scraper)

	notifier := notify.NewDiscord(cfg.Notify.DiscordWebhook, logger)
	enricher := enrichment.NewClient(cfg.Enrichment, enrichment.NewFileCache(cfg.Enrichment.CachePath))
	orchestrator := appsync.NewOrchestrator(scraper, scraper, store, notifier, logger).
		WithEnricher(enricher)
	syncService := service.NewSyncService(cfg, orchestrator, logger)
	salesService := service.NewSalesService(store, logger)

	port := cfg.API.Port
	if flags.Port != 0 {
		port = flags.Port
	}
	apiCfg := api.Config{
		Port:           port,
		AllowedOrigins: cfg.API.AllowedOrigins,
	}

	server := api.NewServer(apiCfg, store, salesService, syncService, searchCache, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
