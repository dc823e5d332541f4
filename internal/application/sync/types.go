package sync

import (
	"context"
	"log/slog"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/enrichment"
	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/diff"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/reconciler"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// Options holds sync configuration
type Options struct {
	DryRun  bool
	Verbose bool

	// ProgressCallback receives phase updates during the run.
	ProgressCallback ProgressCallback
}

// ProgressUpdate reports where a running sync currently is.
type ProgressUpdate struct {
	Phase         string
	ItemsFound    int
	SalesDetected int
}

// ProgressCallback receives progress updates from the orchestrator.
type ProgressCallback func(ProgressUpdate)

// Result holds the outcome of one snapshot cycle.
type Result struct {
	RunID         int64
	ItemsFound    int
	SalesDetected int
	PriceChanges  int
	TotalValue    float64
	DryRun        bool
}

// IngestResult holds the outcome of one sale-ingestion pass.
type IngestResult struct {
	NotificationsSeen int
	SalesAdded        int
	OrdersSkipped     int
}

// Notifier receives sync events. Implementations must be best-effort;
// the orchestrator never checks for delivery.
type Notifier interface {
	InventorySummary(ctx context.Context, totalValue float64, listings int)
	ItemSold(ctx context.Context, item card.Record)
	PriceChange(ctx context.Context, change diff.PriceChange)
}

// Enricher resolves card metadata for sales the reconciler could not
// fill from inventory.
type Enricher interface {
	Lookup(ctx context.Context, name, cardNumber string) (enrichment.CardInfo, error)
}

// Orchestrator runs snapshot cycles and sale ingestion.
type Orchestrator struct {
	provider providers.InventoryProvider
	source   providers.MessageSource
	storage  storage.Repository
	matcher  *reconciler.Reconciler
	notifier Notifier
	enricher Enricher
	logger   *slog.Logger
}

// NewOrchestrator creates a sync orchestrator. source and notifier may
// be nil; sale ingestion and notifications are skipped respectively.
func NewOrchestrator(
	provider providers.InventoryProvider,
	source providers.MessageSource,
	store storage.Repository,
	notifier Notifier,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		source:   source,
		storage:  store,
		matcher:  reconciler.New(reconciler.DefaultConfig()),
		notifier: notifier,
		logger:   logger,
	}
}

// WithEnricher attaches a metadata lookup used during sale ingestion.
func (o *Orchestrator) WithEnricher(e Enricher) *Orchestrator {
	o.enricher = e
	return o
}
