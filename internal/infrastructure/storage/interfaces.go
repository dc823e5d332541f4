package storage

import (
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	InventoryRepository
	SaleRepository
	SyncRunRepository
	Close() error
}

// InventoryRepository persists the current inventory snapshot.
// The snapshot is replaced wholesale each scrape cycle, never merged.
type InventoryRepository interface {
	// GetInventory returns the current snapshot ordered by name, giving
	// reconciliation a stable iteration order.
	GetInventory() ([]card.Record, error)

	// ReplaceInventory swaps the whole snapshot in one transaction.
	ReplaceInventory(items []card.Record) error
}

// SaleRepository persists the pending working set and the sold ledger.
type SaleRepository interface {
	// GetPendingSales returns the pending working set ordered by id.
	GetPendingSales() ([]sale.Record, error)

	// SavePendingSales replaces the pending working set as a whole unit.
	SavePendingSales(sales []sale.Record) error

	// GetSoldItems returns the append-only sold ledger ordered by id.
	GetSoldItems() ([]sale.Record, error)

	// AppendSoldItem appends one confirmed sale to the sold ledger.
	AppendSoldItem(s sale.Record) error

	// IsOrderConfirmed reports whether an order id was already confirmed,
	// so re-parsed notifications are not re-ingested.
	IsOrderConfirmed(orderID string) (bool, error)

	// MarkOrderConfirmed records an order id as confirmed.
	MarkOrderConfirmed(orderID string) error

	// GetStats returns aggregate statistics across all collections.
	GetStats() (*Stats, error)
}

// SyncRunRepository tracks scrape cycles.
type SyncRunRepository interface {
	// StartSyncRun records the start of a sync run and returns the run ID.
	StartSyncRun(dryRun bool) (int64, error)

	// CompleteSyncRun records the result of a finished sync run.
	CompleteSyncRun(runID int64, itemsFound, salesDetected, priceChanges int, totalValue float64) error

	// FailSyncRun marks a run as failed with an error message.
	FailSyncRun(runID int64, errMessage string) error

	// ListSyncRuns returns recent sync runs, newest first.
	ListSyncRuns(limit int) ([]SyncRun, error)

	// GetSyncRun retrieves a sync run by ID.
	GetSyncRun(runID int64) (*SyncRun, error)
}
