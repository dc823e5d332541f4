package dto

import (
	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// MessageResponse is a simple success message.
type MessageResponse struct {
	Message string `json:"message"`
}

// InventoryTotals summarizes the snapshot in dashboard terms: both
// sums are quantity-weighted, delta is ask minus market.
type InventoryTotals struct {
	Ask    float64 `json:"ask"`
	Market float64 `json:"market"`
	Delta  float64 `json:"delta"`
}

// InventoryResponse is the body for GET /api/inventory.
type InventoryResponse struct {
	Items  []card.Record   `json:"items"`
	Totals InventoryTotals `json:"totals"`
	Count  int             `json:"count"`
}

// SaleListResponse wraps either ledger.
type SaleListResponse struct {
	Sales []sale.Record `json:"sales"`
	Count int           `json:"count"`
}

// MatchResponse is the body for POST /api/pending-sales/match.
type MatchResponse struct {
	Sales      []sale.Record `json:"sales"`
	NewMatches int           `json:"new_matches"`
	Count      int           `json:"count"`
}

// AllocateResponse is the body for POST /api/orders/{orderID}/allocate.
type AllocateResponse struct {
	OrderID string        `json:"order_id"`
	Items   []sale.Record `json:"items"`
	Count   int           `json:"count"`
}

// SearchResponse is the body for GET /api/search-products.
type SearchResponse struct {
	Results []providers.ProductResult `json:"results"`
	Cached  bool                      `json:"cached"`
	Count   int                       `json:"count"`
}

// SyncRunListResponse wraps historical sync runs.
type SyncRunListResponse struct {
	Runs  []storage.SyncRun `json:"runs"`
	Count int               `json:"count"`
}

// StartSyncResponse is returned when a sync is started.
type StartSyncResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// SyncProgressResponse reports where a job currently is.
type SyncProgressResponse struct {
	CurrentPhase  string `json:"current_phase"`
	ItemsFound    int    `json:"items_found"`
	SalesDetected int    `json:"sales_detected"`
	LastUpdate    string `json:"last_update"`
}

// SyncResultResponse is the outcome of a completed job.
type SyncResultResponse struct {
	RunID         int64   `json:"run_id"`
	ItemsFound    int     `json:"items_found"`
	SalesDetected int     `json:"sales_detected"`
	PriceChanges  int     `json:"price_changes"`
	TotalValue    float64 `json:"total_value"`
}

// SyncJobResponse represents a sync job's status.
type SyncJobResponse struct {
	JobID       string               `json:"job_id"`
	Status      string               `json:"status"`
	DryRun      bool                 `json:"dry_run"`
	StartedAt   string               `json:"started_at"`
	CompletedAt *string              `json:"completed_at,omitempty"`
	Progress    SyncProgressResponse `json:"progress"`
	Result      *SyncResultResponse  `json:"result,omitempty"`
	Error       *string              `json:"error,omitempty"`
}

// SyncJobListResponse wraps sync jobs.
type SyncJobListResponse struct {
	Jobs  []SyncJobResponse `json:"jobs"`
	Count int               `json:"count"`
}
