package storage

// SyncRun represents one scrape cycle.
type SyncRun struct {
	ID            int64   `json:"id"`
	StartedAt     string  `json:"started_at"`
	CompletedAt   string  `json:"completed_at,omitempty"`
	DryRun        bool    `json:"dry_run"`
	ItemsFound    int     `json:"items_found"`
	SalesDetected int     `json:"sales_detected"`
	PriceChanges  int     `json:"price_changes"`
	TotalValue    float64 `json:"total_value"`
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message,omitempty"`
}

// Sync run status values.
const (
	RunStatusStarted   = "started"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Stats contains aggregate statistics for the dashboard.
// TotalAsk and TotalMarket are quantity-weighted; the differ's
// total_value deliberately is not.
type Stats struct {
	InventoryCount int                      `json:"inventory_count"`
	TotalAsk       float64                  `json:"total_ask"`
	TotalMarket    float64                  `json:"total_market"`
	PendingCount   int                      `json:"pending_count"`
	SoldCount      int                      `json:"sold_count"`
	TotalRevenue   float64                  `json:"total_revenue"`
	TotalProfit    float64                  `json:"total_profit"`
	PlatformStats  map[string]PlatformStats `json:"platform_stats"`
}

// PlatformStats contains per-platform sold-ledger statistics.
type PlatformStats struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}
