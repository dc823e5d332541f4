package cli

import (
	"fmt"
	"strings"

	"github.com/eshaffer321/tcg-inventory-backend/internal/application/sync"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// PrintHeader prints the application header
func PrintHeader(storeURL string, dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Printf("tcg-sync: %s (%s mode)\n", storeURL, mode)
}

// PrintSyncSummary prints the sync result summary
func PrintSyncSummary(result *sync.Result, store storage.Repository, dryRun bool) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Items=%d Sales=%d PriceChanges=%d Value=$%.2f\n",
		result.ItemsFound,
		result.SalesDetected,
		result.PriceChanges,
		result.TotalValue)

	if store != nil {
		stats, _ := store.GetStats()
		if stats != nil && stats.SoldCount > 0 {
			fmt.Printf("\nAll-Time Stats: Sold=%d Revenue=$%.2f Profit=$%.2f\n",
				stats.SoldCount,
				stats.TotalRevenue,
				stats.TotalProfit)
		}
	}

	if !dryRun {
		fmt.Println("\nSync completed successfully.")
	}
}

// PrintIngestSummary prints the sale ingestion summary
func PrintIngestSummary(result *sync.IngestResult) {
	fmt.Printf("Emails: Seen=%d SalesAdded=%d OrdersSkipped=%d\n",
		result.NotificationsSeen,
		result.SalesAdded,
		result.OrdersSkipped)
}
