package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers/tcgplayer"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/diff"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/ledger"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// Run performs one snapshot cycle: fetch the storefront listing,
// normalize names, diff against the stored snapshot, replace the
// snapshot (unless dry-run), record the run, and send notifications.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	runID, err := o.storage.StartSyncRun(opts.DryRun)
	if err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}

	result, err := o.runCycle(ctx, runID, opts)
	if err != nil {
		if failErr := o.storage.FailSyncRun(runID, err.Error()); failErr != nil {
			o.logger.Error("failed to record sync failure", "run_id", runID, "error", failErr)
		}
		return nil, err
	}

	return result, nil
}

func (o *Orchestrator) runCycle(ctx context.Context, runID int64, opts Options) (*Result, error) {
	o.progress(opts, ProgressUpdate{Phase: "fetching_inventory"})

	current, err := o.provider.FetchInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	for i := range current {
		card.ApplyIdentity(&current[i])
	}

	o.logger.Info("fetched storefront snapshot", "items", len(current), "dry_run", opts.DryRun)
	o.progress(opts, ProgressUpdate{Phase: "diffing", ItemsFound: len(current)})

	prev, err := o.storage.GetInventory()
	if err != nil {
		return nil, fmt.Errorf("failed to load previous snapshot: %w", err)
	}

	changes := diff.Diff(prev, current)

	o.logger.Info("snapshot diff complete",
		"sales", len(changes.Sales),
		"price_changes", len(changes.PriceChanges),
		"total_value", changes.TotalValue,
	)

	if !opts.DryRun {
		o.progress(opts, ProgressUpdate{
			Phase:         "saving",
			ItemsFound:    len(current),
			SalesDetected: len(changes.Sales),
		})
		if err := o.storage.ReplaceInventory(current); err != nil {
			return nil, fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	if err := o.storage.CompleteSyncRun(runID, len(current), len(changes.Sales),
		len(changes.PriceChanges), changes.TotalValue); err != nil {
		o.logger.Error("failed to record sync completion", "run_id", runID, "error", err)
	}

	o.notify(ctx, opts, current, changes)

	return &Result{
		RunID:         runID,
		ItemsFound:    len(current),
		SalesDetected: len(changes.Sales),
		PriceChanges:  len(changes.PriceChanges),
		TotalValue:    changes.TotalValue,
		DryRun:        opts.DryRun,
	}, nil
}

func (o *Orchestrator) notify(ctx context.Context, opts Options, current []card.Record, changes diff.Result) {
	if o.notifier == nil || opts.DryRun {
		return
	}

	o.progress(opts, ProgressUpdate{
		Phase:         "notifying",
		ItemsFound:    len(current),
		SalesDetected: len(changes.Sales),
	})

	o.notifier.InventorySummary(ctx, changes.TotalValue, len(current))
	for _, sold := range changes.Sales {
		o.notifier.ItemSold(ctx, sold)
	}
	for _, change := range changes.PriceChanges {
		o.notifier.PriceChange(ctx, change)
	}
}

// IngestSales pulls sale notifications from the message source, parses
// them, drops orders already confirmed or already pending, reconciles
// the rest against the current snapshot and appends them to the
// pending ledger.
func (o *Orchestrator) IngestSales(ctx context.Context) (*IngestResult, error) {
	if o.source == nil {
		return nil, fmt.Errorf("no message source configured")
	}

	notifications, err := o.source.FetchNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	result := &IngestResult{NotificationsSeen: len(notifications)}
	if len(notifications) == 0 {
		return result, nil
	}

	inventory, err := o.storage.GetInventory()
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	pending, err := o.storage.GetPendingSales()
	if err != nil {
		return nil, fmt.Errorf("failed to load pending sales: %w", err)
	}
	sold, err := o.storage.GetSoldItems()
	if err != nil {
		return nil, fmt.Errorf("failed to load sold items: %w", err)
	}

	pendingOrders := make(map[string]bool)
	for _, s := range pending {
		if s.OrderID != "" {
			pendingOrders[s.OrderID] = true
		}
	}

	book := ledger.New(pending, sold, inventory)
	added := 0

	for _, n := range notifications {
		notice := tcgplayer.ParseNotification(n)
		if notice == nil {
			continue
		}

		orderID := ""
		if len(notice.Items) > 0 {
			orderID = notice.Items[0].OrderID
		}

		if orderID != "" {
			confirmed, err := o.storage.IsOrderConfirmed(orderID)
			if err != nil {
				return nil, fmt.Errorf("failed to check order %s: %w", orderID, err)
			}
			if confirmed || pendingOrders[orderID] {
				o.logger.Debug("skipping known order", "order_id", orderID)
				result.OrdersSkipped++
				continue
			}
			pendingOrders[orderID] = true
		}

		for _, item := range o.matcher.ReconcileAll(notice.Items, inventory) {
			o.enrichItem(ctx, &item)
			book.Add(item)
			added++
			o.logger.Info("recorded pending sale",
				"name", item.Name,
				"qty", item.Qty,
				"order_id", item.OrderID,
				"matched", item.Matched,
			)
		}
	}

	if added > 0 {
		if err := o.storage.SavePendingSales(book.Pending); err != nil {
			return nil, fmt.Errorf("failed to save pending sales: %w", err)
		}
	}

	result.SalesAdded = added
	return result, nil
}

// enrichItem fills metadata reconciliation left empty via the card
// lookup API. Lookup failures are logged and never block ingestion.
func (o *Orchestrator) enrichItem(ctx context.Context, item *sale.Record) {
	if o.enricher == nil {
		return
	}
	if item.Image != "" && item.SetName != "" {
		return
	}

	baseName := strings.TrimSuffix(item.Name, " #"+item.CardNumber)
	info, err := o.enricher.Lookup(ctx, baseName, item.CardNumber)
	if err != nil {
		o.logger.Debug("card lookup failed", "name", item.Name, "error", err)
		return
	}

	if item.Image == "" {
		item.Image = info.Image
	}
	if item.SetName == "" {
		item.SetName = info.SetName
	}
	if item.TCGProductID == "" {
		item.TCGProductID = info.ProductID
	}
}

func (o *Orchestrator) progress(opts Options, update ProgressUpdate) {
	if opts.ProgressCallback != nil {
		opts.ProgressCallback(update)
	}
}
