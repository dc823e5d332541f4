// Package notify sends sync results to a Discord webhook. Delivery is
// best-effort: failures are logged and never abort the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/diff"
)

const (
	colorInfo = 3447003
	colorSold = 3066993
)

// Discord posts embed messages to a webhook URL. A Discord with an
// empty webhook URL silently drops everything, so callers never need
// to branch on whether notifications are configured.
type Discord struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDiscord creates a webhook notifier.
func NewDiscord(webhookURL string, logger *slog.Logger) *Discord {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil

	return &Discord{
		webhookURL: webhookURL,
		httpClient: rc.StandardClient(),
		logger:     logger,
	}
}

// InventorySummary announces the post-sync totals.
func (d *Discord) InventorySummary(ctx context.Context, totalValue float64, listings int) {
	d.send(ctx, "📦 INVENTORY SUMMARY",
		fmt.Sprintf("Total Inventory Value: $%.2f\nListings: %d", totalValue, listings),
		colorInfo)
}

// ItemSold announces one detected sale.
func (d *Discord) ItemSold(ctx context.Context, item card.Record) {
	d.send(ctx, "🧾 ITEM SOLD",
		fmt.Sprintf("%s\nQty: %d", item.Name, item.Qty),
		colorSold)
}

// PriceChange announces a relist price move.
func (d *Discord) PriceChange(ctx context.Context, change diff.PriceChange) {
	direction := "📉"
	if change.New > change.Old {
		direction = "📈"
	}
	d.send(ctx, direction+" PRICE CHANGE",
		fmt.Sprintf("%s\n$%.2f → $%.2f", change.Name, change.Old, change.New),
		colorInfo)
}

func (d *Discord) send(ctx context.Context, title, description string, color int) {
	if d.webhookURL == "" {
		return
	}

	payload := map[string]any{
		"embeds": []map[string]any{{
			"title":       title,
			"description": description,
			"color":       color,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Warn("failed to encode discord payload", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		d.logger.Warn("failed to build discord request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Warn("failed to send discord notification", "title", title, "error", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		d.logger.Warn("discord webhook rejected notification",
			"title", title, "status", resp.StatusCode)
	}
}
