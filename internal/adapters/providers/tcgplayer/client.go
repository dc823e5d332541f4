package tcgplayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/eshaffer321/tcg-inventory-backend/internal/adapters/providers"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
)

// Client talks to the storefront scraper sidecar, which drives the
// actual browser automation against TCGplayer and reads the sale
// notification mailbox. It exposes the full-listing snapshot, product
// search and recent sale emails.
type Client struct {
	baseURL     string
	storeURL    string
	maxListings int
	maxEmails   int
	unreadOnly  bool
	httpClient  *http.Client
}

var (
	_ providers.InventoryProvider = (*Client)(nil)
	_ providers.ProductSearcher   = (*Client)(nil)
	_ providers.MessageSource     = (*Client)(nil)
)

// NewClient creates a scraper sidecar client. storeURL is the seller
// storefront page the sidecar scrapes for inventory.
func NewClient(baseURL, storeURL string, maxListings int) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		storeURL:    storeURL,
		maxListings: maxListings,
		maxEmails:   50,
		unreadOnly:  true,
		httpClient:  rc.StandardClient(),
	}
}

// WithMailbox overrides the sale-email fetch window.
func (c *Client) WithMailbox(maxEmails int, unreadOnly bool) *Client {
	if maxEmails > 0 {
		c.maxEmails = maxEmails
	}
	c.unreadOnly = unreadOnly
	return c
}

// Name implements providers.InventoryProvider.
func (c *Client) Name() string { return "tcgplayer" }

// FetchInventory returns the complete storefront listing snapshot.
func (c *Client) FetchInventory(ctx context.Context) ([]card.Record, error) {
	endpoint := fmt.Sprintf("%s/inventory?store=%s&max=%d",
		c.baseURL, url.QueryEscape(c.storeURL), c.maxListings)

	var payload struct {
		Status  string        `json:"status"`
		Message string        `json:"message"`
		Items   []card.Record `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("scraper returned status %q: %s", payload.Status, payload.Message)
	}

	return payload.Items, nil
}

// SearchProducts implements providers.ProductSearcher.
func (c *Client) SearchProducts(ctx context.Context, game, query string) ([]providers.ProductResult, error) {
	endpoint := fmt.Sprintf("%s/search-products?game=%s&q=%s",
		c.baseURL, url.QueryEscape(game), url.QueryEscape(query))

	var payload struct {
		Status  string                    `json:"status"`
		Message string                    `json:"message"`
		Results []providers.ProductResult `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("scraper returned status %q: %s", payload.Status, payload.Message)
	}

	return payload.Results, nil
}

// FetchNotifications implements providers.MessageSource. The sidecar
// reads the mailbox over IMAP and returns raw subject/body pairs.
func (c *Client) FetchNotifications(ctx context.Context) ([]providers.Notification, error) {
	endpoint := fmt.Sprintf("%s/sale-emails?max=%d&unread=%t",
		c.baseURL, c.maxEmails, c.unreadOnly)

	var payload struct {
		Status   string                   `json:"status"`
		Message  string                   `json:"message"`
		Messages []providers.Notification `json:"messages"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch sale emails: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("scraper returned status %q: %s", payload.Status, payload.Message)
	}

	return payload.Messages, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
