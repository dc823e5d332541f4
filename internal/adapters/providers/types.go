package providers

import (
	"context"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
)

// Notification is one message pulled from a sale-notification mailbox.
// The IMAP transport lives outside this repo; it hands us decoded
// subject, body and date strings.
type Notification struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Date    string `json:"date"`
}

// InventoryProvider produces a full storefront snapshot.
type InventoryProvider interface {
	// Name identifies the provider ("tcgplayer", etc.)
	Name() string

	// FetchInventory returns every active listing. The result is a
	// complete snapshot, not a delta.
	FetchInventory(ctx context.Context) ([]card.Record, error)
}

// MessageSource yields sale notifications from a mailbox or feed.
type MessageSource interface {
	Name() string
	FetchNotifications(ctx context.Context) ([]Notification, error)
}

// ProductResult is a single hit from a storefront product search.
type ProductResult struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	FullName  string  `json:"fullName"`
	Number    string  `json:"number"`
	SetName   string  `json:"setName"`
	Image     string  `json:"image"`
	URL       string  `json:"url"`
	Market    float64 `json:"market"`
	Lowest    float64 `json:"lowest"`
}

// ProductSearcher looks up storefront products by free-text query.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, game, query string) ([]ProductResult, error)
}
