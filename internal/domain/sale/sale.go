// Package sale defines the canonical sale record shape shared by the
// email parser, the reconciler, the allocator and the confirmation ledger.
package sale

// Platform identifies where a sale happened.
type Platform string

const (
	PlatformTCGPlayer Platform = "TCGPlayer"
	PlatformEBay      Platform = "eBay"
	PlatformUnknown   Platform = "Unknown"
)

// ParsePlatform maps free-form platform text onto the known enum,
// defaulting to Unknown.
func ParsePlatform(s string) Platform {
	switch s {
	case string(PlatformTCGPlayer), "tcgplayer", "TCGplayer":
		return PlatformTCGPlayer
	case string(PlatformEBay), "ebay", "Ebay":
		return PlatformEBay
	default:
		return PlatformUnknown
	}
}

// Record is a sale in the pending or sold ledger. SoldPrice and Cost are
// per-unit amounts. Records sharing an OrderID belong to one order and
// share its OrderTotal. All enrichment fields are optional: the record
// must stay usable when reconciliation never found a match.
type Record struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Qty          int      `json:"qty"`
	Condition    string   `json:"condition,omitempty"`
	SoldPrice    float64  `json:"sold_price"`
	Cost         float64  `json:"cost,omitempty"`
	Platform     Platform `json:"platform"`
	OrderID      string   `json:"order_id,omitempty"`
	OrderTotal   float64  `json:"order_total,omitempty"`
	SoldDate     string   `json:"sold_date,omitempty"`
	SetName      string   `json:"set_name,omitempty"`
	CardNumber   string   `json:"card_number,omitempty"`
	Image        string   `json:"image,omitempty"`
	TCGProductID string   `json:"tcg_product_id,omitempty"`
	Market       float64  `json:"market,omitempty"`
	Matched      bool     `json:"matched"`
	MatchScore   float64  `json:"match_score,omitempty"`
	Confirmed    bool     `json:"confirmed"`
	Profit       float64  `json:"profit,omitempty"`
}
