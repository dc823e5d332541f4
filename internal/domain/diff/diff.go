// Package diff compares two inventory snapshots and classifies what
// changed between scrape cycles.
//
// An item present in the previous snapshot but missing from the current
// one is reported as sold; there is no way to distinguish a sale from a
// de-listing, so callers treat the event as "gone from the storefront".
// An item present in both with a different ask price is reported as a
// price change. Market price movements do not generate events.
package diff

import "github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"

// PriceChange records an ask-price move for one item.
type PriceChange struct {
	Name string  `json:"name"`
	Old  float64 `json:"old"`
	New  float64 `json:"new"`
}

// Result holds the classified changes between two snapshots.
// Sales and PriceChanges carry no ordering guarantee.
type Result struct {
	Sales        []card.Record `json:"sales"`
	PriceChanges []PriceChange `json:"price_changes"`
	// TotalValue sums the ask price over the current snapshot without
	// weighting by quantity. The dashboard totals do weight by quantity;
	// the two call sites intentionally keep their own semantics.
	TotalValue float64 `json:"total_value"`
}

// Diff compares the previous and current snapshots by item name.
// It is pure and synchronous. Duplicate names within one snapshot are
// last-write-wins; callers are responsible for not feeding duplicates.
func Diff(prev, current []card.Record) Result {
	result := Result{
		Sales:        []card.Record{},
		PriceChanges: []PriceChange{},
	}

	prevMap := make(map[string]card.Record, len(prev))
	for _, item := range prev {
		prevMap[item.Name] = item
	}

	currentMap := make(map[string]card.Record, len(current))
	for _, item := range current {
		currentMap[item.Name] = item
		result.TotalValue += item.Price
	}

	for name, old := range prevMap {
		if _, ok := currentMap[name]; !ok {
			result.Sales = append(result.Sales, old)
		}
	}

	for name, item := range currentMap {
		if old, ok := prevMap[name]; ok && old.Price != item.Price {
			result.PriceChanges = append(result.PriceChanges, PriceChange{
				Name: name,
				Old:  old.Price,
				New:  item.Price,
			})
		}
	}

	return result
}
