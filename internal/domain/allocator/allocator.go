// Package allocator distributes a multi-item order's charged total
// across its constituent sale records.
//
// When market prices are known the split is proportional:
//
//	sold_price = round(order_total * item_market / sum(markets), 2)
//
// When no item carries market data the total is split equally. Each
// per-item price is rounded independently, so the allocated sum may
// drift from the order total by up to a cent per item; that drift is
// accepted, not corrected, to keep re-allocation idempotent.
package allocator

import (
	"errors"
	"math"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

var (
	// ErrNoItems is returned when there is nothing to allocate to.
	ErrNoItems = errors.New("no order items to allocate")

	// ErrNoOrderTotal is returned when the order total is missing or
	// non-positive; allocation performs no partial mutation in that case.
	ErrNoOrderTotal = errors.New("order total must be positive")
)

// Allocate returns a copy of items with SoldPrice set for every record.
// All items are expected to share one order id; the function does not
// re-check that precondition.
func Allocate(items []sale.Record, orderTotal float64) ([]sale.Record, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if orderTotal <= 0 {
		return nil, ErrNoOrderTotal
	}

	var marketSum float64
	for _, item := range items {
		marketSum += item.Market
	}

	allocated := make([]sale.Record, len(items))
	copy(allocated, items)

	if marketSum == 0 {
		// No market data anywhere in the order: split equally.
		share := roundToCents(orderTotal / float64(len(items)))
		for i := range allocated {
			allocated[i].SoldPrice = share
		}
		return allocated, nil
	}

	for i := range allocated {
		allocated[i].SoldPrice = roundToCents(orderTotal * allocated[i].Market / marketSum)
	}

	return allocated, nil
}

func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
