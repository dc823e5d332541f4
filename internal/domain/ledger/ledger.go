// Package ledger governs a sale record's lifecycle: pending sales move
// to the sold ledger on confirmation or disappear on deletion. Both
// transitions are terminal. The ledger operates on in-memory copies of
// the three collections; the caller persists them afterwards.
package ledger

import (
	"errors"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/fuzzy"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/reconciler"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// ErrNotFound reports an unknown sale id. The ledgers are left unchanged.
var ErrNotFound = errors.New("sale not found")

// Ledger holds the working copies of the pending ledger, the sold
// ledger and the inventory snapshot.
type Ledger struct {
	Pending   []sale.Record
	Sold      []sale.Record
	Inventory []card.Record

	nextID int64
}

// New builds a ledger over the given collections. New pending sale ids
// continue monotonically after the highest id seen in either ledger.
func New(pending, sold []sale.Record, inventory []card.Record) *Ledger {
	l := &Ledger{
		Pending:   pending,
		Sold:      sold,
		Inventory: inventory,
		nextID:    1,
	}
	for _, s := range pending {
		if s.ID >= l.nextID {
			l.nextID = s.ID + 1
		}
	}
	for _, s := range sold {
		if s.ID >= l.nextID {
			l.nextID = s.ID + 1
		}
	}
	return l
}

// Add assigns the next id to a new unconfirmed sale and appends it to
// the pending ledger.
func (l *Ledger) Add(s sale.Record) sale.Record {
	s.ID = l.nextID
	l.nextID++
	s.Confirmed = false
	if s.Qty <= 0 {
		s.Qty = 1
	}
	l.Pending = append(l.Pending, s)
	return s
}

// Confirm moves a pending sale to the sold ledger, computing profit
// from the per-unit sold price and cost. With updateInventory set and a
// matched record, the matched inventory item's quantity is decremented
// (floored at zero) and the item removed entirely once empty.
func (l *Ledger) Confirm(id int64, updateInventory bool) (sale.Record, error) {
	idx := l.findPending(id)
	if idx < 0 {
		return sale.Record{}, ErrNotFound
	}

	s := l.Pending[idx]
	l.Pending = append(l.Pending[:idx], l.Pending[idx+1:]...)

	s.Confirmed = true
	s.Profit = (s.SoldPrice - s.Cost) * float64(s.Qty)
	l.Sold = append(l.Sold, s)

	if updateInventory && s.Matched {
		l.decrementInventory(s)
	}

	return s, nil
}

// Delete discards a pending sale. Terminal: the record leaves no trace.
func (l *Ledger) Delete(id int64) error {
	idx := l.findPending(id)
	if idx < 0 {
		return ErrNotFound
	}
	l.Pending = append(l.Pending[:idx], l.Pending[idx+1:]...)
	return nil
}

// Update holds the mutable fields of a pending sale. Nil fields are
// left untouched.
type Update struct {
	Name      *string
	Qty       *int
	SoldPrice *float64
	Cost      *float64
	Platform  *sale.Platform
	SoldDate  *string
}

// UpdatePending overwrites the given fields on a pending record.
// Confirmed records are immutable and unreachable here.
func (l *Ledger) UpdatePending(id int64, u Update) (sale.Record, error) {
	idx := l.findPending(id)
	if idx < 0 {
		return sale.Record{}, ErrNotFound
	}

	s := &l.Pending[idx]
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Qty != nil {
		s.Qty = *u.Qty
	}
	if u.SoldPrice != nil {
		s.SoldPrice = *u.SoldPrice
	}
	if u.Cost != nil {
		s.Cost = *u.Cost
	}
	if u.Platform != nil {
		s.Platform = *u.Platform
	}
	if u.SoldDate != nil {
		s.SoldDate = *u.SoldDate
	}
	return *s, nil
}

// decrementInventory locates the sold item in the snapshot by fuzzy
// name and reduces its quantity by the sale's quantity.
func (l *Ledger) decrementInventory(s sale.Record) {
	bestIdx := -1
	bestScore := 0.0
	for i := range l.Inventory {
		if score := fuzzy.Similarity(s.Name, l.Inventory[i].Name); score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx < 0 || bestScore <= reconciler.ThresholdAutoMatch {
		return
	}

	item := &l.Inventory[bestIdx]
	item.Qty -= s.Qty
	if item.Qty <= 0 {
		l.Inventory = append(l.Inventory[:bestIdx], l.Inventory[bestIdx+1:]...)
	}
}

func (l *Ledger) findPending(id int64) int {
	for i := range l.Pending {
		if l.Pending[i].ID == id {
			return i
		}
	}
	return -1
}
