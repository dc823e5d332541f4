package service

import (
	"fmt"
	"log/slog"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/allocator"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/ledger"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/reconciler"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
	"github.com/eshaffer321/tcg-inventory-backend/internal/infrastructure/storage"
)

// SalesService owns the pending and sold ledgers: manual entry,
// edits, matching, order allocation and confirmation.
type SalesService struct {
	storage storage.Repository
	matcher *reconciler.Reconciler
	logger  *slog.Logger
}

// NewSalesService creates a sales service.
func NewSalesService(store storage.Repository, logger *slog.Logger) *SalesService {
	return &SalesService{
		storage: store,
		matcher: reconciler.New(reconciler.DefaultConfig()),
		logger:  logger,
	}
}

// ListPending returns the pending ledger.
func (s *SalesService) ListPending() ([]sale.Record, error) {
	return s.storage.GetPendingSales()
}

// ListSold returns the sold ledger.
func (s *SalesService) ListSold() ([]sale.Record, error) {
	return s.storage.GetSoldItems()
}

// Inventory returns the current snapshot.
func (s *SalesService) Inventory() ([]card.Record, error) {
	return s.storage.GetInventory()
}

// AddPending records a manually entered sale. The record is reconciled
// against the current snapshot before it is stored.
func (s *SalesService) AddPending(rec sale.Record) (sale.Record, error) {
	book, inventory, err := s.loadLedger()
	if err != nil {
		return sale.Record{}, err
	}

	rec = s.matcher.Reconcile(rec, inventory)
	added := book.Add(rec)

	if err := s.storage.SavePendingSales(book.Pending); err != nil {
		return sale.Record{}, fmt.Errorf("failed to save pending sales: %w", err)
	}

	s.logger.Info("added pending sale",
		"id", added.ID, "name", added.Name, "matched", added.Matched)
	return added, nil
}

// UpdatePending applies field edits to a pending sale.
func (s *SalesService) UpdatePending(id int64, update ledger.Update) (sale.Record, error) {
	book, _, err := s.loadLedger()
	if err != nil {
		return sale.Record{}, err
	}

	updated, err := book.UpdatePending(id, update)
	if err != nil {
		return sale.Record{}, err
	}

	if err := s.storage.SavePendingSales(book.Pending); err != nil {
		return sale.Record{}, fmt.Errorf("failed to save pending sales: %w", err)
	}
	return updated, nil
}

// DeletePending removes a pending sale without confirming it.
func (s *SalesService) DeletePending(id int64) error {
	book, _, err := s.loadLedger()
	if err != nil {
		return err
	}

	if err := book.Delete(id); err != nil {
		return err
	}

	if err := s.storage.SavePendingSales(book.Pending); err != nil {
		return fmt.Errorf("failed to save pending sales: %w", err)
	}

	s.logger.Info("deleted pending sale", "id", id)
	return nil
}

// Confirm moves a pending sale to the sold ledger. When
// updateInventory is set and the record is matched, the matched
// inventory quantity is decremented (and the listing removed at zero).
func (s *SalesService) Confirm(id int64, updateInventory bool) (sale.Record, error) {
	book, _, err := s.loadLedger()
	if err != nil {
		return sale.Record{}, err
	}

	confirmed, err := book.Confirm(id, updateInventory)
	if err != nil {
		return sale.Record{}, err
	}

	if err := s.storage.SavePendingSales(book.Pending); err != nil {
		return sale.Record{}, fmt.Errorf("failed to save pending sales: %w", err)
	}
	if err := s.storage.AppendSoldItem(confirmed); err != nil {
		return sale.Record{}, fmt.Errorf("failed to append sold item: %w", err)
	}
	if updateInventory {
		if err := s.storage.ReplaceInventory(book.Inventory); err != nil {
			return sale.Record{}, fmt.Errorf("failed to update inventory: %w", err)
		}
	}
	if err := s.storage.MarkOrderConfirmed(confirmed.OrderID); err != nil {
		return sale.Record{}, fmt.Errorf("failed to mark order confirmed: %w", err)
	}

	s.logger.Info("confirmed sale",
		"id", confirmed.ID,
		"name", confirmed.Name,
		"profit", confirmed.Profit,
		"update_inventory", updateInventory,
	)
	return confirmed, nil
}

// MatchAll re-runs reconciliation over the whole pending ledger,
// skipping records already matched. Returns the refreshed ledger and
// how many records gained a match.
func (s *SalesService) MatchAll() ([]sale.Record, int, error) {
	pending, err := s.storage.GetPendingSales()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load pending sales: %w", err)
	}
	inventory, err := s.storage.GetInventory()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load inventory: %w", err)
	}

	matched := s.matcher.ReconcileAll(pending, inventory)

	newMatches := 0
	for i := range matched {
		if matched[i].Matched && !pending[i].Matched {
			newMatches++
		}
	}

	if err := s.storage.SavePendingSales(matched); err != nil {
		return nil, 0, fmt.Errorf("failed to save pending sales: %w", err)
	}

	s.logger.Info("batch match complete", "pending", len(matched), "new_matches", newMatches)
	return matched, newMatches, nil
}

// AllocateOrder distributes an order's total across its pending items
// in proportion to market value, or equally when no market data
// exists. The allocated per-unit prices are written back to the
// pending ledger.
func (s *SalesService) AllocateOrder(orderID string) ([]sale.Record, error) {
	pending, err := s.storage.GetPendingSales()
	if err != nil {
		return nil, fmt.Errorf("failed to load pending sales: %w", err)
	}

	var group []sale.Record
	orderTotal := 0.0
	for _, rec := range pending {
		if rec.OrderID == orderID {
			group = append(group, rec)
			if rec.OrderTotal > 0 {
				orderTotal = rec.OrderTotal
			}
		}
	}

	if len(group) == 0 {
		return nil, fmt.Errorf("order %s: %w", orderID, ledger.ErrNotFound)
	}

	allocated, err := allocator.Allocate(group, orderTotal)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]sale.Record, len(allocated))
	for _, rec := range allocated {
		byID[rec.ID] = rec
	}
	for i := range pending {
		if rec, ok := byID[pending[i].ID]; ok {
			pending[i].SoldPrice = rec.SoldPrice
		}
	}

	if err := s.storage.SavePendingSales(pending); err != nil {
		return nil, fmt.Errorf("failed to save pending sales: %w", err)
	}

	s.logger.Info("allocated order total",
		"order_id", orderID, "items", len(allocated), "total", orderTotal)
	return allocated, nil
}

// loadLedger assembles an in-memory ledger from storage.
func (s *SalesService) loadLedger() (*ledger.Ledger, []card.Record, error) {
	inventory, err := s.storage.GetInventory()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	pending, err := s.storage.GetPendingSales()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load pending sales: %w", err)
	}
	sold, err := s.storage.GetSoldItems()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sold items: %w", err)
	}

	return ledger.New(pending, sold, inventory), inventory, nil
}
