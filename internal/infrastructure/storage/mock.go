package storage

import (
	"fmt"
	"sync"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// MockRepository is an in-memory implementation of Repository for
// testing. It stores all data in slices and maps, making tests fast
// and isolated.
type MockRepository struct {
	mu sync.Mutex

	inventory       []card.Record
	pending         []sale.Record
	sold            []sale.Record
	confirmedOrders map[string]bool
	syncRuns        map[int64]*SyncRun
	nextRunID       int64

	// Hooks for test assertions
	ReplaceInventoryCalled bool
	SavePendingCalled      bool
	AppendSoldCalled       bool

	// Error injection for testing error paths
	GetInventoryErr     error
	ReplaceInventoryErr error
	SavePendingErr      error
	AppendSoldErr       error
	StartSyncRunErr     error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		confirmedOrders: make(map[string]bool),
		syncRuns:        make(map[int64]*SyncRun),
		nextRunID:       1,
	}
}

func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) GetInventory() ([]card.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetInventoryErr != nil {
		return nil, m.GetInventoryErr
	}
	return append([]card.Record{}, m.inventory...), nil
}

func (m *MockRepository) ReplaceInventory(items []card.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceInventoryCalled = true
	if m.ReplaceInventoryErr != nil {
		return m.ReplaceInventoryErr
	}
	m.inventory = append([]card.Record{}, items...)
	return nil
}

func (m *MockRepository) GetPendingSales() ([]sale.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sale.Record{}, m.pending...), nil
}

func (m *MockRepository) SavePendingSales(sales []sale.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavePendingCalled = true
	if m.SavePendingErr != nil {
		return m.SavePendingErr
	}
	m.pending = append([]sale.Record{}, sales...)
	return nil
}

func (m *MockRepository) GetSoldItems() ([]sale.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sale.Record{}, m.sold...), nil
}

func (m *MockRepository) AppendSoldItem(s sale.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendSoldCalled = true
	if m.AppendSoldErr != nil {
		return m.AppendSoldErr
	}
	m.sold = append(m.sold, s)
	return nil
}

func (m *MockRepository) IsOrderConfirmed(orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmedOrders[orderID], nil
}

func (m *MockRepository) MarkOrderConfirmed(orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if orderID != "" {
		m.confirmedOrders[orderID] = true
	}
	return nil
}

func (m *MockRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &Stats{PlatformStats: make(map[string]PlatformStats)}
	stats.InventoryCount = len(m.inventory)
	for _, r := range m.inventory {
		stats.TotalAsk += r.Price * float64(r.Qty)
		stats.TotalMarket += r.Market * float64(r.Qty)
	}
	stats.PendingCount = len(m.pending)
	stats.SoldCount = len(m.sold)
	for _, s := range m.sold {
		stats.TotalRevenue += s.SoldPrice * float64(s.Qty)
		stats.TotalProfit += s.Profit

		ps := stats.PlatformStats[string(s.Platform)]
		ps.Count++
		ps.Revenue += s.SoldPrice * float64(s.Qty)
		ps.Profit += s.Profit
		stats.PlatformStats[string(s.Platform)] = ps
	}
	return stats, nil
}

func (m *MockRepository) StartSyncRun(dryRun bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartSyncRunErr != nil {
		return 0, m.StartSyncRunErr
	}

	id := m.nextRunID
	m.nextRunID++
	m.syncRuns[id] = &SyncRun{ID: id, DryRun: dryRun, Status: RunStatusStarted}
	return id, nil
}

func (m *MockRepository) CompleteSyncRun(runID int64, itemsFound, salesDetected, priceChanges int, totalValue float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.syncRuns[runID]
	if !ok {
		return fmt.Errorf("sync run %d not found", runID)
	}
	run.ItemsFound = itemsFound
	run.SalesDetected = salesDetected
	run.PriceChanges = priceChanges
	run.TotalValue = totalValue
	run.Status = RunStatusCompleted
	return nil
}

func (m *MockRepository) FailSyncRun(runID int64, errMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.syncRuns[runID]
	if !ok {
		return fmt.Errorf("sync run %d not found", runID)
	}
	run.Status = RunStatusFailed
	run.ErrorMessage = errMessage
	return nil
}

func (m *MockRepository) ListSyncRuns(limit int) ([]SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}

	runs := []SyncRun{}
	for id := m.nextRunID - 1; id >= 1 && len(runs) < limit; id-- {
		if run, ok := m.syncRuns[id]; ok {
			runs = append(runs, *run)
		}
	}
	return runs, nil
}

func (m *MockRepository) GetSyncRun(runID int64) (*SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.syncRuns[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}
