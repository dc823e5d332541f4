package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/card"
	"github.com/eshaffer321/tcg-inventory-backend/internal/domain/sale"
)

// Storage provides SQLite database access for the inventory snapshot
// and the sale ledgers. It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// GetInventory returns the current snapshot, name-ascending.
func (s *Storage) GetInventory() ([]card.Record, error) {
	rows, err := s.db.Query(`
	SELECT name, base_name, card_number, display_name, price, market, qty,
	       cost, image, tcg_url, tcg_product_id, set_name
	FROM inventory ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []card.Record{}
	for rows.Next() {
		var r card.Record
		err := rows.Scan(&r.Name, &r.BaseName, &r.CardNumber, &r.DisplayName,
			&r.Price, &r.Market, &r.Qty, &r.Cost, &r.Image, &r.TCGURL,
			&r.TCGProductID, &r.SetName)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}

	return items, rows.Err()
}

// ReplaceInventory swaps the whole snapshot in one transaction.
func (s *Storage) ReplaceInventory(items []card.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM inventory`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear inventory: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO inventory
	(name, base_name, card_number, display_name, price, market, qty,
	 cost, image, tcg_url, tcg_product_id, set_name)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range items {
		_, err := stmt.Exec(r.Name, r.BaseName, r.CardNumber, r.DisplayName,
			r.Price, r.Market, r.Qty, r.Cost, r.Image, r.TCGURL,
			r.TCGProductID, r.SetName)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert inventory item %q: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// GetPendingSales returns the pending working set ordered by id.
func (s *Storage) GetPendingSales() ([]sale.Record, error) {
	return s.querySales(`
	SELECT id, name, qty, condition, sold_price, cost, platform, order_id,
	       order_total, sold_date, set_name, card_number, image,
	       tcg_product_id, market, matched, match_score, 0
	FROM pending_sales ORDER BY id ASC`, false)
}

// SavePendingSales replaces the pending working set as a whole unit.
func (s *Storage) SavePendingSales(sales []sale.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM pending_sales`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear pending sales: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO pending_sales
	(id, name, qty, condition, sold_price, cost, platform, order_id,
	 order_total, sold_date, set_name, card_number, image, tcg_product_id,
	 market, matched, match_score)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range sales {
		_, err := stmt.Exec(r.ID, r.Name, r.Qty, r.Condition, r.SoldPrice,
			r.Cost, string(r.Platform), r.OrderID, r.OrderTotal, r.SoldDate,
			r.SetName, r.CardNumber, r.Image, r.TCGProductID, r.Market,
			r.Matched, r.MatchScore)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert pending sale %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// GetSoldItems returns the sold ledger ordered by id.
func (s *Storage) GetSoldItems() ([]sale.Record, error) {
	return s.querySales(`
	SELECT id, name, qty, condition, sold_price, cost, platform, order_id,
	       order_total, sold_date, set_name, card_number, image,
	       tcg_product_id, market, matched, match_score, profit
	FROM sold_items ORDER BY id ASC`, true)
}

// AppendSoldItem appends one confirmed sale to the sold ledger.
func (s *Storage) AppendSoldItem(r sale.Record) error {
	_, err := s.db.Exec(`
	INSERT INTO sold_items
	(id, name, qty, condition, sold_price, cost, platform, order_id,
	 order_total, sold_date, set_name, card_number, image, tcg_product_id,
	 market, matched, match_score, profit)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Qty, r.Condition, r.SoldPrice, r.Cost,
		string(r.Platform), r.OrderID, r.OrderTotal, r.SoldDate, r.SetName,
		r.CardNumber, r.Image, r.TCGProductID, r.Market, r.Matched,
		r.MatchScore, r.Profit)
	return err
}

// IsOrderConfirmed reports whether an order id was already confirmed.
func (s *Storage) IsOrderConfirmed(orderID string) (bool, error) {
	if orderID == "" {
		return false, nil
	}

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM confirmed_orders WHERE order_id = ?`,
		orderID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkOrderConfirmed records an order id as confirmed.
func (s *Storage) MarkOrderConfirmed(orderID string) error {
	if orderID == "" {
		return nil
	}

	_, err := s.db.Exec(`INSERT OR IGNORE INTO confirmed_orders (order_id) VALUES (?)`,
		orderID)
	return err
}

// GetStats returns aggregate statistics across all collections.
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{PlatformStats: make(map[string]PlatformStats)}

	err := s.db.QueryRow(`
	SELECT COUNT(*),
	       COALESCE(SUM(price * qty), 0),
	       COALESCE(SUM(market * qty), 0)
	FROM inventory`).Scan(&stats.InventoryCount, &stats.TotalAsk, &stats.TotalMarket)
	if err != nil {
		return nil, err
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pending_sales`).Scan(&stats.PendingCount); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(`
	SELECT COUNT(*),
	       COALESCE(SUM(sold_price * qty), 0),
	       COALESCE(SUM(profit), 0)
	FROM sold_items`).Scan(&stats.SoldCount, &stats.TotalRevenue, &stats.TotalProfit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
	SELECT platform, COUNT(*),
	       COALESCE(SUM(sold_price * qty), 0),
	       COALESCE(SUM(profit), 0)
	FROM sold_items GROUP BY platform`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var platform string
		var ps PlatformStats
		if err := rows.Scan(&platform, &ps.Count, &ps.Revenue, &ps.Profit); err != nil {
			return nil, err
		}
		stats.PlatformStats[platform] = ps
	}

	return stats, rows.Err()
}

// StartSyncRun records the start of a sync run and returns the run ID.
func (s *Storage) StartSyncRun(dryRun bool) (int64, error) {
	result, err := s.db.Exec(`INSERT INTO sync_runs (dry_run, status) VALUES (?, ?)`,
		dryRun, RunStatusStarted)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CompleteSyncRun records the result of a finished sync run.
func (s *Storage) CompleteSyncRun(runID int64, itemsFound, salesDetected, priceChanges int, totalValue float64) error {
	_, err := s.db.Exec(`
	UPDATE sync_runs
	SET completed_at = CURRENT_TIMESTAMP, items_found = ?, sales_detected = ?,
	    price_changes = ?, total_value = ?, status = ?
	WHERE id = ?`,
		itemsFound, salesDetected, priceChanges, totalValue, RunStatusCompleted, runID)
	return err
}

// FailSyncRun marks a run as failed with an error message.
func (s *Storage) FailSyncRun(runID int64, errMessage string) error {
	_, err := s.db.Exec(`
	UPDATE sync_runs
	SET completed_at = CURRENT_TIMESTAMP, status = ?, error_message = ?
	WHERE id = ?`,
		RunStatusFailed, errMessage, runID)
	return err
}

// ListSyncRuns returns recent sync runs, newest first.
func (s *Storage) ListSyncRuns(limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
	SELECT id, started_at, COALESCE(completed_at, ''), dry_run, items_found,
	       sales_detected, price_changes, total_value, status,
	       COALESCE(error_message, '')
	FROM sync_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := []SyncRun{}
	for rows.Next() {
		var run SyncRun
		err := rows.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.DryRun,
			&run.ItemsFound, &run.SalesDetected, &run.PriceChanges,
			&run.TotalValue, &run.Status, &run.ErrorMessage)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetSyncRun retrieves a sync run by ID. Returns nil when not found.
func (s *Storage) GetSyncRun(runID int64) (*SyncRun, error) {
	var run SyncRun
	err := s.db.QueryRow(`
	SELECT id, started_at, COALESCE(completed_at, ''), dry_run, items_found,
	       sales_detected, price_changes, total_value, status,
	       COALESCE(error_message, '')
	FROM sync_runs WHERE id = ?`, runID).Scan(
		&run.ID, &run.StartedAt, &run.CompletedAt, &run.DryRun,
		&run.ItemsFound, &run.SalesDetected, &run.PriceChanges,
		&run.TotalValue, &run.Status, &run.ErrorMessage)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// querySales scans sale rows from either ledger. The pending query
// selects a constant 0 for profit to share one scan path.
func (s *Storage) querySales(query string, confirmed bool) ([]sale.Record, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	sales := []sale.Record{}
	for rows.Next() {
		var r sale.Record
		var platform string
		err := rows.Scan(&r.ID, &r.Name, &r.Qty, &r.Condition, &r.SoldPrice,
			&r.Cost, &platform, &r.OrderID, &r.OrderTotal, &r.SoldDate,
			&r.SetName, &r.CardNumber, &r.Image, &r.TCGProductID, &r.Market,
			&r.Matched, &r.MatchScore, &r.Profit)
		if err != nil {
			return nil, err
		}
		r.Platform = sale.ParsePlatform(platform)
		r.Confirmed = confirmed
		sales = append(sales, r)
	}

	return sales, rows.Err()
}
