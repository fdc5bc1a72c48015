// Package sqlite persists the executed-order ledger and account settings.
// The order log is append-only: orders are inserted once and never updated.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"trading-dashboardv1/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger is a single-writer SQLite store for the order log. It implements
// model.OrderLedger and model.AccountStore over the same database file.
type Ledger struct {
	mu sync.Mutex
	db *sql.DB

	// Opening balance used for owners with no accounts row, in paise.
	defaultOpeningBalance int64
}

// Config configures the ledger store.
type Config struct {
	DBPath                string // path to SQLite database file, e.g. "data/orders.db"
	DefaultOpeningBalance int64  // paise
}

// New opens (or creates) the ledger database with WAL mode and schema.
func New(cfg Config) (*Ledger, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[ledger] opened order ledger at %s", cfg.DBPath)
	return &Ledger{db: db, defaultOpeningBalance: cfg.DefaultOpeningBalance}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id     TEXT    NOT NULL,
			instrument   TEXT    NOT NULL,
			side         TEXT    NOT NULL,
			qty          INTEGER NOT NULL,
			price        INTEGER NOT NULL,
			order_kind   TEXT    NOT NULL,
			product_kind TEXT    NOT NULL,
			created_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_orders_owner ON orders(owner_id);
		CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

		CREATE TABLE IF NOT EXISTS accounts (
			owner_id        TEXT PRIMARY KEY,
			opening_balance INTEGER NOT NULL
		);
	`)
	return err
}

// AppendOrder persists one order and returns it with the assigned id.
// The caller validates shape invariants before the order reaches here.
func (l *Ledger) AppendOrder(ctx context.Context, o model.Order) (model.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.db.ExecContext(ctx,
		`INSERT INTO orders (owner_id, instrument, side, qty, price, order_kind, product_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OwnerID, o.Instrument, string(o.Side), o.Qty, o.Price,
		string(o.OrderKind), string(o.ProductKind), o.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.Order{}, fmt.Errorf("%w: insert order: %v", model.ErrLedgerUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, fmt.Errorf("%w: last insert id: %v", model.ErrLedgerUnavailable, err)
	}
	o.ID = id
	return o, nil
}

// FetchOrders returns every order for one owner in insertion order. The
// aggregation engine makes no ordering assumption beyond using insertion
// order as the deterministic tie-break for recent activity.
func (l *Ledger) FetchOrders(ctx context.Context, ownerID string) ([]model.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, owner_id, instrument, side, qty, price, order_kind, product_kind, created_at
		 FROM orders WHERE owner_id = ? ORDER BY id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: query orders: %v", model.ErrLedgerUnavailable, err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var (
			o         model.Order
			side      string
			kind      string
			product   string
			createdAt string
		)
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.Instrument, &side, &o.Qty, &o.Price,
			&kind, &product, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan order: %v", model.ErrLedgerUnavailable, err)
		}
		o.Side = model.Side(side)
		o.OrderKind = model.OrderKind(kind)
		o.ProductKind = model.ProductKind(product)
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: parse order timestamp: %v", model.ErrLedgerUnavailable, err)
		}
		o.CreatedAt = ts
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate orders: %v", model.ErrLedgerUnavailable, err)
	}
	return orders, nil
}

// OpeningBalance returns the configured opening balance in paise, falling
// back to the default for owners with no accounts row.
func (l *Ledger) OpeningBalance(ctx context.Context, ownerID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var balance int64
	err := l.db.QueryRowContext(ctx,
		`SELECT opening_balance FROM accounts WHERE owner_id = ?`, ownerID).Scan(&balance)
	if err == sql.ErrNoRows {
		return l.defaultOpeningBalance, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: query account: %v", model.ErrLedgerUnavailable, err)
	}
	return balance, nil
}

// SetOpeningBalance upserts an owner's opening balance in paise.
func (l *Ledger) SetOpeningBalance(ctx context.Context, ownerID string, balance int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO accounts (owner_id, opening_balance) VALUES (?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET opening_balance = excluded.opening_balance`,
		ownerID, balance)
	if err != nil {
		return fmt.Errorf("%w: upsert account: %v", model.ErrLedgerUnavailable, err)
	}
	return nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
