package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/signal"
)

// SQLiteRecorder journals signals and orders to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			action      TEXT NOT NULL,
			price       REAL,
			probability REAL,
			correlation REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			order_id    TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			action      TEXT NOT NULL,
			quantity    INTEGER,
			limit_price REAL,
			take_profit REAL,
			stop_loss   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordSignal inserts one detected signal row.
func (r *SQLiteRecorder) RecordSignal(intent signal.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(
		`INSERT INTO signals (timestamp, symbol, action, price, probability, correlation)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		intent.Ts.Unix(), intent.Symbol, string(intent.Action), intent.Price, intent.Probability, intent.R,
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// RecordOrder inserts one submitted bracket row.
func (r *SQLiteRecorder) RecordOrder(order broker.Order, takeProfit, stopLoss float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(
		`INSERT INTO orders (timestamp, order_id, symbol, action, quantity, limit_price, take_profit, stop_loss)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.SubmittedAt.Unix(), order.ID, order.Symbol, string(order.Action), order.Quantity, order.LimitPrice, takeProfit, stopLoss,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Close()
}
