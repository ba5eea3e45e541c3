// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tablepay/internal/models"
	"github.com/mmynk/tablepay/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps PRAGMAs in effect and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTable persists a new dining table.
func (s *SQLiteStore) CreateTable(ctx context.Context, table *models.Table) error {
	if table.ID == "" {
		table.ID = uuid.New().String()
	}
	if table.CreatedAt == 0 {
		table.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO dining_tables (id, number, created_at) VALUES (?, ?, ?)",
		table.ID, table.Number, table.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}
	return nil
}

// GetTable retrieves a dining table by ID.
func (s *SQLiteStore) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	table := &models.Table{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, number, created_at FROM dining_tables WHERE id = ?",
		tableID,
	).Scan(&table.ID, &table.Number, &table.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("table %s: %w", tableID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

// CreateOrder persists a new order and its items.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, table_id, client_id, session_token, client_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.TableID, nullString(order.ClientID), nullString(order.SessionToken),
		order.ClientName, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, product_id, product_name, quantity, paid_quantity, unit_price)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID, i, item.ProductID, item.ProductName,
			item.Quantity.String(), item.PaidQuantity.String(), int64(item.UnitPrice),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListOpenOrders returns the table's orders that still have unpaid items,
// with items in their original position order.
func (s *SQLiteStore) ListOpenOrders(ctx context.Context, tableID string) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, table_id, client_id, session_token, client_name, created_at
		 FROM orders WHERE table_id = ? AND status = 'open'
		 ORDER BY created_at, id`,
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var clientID, sessionToken sql.NullString
		if err := rows.Scan(&o.ID, &o.TableID, &clientID, &sessionToken, &o.ClientName, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.ClientID = clientID.String
		o.SessionToken = sessionToken.String
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	for i := range orders {
		items, err := listOrderItems(ctx, s.db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listOrderItems(ctx context.Context, q queryer, orderID string) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT product_id, product_name, quantity, paid_quantity, unit_price
		 FROM order_items WHERE order_id = ? ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		var unitPrice int64
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.PaidQuantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.UnitPrice = models.Cents(unitPrice)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}
	return items, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDecimal(d decimal.Decimal, valid bool) sql.NullString {
	return sql.NullString{String: d.String(), Valid: valid}
}
