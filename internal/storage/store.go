// Package storage provides abstractions for persistent data storage.
//
// The checkout engine never talks to storage directly. The service layer reads
// orders through OrderFeed and hands confirmed settlements to Settler.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tablepay/internal/models"
)

var (
	// ErrNotFound is returned when a table, order, settlement or staff member does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadySettled is returned when committing a line would pay more than
	// was ordered, typically because another session settled it first.
	ErrAlreadySettled = errors.New("line already settled")
)

// OrderFeed provides the orders a checkout session is built from.
type OrderFeed interface {
	// GetTable retrieves a table by ID.
	GetTable(ctx context.Context, tableID string) (*models.Table, error)

	// ListOpenOrders returns the table's orders with their items, oldest first.
	// Fully paid orders may be included; the engine drops paid lines itself.
	ListOpenOrders(ctx context.Context, tableID string) ([]models.Order, error)
}

// Settler persists a settlement request and records the paid quantities.
type Settler interface {
	// CommitSettlement stores req atomically and returns the persisted
	// settlement with the lines actually committed. Either every line is
	// committed or none is.
	CommitSettlement(ctx context.Context, req models.SettlementRequest, staffID string) (*models.Settlement, error)

	// ListSettlementsByTable returns a table's settlements, newest first.
	ListSettlementsByTable(ctx context.Context, tableID string) ([]*models.Settlement, error)
}

// StaffStore defines staff account persistence.
type StaffStore interface {
	CreateStaff(ctx context.Context, staff *models.Staff) error

	// GetStaffByEmail returns nil, nil when no account matches.
	GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error)

	// GetStaffByID returns nil, nil when no account matches.
	GetStaffByID(ctx context.Context, id string) (*models.Staff, error)
}

// Store combines every storage concern. This abstraction allows swapping
// storage backends (SQLite, PostgreSQL, etc.) without changing the service layer.
type Store interface {
	OrderFeed
	Settler
	StaffStore

	// CreateTable persists a new table. The table.ID field will be populated by the store.
	CreateTable(ctx context.Context, table *models.Table) error

	// CreateOrder persists a new order and its items.
	CreateOrder(ctx context.Context, order *models.Order) error

	// Close releases any resources held by the store.
	Close() error
}
