package models

import "github.com/shopspring/decimal"

// Table represents a dining table.
type Table struct {
	// ID is the unique identifier for the table (UUID format).
	ID string

	// Number is the label printed on the table (e.g., "12", "T4").
	Number string

	// CreatedAt is the Unix timestamp when the table was created.
	CreatedAt int64
}

// Order represents one order placed at a table.
// Payer identity is taken from ClientID, then SessionToken, then the order ID.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	// TableID is the table the order belongs to.
	TableID string

	// ClientID identifies a registered client. Empty for walk-in guests.
	ClientID string

	// SessionToken identifies an anonymous ordering session (e.g., a QR menu session).
	SessionToken string

	// ClientName is the display name of whoever placed the order. May be empty.
	ClientName string

	// Items are the ordered lines, in the order they were placed.
	Items []OrderItem

	// CreatedAt is the Unix timestamp when the order was created.
	CreatedAt int64
}

// OrderItem represents a product line on an order.
type OrderItem struct {
	ProductID   string
	ProductName string

	// Quantity is the ordered quantity.
	Quantity decimal.Decimal

	// PaidQuantity is how much of Quantity has already been settled.
	// It can be fractional once split parts have been paid.
	PaidQuantity decimal.Decimal

	UnitPrice Cents
}
