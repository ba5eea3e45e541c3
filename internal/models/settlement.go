package models

import "github.com/shopspring/decimal"

// PaymentMethod is how a settlement was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentVoucher  PaymentMethod = "voucher"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentVoucher:
		return true
	}
	return false
}

// SettlementLine mirrors the committed fields of one OwedItem.
type SettlementLine struct {
	// LineKey is the OwedItem.Key() the line was built from.
	LineKey string

	OrderID     string
	OrderItemID string
	ProductID   string
	ProductName string

	Quantity   decimal.Decimal
	UnitPrice  Cents
	Subtotal   Cents
	Discount   *Discount
	FinalPrice Cents

	IsSplit      bool
	SplitIndex   int
	TotalSplits  int
	ParentItemID string
}

// SettlementRequest is handed verbatim to the collaborator that persists and
// charges a settlement.
type SettlementRequest struct {
	TableID     string
	TableNumber string

	// OrderIDs is the deduplicated set of orders touched, in first-seen order.
	OrderIDs []string

	Items []SettlementLine

	Subtotal Cents
	// TotalDiscount is Subtotal - FinalTotal. A split part can owe a cent more
	// than its own subtotal, so this may be slightly negative.
	TotalDiscount Cents
	FinalTotal    Cents

	PaymentMethod PaymentMethod
	Notes         string
}

// Settlement represents a confirmed payment for part or all of a table.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	TableID     string
	TableNumber string

	// OrderIDs are the orders this settlement paid into.
	OrderIDs []string

	// Lines are the lines actually committed. Normally identical to the request.
	Lines []SettlementLine

	Subtotal      Cents
	TotalDiscount Cents
	FinalTotal    Cents

	PaymentMethod PaymentMethod

	// Notes is an optional free-text remark.
	Notes string

	// CreatedBy is the staff ID who recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
