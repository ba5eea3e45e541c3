package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountKind selects how a Discount reduces a line.
type DiscountKind string

const (
	// DiscountPercentage takes Percent (0-100) off the line subtotal.
	DiscountPercentage DiscountKind = "percentage"
	// DiscountFixed takes a fixed Amount off the line subtotal.
	DiscountFixed DiscountKind = "fixed"
)

// Discount is a reduction attached to a single, unsplit OwedItem.
type Discount struct {
	Kind DiscountKind

	// Percent is set for DiscountPercentage.
	Percent decimal.Decimal

	// Amount is set for DiscountFixed.
	Amount Cents

	// Description is free text shown on the bill (e.g., "Staff meal").
	Description string
}

// PercentageDiscount builds a percentage discount.
func PercentageDiscount(percent decimal.Decimal, description string) Discount {
	return Discount{Kind: DiscountPercentage, Percent: percent, Description: description}
}

// FixedDiscount builds a fixed-amount discount.
func FixedDiscount(amount Cents, description string) Discount {
	return Discount{Kind: DiscountFixed, Amount: amount, Description: description}
}

// Equal reports whether two discounts describe the same reduction.
func (d Discount) Equal(other Discount) bool {
	return d.Kind == other.Kind &&
		d.Percent.Equal(other.Percent) &&
		d.Amount == other.Amount &&
		d.Description == other.Description
}

// PayerKind is the tier a payer identity was derived from. Lower values sort first.
type PayerKind int

const (
	// PayerRegistered is a registered client, keyed by client ID.
	PayerRegistered PayerKind = iota
	// PayerSession is an anonymous ordering session, keyed by session token.
	PayerSession
	// PayerUnidentified is an order with no client information, keyed by order ID.
	PayerUnidentified
)

func (k PayerKind) String() string {
	switch k {
	case PayerRegistered:
		return "registered"
	case PayerSession:
		return "session"
	case PayerUnidentified:
		return "unidentified"
	default:
		return fmt.Sprintf("PayerKind(%d)", int(k))
	}
}

// ParsePayerKind is the inverse of PayerKind.String.
func ParsePayerKind(s string) (PayerKind, error) {
	switch s {
	case "registered":
		return PayerRegistered, nil
	case "session":
		return PayerSession, nil
	case "unidentified":
		return PayerUnidentified, nil
	default:
		return 0, fmt.Errorf("unknown payer kind %q", s)
	}
}

// Payer identifies who an OwedItem is attributed to.
type Payer struct {
	Kind PayerKind
	ID   string
}

// PayerForOrder derives the payer of an order: registered client first, then
// anonymous session, else the order itself.
func PayerForOrder(o Order) Payer {
	switch {
	case o.ClientID != "":
		return Payer{Kind: PayerRegistered, ID: o.ClientID}
	case o.SessionToken != "":
		return Payer{Kind: PayerSession, ID: o.SessionToken}
	default:
		return Payer{Kind: PayerUnidentified, ID: o.ID}
	}
}

// OwedItem is a line of product quantity still unpaid for a table.
// OwedItems are derived from orders every time a table is loaded; they live
// only in a checkout session's working set.
type OwedItem struct {
	OrderID string

	// OrderItemID is "<OrderID>:<position>", stable across reloads.
	OrderItemID string

	ProductID   string
	ProductName string

	// Quantity is the unpaid remainder.
	Quantity decimal.Decimal

	// OriginalQuantity is the quantity as ordered. Display only.
	OriginalQuantity decimal.Decimal

	UnitPrice Cents

	// Subtotal is round(Quantity * UnitPrice).
	Subtotal Cents

	// Discount is never set on a split part.
	Discount *Discount

	// FinalPrice is what the payer is charged for this line.
	FinalPrice Cents

	IsSplit      bool
	SplitIndex   int
	TotalSplits  int
	ParentItemID string

	// ParentDiscount is the discount the item carried before it was split.
	// Informational; undoing the split re-applies it.
	ParentDiscount *Discount

	Payer     Payer
	PayerName string

	Selected bool
}

// Key identifies the line inside a working set. Split parts share an
// OrderItemID, so they are keyed by their parent and position instead.
func (i OwedItem) Key() string {
	if i.IsSplit {
		return fmt.Sprintf("%s/%d", i.ParentItemID, i.SplitIndex)
	}
	return i.OrderItemID
}

// DiscountAmount is how much the line is reduced by.
func (i OwedItem) DiscountAmount() Cents {
	return i.Subtotal - i.FinalPrice
}

// PayerGroup is the set of OwedItems attributed to one payer.
type PayerGroup struct {
	Payer     Payer
	PayerName string
	Items     []OwedItem

	// AllSelected is true iff Items is non-empty and every item is selected.
	AllSelected bool

	// DistinctOrderCount is the number of different orders among Items.
	DistinctOrderCount int

	// Total is the sum of FinalPrice over Items.
	Total Cents

	// SelectedTotal is the sum of FinalPrice over selected Items.
	SelectedTotal Cents
}
