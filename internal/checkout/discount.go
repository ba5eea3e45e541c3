package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tablepay/internal/models"
)

var maxPercent = decimal.NewFromInt(100)

// validateDiscount checks d against a line subtotal.
func validateDiscount(d models.Discount, subtotal models.Cents) error {
	switch d.Kind {
	case models.DiscountPercentage:
		if d.Percent.IsNegative() || d.Percent.GreaterThan(maxPercent) {
			return fmt.Errorf("%w: percentage %s outside 0-100", ErrInvalidDiscount, d.Percent)
		}
	case models.DiscountFixed:
		if d.Amount < 0 {
			return fmt.Errorf("%w: fixed amount %s is negative", ErrInvalidDiscount, d.Amount)
		}
		if d.Amount > subtotal {
			return fmt.Errorf("%w: fixed amount %s exceeds subtotal %s", ErrInvalidDiscount, d.Amount, subtotal)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDiscount, d.Kind)
	}
	return nil
}

// discountedPrice applies d to subtotal, clamped at zero.
func discountedPrice(subtotal models.Cents, d models.Discount) models.Cents {
	switch d.Kind {
	case models.DiscountPercentage:
		return subtotal.ApplyPercentOff(d.Percent)
	case models.DiscountFixed:
		return (subtotal - d.Amount).ClampZero()
	}
	return subtotal
}

// ApplyDiscount attaches d to item and recomputes FinalPrice. Any previous
// discount is replaced. Split parts cannot be discounted: the discount has to
// be applied before splitting.
func ApplyDiscount(item models.OwedItem, d models.Discount) (models.OwedItem, error) {
	if item.IsSplit {
		return item, fmt.Errorf("%w: item %s is a split part", ErrInvalidDiscount, item.Key())
	}
	if err := validateDiscount(d, item.Subtotal); err != nil {
		return item, err
	}

	item.Discount = &d
	item.FinalPrice = discountedPrice(item.Subtotal, d)
	return item, nil
}

// RemoveDiscount clears the discount on item, if any. Items without a
// discount, split parts included, are returned unchanged.
func RemoveDiscount(item models.OwedItem) models.OwedItem {
	if item.Discount == nil {
		return item
	}
	item.Discount = nil
	item.FinalPrice = item.Subtotal
	return item
}

// ApplyDiscountTo applies d to the line with the given key.
func ApplyDiscountTo(items []models.OwedItem, key string, d models.Discount) ([]models.OwedItem, error) {
	idx := indexOf(items, key)
	if idx < 0 {
		return items, fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	updated, err := ApplyDiscount(items[idx], d)
	if err != nil {
		return items, err
	}
	return replaceAt(items, idx, updated), nil
}

// RemoveDiscountFrom clears the discount on the line with the given key.
func RemoveDiscountFrom(items []models.OwedItem, key string) ([]models.OwedItem, error) {
	idx := indexOf(items, key)
	if idx < 0 {
		return items, fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	return replaceAt(items, idx, RemoveDiscount(items[idx])), nil
}
