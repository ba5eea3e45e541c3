package checkout

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tablepay/internal/models"
)

// QuantityPrecision is the number of decimal places a split part's quantity
// is carried at. The last part absorbs whatever the division leaves over.
const QuantityPrecision = 8

// MaxSplitParts bounds how many ways a single line can be split.
const MaxSplitParts = 100

// newParentID generates the ParentItemID shared by the parts of one split.
var newParentID = func() string { return uuid.New().String() }

// Split divides item into n equal-value parts, 2 <= n <= MaxSplitParts.
//
// FinalPrice is distributed rather than re-discounted per part, so the parts
// always add back up to the parent's FinalPrice to the cent. The per-part
// price is round(FinalPrice/n); the last part takes the remainder. If half-up
// rounding would leave the last part negative (tiny amounts across many
// parts), the per-part price is floored instead.
func Split(item models.OwedItem, n int) ([]models.OwedItem, error) {
	if item.IsSplit {
		return nil, fmt.Errorf("%w: item %s is already split", ErrInvalidSplit, item.Key())
	}
	if n < 2 || n > MaxSplitParts {
		return nil, fmt.Errorf("%w: cannot split into %d parts", ErrInvalidSplit, n)
	}

	parts := decimal.NewFromInt(int64(n))
	qtyPerPart := item.Quantity.DivRound(parts, QuantityPrecision)
	lastQty := item.Quantity.Sub(qtyPerPart.Mul(decimal.NewFromInt(int64(n - 1))))
	if !qtyPerPart.IsPositive() || !lastQty.IsPositive() {
		return nil, fmt.Errorf("%w: quantity %s too small for %d parts", ErrInvalidSplit, item.Quantity, n)
	}

	pricePerPart := item.FinalPrice.DivideRound(n)
	if item.FinalPrice-pricePerPart*models.Cents(n-1) < 0 {
		pricePerPart = item.FinalPrice / models.Cents(n)
	}
	lastPrice := item.FinalPrice - pricePerPart*models.Cents(n-1)

	parentID := newParentID()
	out := make([]models.OwedItem, n)
	for i := 0; i < n; i++ {
		part := item
		part.Quantity = qtyPerPart
		part.FinalPrice = pricePerPart
		if i == n-1 {
			part.Quantity = lastQty
			part.FinalPrice = lastPrice
		}
		part.Subtotal = item.UnitPrice.MulQuantity(part.Quantity)
		part.Discount = nil
		part.ParentDiscount = item.Discount
		part.IsSplit = true
		part.SplitIndex = i + 1
		part.TotalSplits = n
		part.ParentItemID = parentID
		part.Selected = false
		out[i] = part
	}
	return out, nil
}

// siblings returns the parts of the split identified by parentID, in working-set order.
func siblings(items []models.OwedItem, parentID string) []models.OwedItem {
	var out []models.OwedItem
	for _, item := range items {
		if item.IsSplit && item.ParentItemID == parentID {
			out = append(out, item)
		}
	}
	return out
}

// UndoSplit rebuilds the pre-split item from part and its siblings in items.
// Every sibling must still be present; once some parts have been paid the
// split can no longer be reversed.
func UndoSplit(items []models.OwedItem, part models.OwedItem) (models.OwedItem, error) {
	if !part.IsSplit {
		return part, fmt.Errorf("%w: item %s is not a split part", ErrInvalidSplit, part.Key())
	}

	sibs := siblings(items, part.ParentItemID)
	if len(sibs) != part.TotalSplits {
		return part, fmt.Errorf("%w: %d of %d parts present", ErrIncompleteSplit, len(sibs), part.TotalSplits)
	}
	seen := make(map[int]bool, len(sibs))
	for _, s := range sibs {
		if s.SplitIndex < 1 || s.SplitIndex > part.TotalSplits || seen[s.SplitIndex] {
			return part, fmt.Errorf("%w: part %d missing or duplicated", ErrIncompleteSplit, s.SplitIndex)
		}
		seen[s.SplitIndex] = true
	}

	first := sibs[0]
	quantity := decimal.Zero
	for _, s := range sibs {
		quantity = quantity.Add(s.Quantity)
	}

	merged := first
	merged.Quantity = quantity
	merged.Subtotal = first.UnitPrice.MulQuantity(quantity)
	merged.FinalPrice = merged.Subtotal
	merged.Discount = nil
	if first.ParentDiscount != nil {
		d := *first.ParentDiscount
		merged.Discount = &d
		merged.FinalPrice = discountedPrice(merged.Subtotal, d)
	}
	merged.ParentDiscount = nil
	merged.IsSplit = false
	merged.SplitIndex = 0
	merged.TotalSplits = 0
	merged.ParentItemID = ""
	merged.Selected = false
	return merged, nil
}

// SplitIn splits the line with the given key in place.
func SplitIn(items []models.OwedItem, key string, n int) ([]models.OwedItem, error) {
	idx := indexOf(items, key)
	if idx < 0 {
		return items, fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	parts, err := Split(items[idx], n)
	if err != nil {
		return items, err
	}
	return replaceAt(items, idx, parts...), nil
}

// UndoSplitIn merges the split that the line with the given key belongs to.
// The merged item takes the position of the first part.
func UndoSplitIn(items []models.OwedItem, key string) ([]models.OwedItem, error) {
	idx := indexOf(items, key)
	if idx < 0 {
		return items, fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	part := items[idx]
	merged, err := UndoSplit(items, part)
	if err != nil {
		return items, err
	}

	out := make([]models.OwedItem, 0, len(items)-part.TotalSplits+1)
	placed := false
	for _, item := range items {
		if item.IsSplit && item.ParentItemID == part.ParentItemID {
			if !placed {
				out = append(out, merged)
				placed = true
			}
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
