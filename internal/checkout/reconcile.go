package checkout

import (
	"github.com/mmynk/tablepay/internal/models"
)

// Reconcile applies a confirmed settlement to the working set.
//
// Each committed line is matched by LineKey, or by OrderItemID when the
// collaborator did not echo the key back. A line that covers the owed quantity
// removes the item; anything less decrements it, reprices the remainder at full
// price and deselects it. Per-item discounts do not survive a partial payment.
//
// Reconcile is not idempotent. Call it exactly once per confirmed settlement
// and regroup the result.
func Reconcile(items []models.OwedItem, committed []models.SettlementLine) []models.OwedItem {
	out := make([]models.OwedItem, len(items))
	copy(out, items)
	removed := make([]bool, len(out))

	for _, line := range committed {
		idx := matchLine(out, removed, line)
		if idx < 0 {
			continue
		}
		item := out[idx]
		if line.Quantity.GreaterThanOrEqual(item.Quantity) {
			removed[idx] = true
			continue
		}
		item.Quantity = item.Quantity.Sub(line.Quantity)
		item.Subtotal = item.UnitPrice.MulQuantity(item.Quantity)
		item.FinalPrice = item.Subtotal
		item.Discount = nil
		item.Selected = false
		out[idx] = item
	}

	kept := out[:0]
	for i, item := range out {
		if !removed[i] {
			kept = append(kept, item)
		}
	}
	return kept
}

func matchLine(items []models.OwedItem, removed []bool, line models.SettlementLine) int {
	if line.LineKey != "" {
		for i, item := range items {
			if !removed[i] && item.Key() == line.LineKey {
				return i
			}
		}
		return -1
	}
	for i, item := range items {
		if !removed[i] && item.OrderItemID == line.OrderItemID {
			return i
		}
	}
	return -1
}
