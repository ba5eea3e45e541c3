// Package checkout is the settlement engine: it turns a table's orders into a
// working set of owed items, lets staff group, select, discount and split them,
// and builds settlement requests from the selection.
//
// Every function is pure. A working set is a []models.OwedItem passed in and
// returned; inputs are never modified, so a caller can keep the previous value
// for undo or to discard a failed operation.
package checkout

import (
	"fmt"

	"github.com/mmynk/tablepay/internal/models"
)

// OrderItemKey returns the stable identifier of the item at position index of an order.
func OrderItemKey(orderID string, index int) string {
	return fmt.Sprintf("%s:%d", orderID, index)
}

// BuildOwedItems flattens orders into owed items, keeping only unpaid quantity.
// Fully paid lines are dropped.
func BuildOwedItems(orders []models.Order) []models.OwedItem {
	var items []models.OwedItem
	for _, order := range orders {
		payer := models.PayerForOrder(order)
		payerName := order.ClientName
		if payerName == "" {
			payerName = "Order " + order.ID
		}

		for idx, line := range order.Items {
			remaining := line.Quantity.Sub(line.PaidQuantity)
			if !remaining.IsPositive() {
				continue
			}

			subtotal := line.UnitPrice.MulQuantity(remaining)
			items = append(items, models.OwedItem{
				OrderID:          order.ID,
				OrderItemID:      OrderItemKey(order.ID, idx),
				ProductID:        line.ProductID,
				ProductName:      line.ProductName,
				Quantity:         remaining,
				OriginalQuantity: line.Quantity,
				UnitPrice:        line.UnitPrice,
				Subtotal:         subtotal,
				FinalPrice:       subtotal,
				Payer:            payer,
				PayerName:        payerName,
			})
		}
	}
	return items
}
