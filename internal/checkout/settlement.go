package checkout

import (
	"github.com/mmynk/tablepay/internal/models"
)

// SettlementParams carries the table and payment details of a settlement.
type SettlementParams struct {
	TableID       string
	TableNumber   string
	PaymentMethod models.PaymentMethod
	Notes         string
}

// BuildSettlement projects the selected lines of a working set into a
// settlement request. The working set is not modified.
func BuildSettlement(items []models.OwedItem, p SettlementParams) (models.SettlementRequest, error) {
	req := models.SettlementRequest{
		TableID:       p.TableID,
		TableNumber:   p.TableNumber,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
	}

	seenOrders := make(map[string]bool)
	for _, item := range items {
		if !item.Selected {
			continue
		}
		req.Items = append(req.Items, lineFor(item))
		req.Subtotal += item.Subtotal
		req.TotalDiscount += item.Subtotal - item.FinalPrice
		req.FinalTotal += item.FinalPrice
		if !seenOrders[item.OrderID] {
			seenOrders[item.OrderID] = true
			req.OrderIDs = append(req.OrderIDs, item.OrderID)
		}
	}

	if len(req.Items) == 0 {
		return models.SettlementRequest{}, ErrNoItemsSelected
	}
	return req, nil
}

func lineFor(item models.OwedItem) models.SettlementLine {
	line := models.SettlementLine{
		LineKey:      item.Key(),
		OrderID:      item.OrderID,
		OrderItemID:  item.OrderItemID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		Subtotal:     item.Subtotal,
		FinalPrice:   item.FinalPrice,
		IsSplit:      item.IsSplit,
		SplitIndex:   item.SplitIndex,
		TotalSplits:  item.TotalSplits,
		ParentItemID: item.ParentItemID,
	}
	if item.Discount != nil {
		d := *item.Discount
		line.Discount = &d
	}
	return line
}
