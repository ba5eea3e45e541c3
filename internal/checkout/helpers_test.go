package checkout

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tablepay/internal/models"
)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// owed builds a single owed item through BuildOwedItems.
func owed(t *testing.T, quantity string, unit models.Cents) models.OwedItem {
	t.Helper()
	items := BuildOwedItems([]models.Order{{
		ID:         "order-1",
		ClientName: "Alice",
		ClientID:   "client-alice",
		Items: []models.OrderItem{{
			ProductID:    "p-1",
			ProductName:  "Pasta",
			Quantity:     qty(quantity),
			PaidQuantity: decimal.Zero,
			UnitPrice:    unit,
		}},
	}})
	if len(items) != 1 {
		t.Fatalf("expected 1 owed item, got %d", len(items))
	}
	return items[0]
}

func sumQuantity(items []models.OwedItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity)
	}
	return total
}
