package checkout

import (
	"errors"
	"testing"

	"github.com/mmynk/tablepay/internal/models"
)

// Scenarios A and B: discount, split into three, then undo.
func TestScenario_DiscountSplitUndo(t *testing.T) {
	item := owed(t, "3", 1000)
	if item.Subtotal != 3000 || item.FinalPrice != 3000 {
		t.Fatalf("subtotal/final = %d/%d, want 3000/3000", item.Subtotal, item.FinalPrice)
	}

	ten := models.PercentageDiscount(qty("10"), "")
	item, err := ApplyDiscount(item, ten)
	if err != nil {
		t.Fatalf("ApplyDiscount failed: %v", err)
	}
	if item.FinalPrice != 2700 {
		t.Fatalf("FinalPrice = %d, want 2700", item.FinalPrice)
	}

	parts, err := Split(item, 3)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	for _, p := range parts {
		if !p.Quantity.Equal(qty("1")) || p.Subtotal != 1000 || p.FinalPrice != 900 {
			t.Errorf("part %d = qty %s subtotal %d final %d, want 1/1000/900", p.SplitIndex, p.Quantity, p.Subtotal, p.FinalPrice)
		}
		if p.ParentDiscount == nil || !p.ParentDiscount.Equal(ten) {
			t.Errorf("part %d parent discount = %+v, want 10%%", p.SplitIndex, p.ParentDiscount)
		}
	}

	merged, err := UndoSplit(parts, parts[1])
	if err != nil {
		t.Fatalf("UndoSplit failed: %v", err)
	}
	if !merged.Quantity.Equal(qty("3")) || merged.Subtotal != 3000 || merged.FinalPrice != 2700 {
		t.Errorf("merged = qty %s subtotal %d final %d, want 3/3000/2700", merged.Quantity, merged.Subtotal, merged.FinalPrice)
	}
	if merged.Discount == nil || !merged.Discount.Equal(ten) {
		t.Errorf("merged discount = %+v, want 10%%", merged.Discount)
	}
	if merged.IsSplit || merged.ParentItemID != "" || merged.ParentDiscount != nil {
		t.Errorf("split metadata not cleared: %+v", merged)
	}
}

// Scenario C: partially paid order item, then a partial settlement.
func TestScenario_PartialPayment(t *testing.T) {
	items := BuildOwedItems([]models.Order{{
		ID: "o1",
		Items: []models.OrderItem{{
			ProductName:  "Tapas",
			Quantity:     qty("7"),
			PaidQuantity: qty("2"),
			UnitPrice:    800,
		}},
	}})
	if !items[0].Quantity.Equal(qty("5")) {
		t.Fatalf("quantity = %s, want 5", items[0].Quantity)
	}

	items[0].Selected = true
	line := lineFor(items[0])
	line.Quantity = qty("3")

	after := Reconcile(items, []models.SettlementLine{line})
	got := after[0]
	if !got.Quantity.Equal(qty("2")) || got.Subtotal != 1600 || got.Selected {
		t.Errorf("after = qty %s subtotal %d selected %v, want 2/1600/false", got.Quantity, got.Subtotal, got.Selected)
	}
}

// Scenario E: a fixed discount larger than the subtotal is rejected.
func TestScenario_FixedDiscountTooLarge(t *testing.T) {
	item := owed(t, "1", 1000)
	got, err := ApplyDiscount(item, models.FixedDiscount(1001, ""))
	if !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("expected ErrInvalidDiscount, got %v", err)
	}
	if got.FinalPrice != 1000 || got.Discount != nil {
		t.Errorf("item changed: %+v", got)
	}
}
