package checkout

import (
	"testing"

	"github.com/mmynk/tablepay/internal/models"
)

func TestReconcile(t *testing.T) {
	items := BuildOwedItems(tableOrders())
	items, _ = ApplyDiscountTo(items, "o-bob-2:0", models.FixedDiscount(100, ""))
	items, _ = SetSelected(items, []string{"o-bob-1:0", "o-bob-2:0"}, true)

	req, err := BuildSettlement(items, SettlementParams{TableID: "t-1"})
	if err != nil {
		t.Fatalf("BuildSettlement failed: %v", err)
	}

	after := Reconcile(items, req.Items)
	if len(after) != len(items)-2 {
		t.Fatalf("expected %d items after full settlement, got %d", len(items)-2, len(after))
	}
	for _, it := range after {
		if it.Key() == "o-bob-1:0" || it.Key() == "o-bob-2:0" {
			t.Errorf("settled item %s still present", it.Key())
		}
	}
	if len(items) != 6 {
		t.Error("input working set must not change")
	}
}

func TestReconcile_PartialDropsDiscount(t *testing.T) {
	item := owed(t, "4", 1000)
	item, _ = ApplyDiscount(item, models.PercentageDiscount(qty("25"), ""))
	item.Selected = true

	line := lineFor(item)
	line.Quantity = qty("1.5")

	after := Reconcile([]models.OwedItem{item}, []models.SettlementLine{line})
	if len(after) != 1 {
		t.Fatalf("expected item to remain, got %d items", len(after))
	}
	got := after[0]
	if !got.Quantity.Equal(qty("2.5")) {
		t.Errorf("quantity = %s, want 2.5", got.Quantity)
	}
	if got.Subtotal != 2500 || got.FinalPrice != 2500 {
		t.Errorf("subtotal/final = %d/%d, want 2500/2500", got.Subtotal, got.FinalPrice)
	}
	if got.Discount != nil {
		t.Error("partial settlement must drop the line discount")
	}
	if got.Selected {
		t.Error("partially settled item must be deselected")
	}
}

func TestReconcile_SplitParts(t *testing.T) {
	items := BuildOwedItems(tableOrders())
	items, _ = SplitIn(items, "o-alice:0", 3)
	parts := []models.OwedItem{items[3], items[4], items[5]}

	items, _ = SetSelected(items, []string{parts[1].Key()}, true)
	req, _ := BuildSettlement(items, SettlementParams{})

	after := Reconcile(items, req.Items)
	var remaining []models.OwedItem
	for _, it := range after {
		if it.IsSplit {
			remaining = append(remaining, it)
		}
	}
	if len(remaining) != 2 || remaining[0].Key() != parts[0].Key() || remaining[1].Key() != parts[2].Key() {
		t.Fatalf("only the paid part must be removed, remaining = %v", remaining)
	}

	if _, err := UndoSplitIn(after, parts[0].Key()); err == nil {
		t.Error("undo must fail once a part is paid")
	}
}

func TestReconcile_FallbackAndUnknown(t *testing.T) {
	items := BuildOwedItems(tableOrders())
	lines := []models.SettlementLine{
		{OrderItemID: "o-qr:0", Quantity: qty("1")},
		{OrderItemID: "gone:0", Quantity: qty("1")},
		{LineKey: "gone/1", Quantity: qty("1")},
	}
	after := Reconcile(items, lines)
	if len(after) != len(items)-1 {
		t.Fatalf("expected exactly one removal, got %d items", len(after))
	}
	if _, err := Find(after, "o-qr:0"); err == nil {
		t.Error("line matched by OrderItemID must be removed")
	}
}
