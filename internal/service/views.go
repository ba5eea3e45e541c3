package service

import (
	"github.com/mmynk/tablepay/internal/checkout"
	"github.com/mmynk/tablepay/internal/models"
)

// Wire messages. Money is a decimal string in major units ("27.00"), quantities
// are decimal strings ("0.33333333").

// TableRequest addresses a table's checkout session.
type TableRequest struct {
	TableID string `json:"table_id"`
}

type SelectItemsRequest struct {
	TableID  string   `json:"table_id"`
	Keys     []string `json:"keys"`
	Selected bool     `json:"selected"`
}

type SelectPayerRequest struct {
	TableID   string `json:"table_id"`
	PayerKind string `json:"payer_kind"`
	PayerID   string `json:"payer_id"`
	Selected  bool   `json:"selected"`
}

type SelectAllRequest struct {
	TableID  string `json:"table_id"`
	Selected bool   `json:"selected"`
}

// ApplyDiscountRequest carries a percentage (0-100) or a fixed currency amount
// in Value, depending on Kind.
type ApplyDiscountRequest struct {
	TableID     string `json:"table_id"`
	Key         string `json:"key"`
	Kind        string `json:"kind"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// ItemRequest addresses one line of a table's working set.
type ItemRequest struct {
	TableID string `json:"table_id"`
	Key     string `json:"key"`
}

type SplitItemRequest struct {
	TableID string `json:"table_id"`
	Key     string `json:"key"`
	Parts   int    `json:"parts"`
}

// SettleRequest is used by both PreviewSettlement and Settle.
type SettleRequest struct {
	TableID       string `json:"table_id"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes,omitempty"`
}

type CloseTableResponse struct{}

type DiscountView struct {
	Kind        string `json:"kind"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

type OwedItemView struct {
	Key              string        `json:"key"`
	OrderID          string        `json:"order_id"`
	OrderItemID      string        `json:"order_item_id"`
	ProductID        string        `json:"product_id"`
	ProductName      string        `json:"product_name"`
	Quantity         string        `json:"quantity"`
	OriginalQuantity string        `json:"original_quantity"`
	UnitPrice        string        `json:"unit_price"`
	Subtotal         string        `json:"subtotal"`
	Discount         *DiscountView `json:"discount,omitempty"`
	DiscountAmount   string        `json:"discount_amount"`
	FinalPrice       string        `json:"final_price"`
	IsSplit          bool          `json:"is_split"`
	SplitIndex       int           `json:"split_index,omitempty"`
	TotalSplits      int           `json:"total_splits,omitempty"`
	ParentItemID     string        `json:"parent_item_id,omitempty"`
	ParentDiscount   *DiscountView `json:"parent_discount,omitempty"`
	Selected         bool          `json:"selected"`
}

type PayerGroupView struct {
	PayerKind          string         `json:"payer_kind"`
	PayerID            string         `json:"payer_id"`
	PayerName          string         `json:"payer_name"`
	AllSelected        bool           `json:"all_selected"`
	DistinctOrderCount int            `json:"distinct_order_count"`
	Total              string         `json:"total"`
	SelectedTotal      string         `json:"selected_total"`
	Items              []OwedItemView `json:"items"`
}

// TableView is the grouped working set of a table.
type TableView struct {
	TableID       string           `json:"table_id"`
	TableNumber   string           `json:"table_number"`
	Currency      string           `json:"currency"`
	Groups        []PayerGroupView `json:"groups"`
	Total         string           `json:"total"`
	SelectedTotal string           `json:"selected_total"`
	SelectedCount int              `json:"selected_count"`
}

type SettlementLineView struct {
	LineKey      string        `json:"line_key"`
	OrderID      string        `json:"order_id"`
	OrderItemID  string        `json:"order_item_id"`
	ProductID    string        `json:"product_id"`
	ProductName  string        `json:"product_name"`
	Quantity     string        `json:"quantity"`
	UnitPrice    string        `json:"unit_price"`
	Subtotal     string        `json:"subtotal"`
	Discount     *DiscountView `json:"discount,omitempty"`
	FinalPrice   string        `json:"final_price"`
	IsSplit      bool          `json:"is_split"`
	SplitIndex   int           `json:"split_index,omitempty"`
	TotalSplits  int           `json:"total_splits,omitempty"`
	ParentItemID string        `json:"parent_item_id,omitempty"`
}

// SettlementView is a settlement request (preview) or a committed settlement.
// ID, CreatedBy and CreatedAt are empty for a preview.
type SettlementView struct {
	ID            string               `json:"id,omitempty"`
	TableID       string               `json:"table_id"`
	TableNumber   string               `json:"table_number"`
	OrderIDs      []string             `json:"order_ids"`
	Lines         []SettlementLineView `json:"lines"`
	Subtotal      string               `json:"subtotal"`
	TotalDiscount string               `json:"total_discount"`
	FinalTotal    string               `json:"final_total"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes,omitempty"`
	CreatedBy     string               `json:"created_by,omitempty"`
	CreatedAt     int64                `json:"created_at,omitempty"`
}

type SettleResponse struct {
	Settlement SettlementView `json:"settlement"`
	Table      TableView      `json:"table"`
}

type ListSettlementsResponse struct {
	Settlements []SettlementView `json:"settlements"`
}

func discountView(d *models.Discount) *DiscountView {
	if d == nil {
		return nil
	}
	v := &DiscountView{Kind: string(d.Kind), Description: d.Description}
	if d.Kind == models.DiscountPercentage {
		v.Value = d.Percent.String()
	} else {
		v.Value = d.Amount.String()
	}
	return v
}

func owedItemView(item models.OwedItem) OwedItemView {
	return OwedItemView{
		Key:              item.Key(),
		OrderID:          item.OrderID,
		OrderItemID:      item.OrderItemID,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		Quantity:         item.Quantity.String(),
		OriginalQuantity: item.OriginalQuantity.String(),
		UnitPrice:        item.UnitPrice.String(),
		Subtotal:         item.Subtotal.String(),
		Discount:         discountView(item.Discount),
		DiscountAmount:   item.DiscountAmount().String(),
		FinalPrice:       item.FinalPrice.String(),
		IsSplit:          item.IsSplit,
		SplitIndex:       item.SplitIndex,
		TotalSplits:      item.TotalSplits,
		ParentItemID:     item.ParentItemID,
		ParentDiscount:   discountView(item.ParentDiscount),
		Selected:         item.Selected,
	}
}

func tableView(table models.Table, currency string, items []models.OwedItem) TableView {
	view := TableView{
		TableID:     table.ID,
		TableNumber: table.Number,
		Currency:    currency,
		Groups:      []PayerGroupView{},
		Total:       checkout.Total(items).String(),
	}

	var selectedTotal models.Cents
	for _, g := range checkout.Group(items) {
		gv := PayerGroupView{
			PayerKind:          g.Payer.Kind.String(),
			PayerID:            g.Payer.ID,
			PayerName:          g.PayerName,
			AllSelected:        g.AllSelected,
			DistinctOrderCount: g.DistinctOrderCount,
			Total:              g.Total.String(),
			SelectedTotal:      g.SelectedTotal.String(),
			Items:              make([]OwedItemView, 0, len(g.Items)),
		}
		for _, item := range g.Items {
			gv.Items = append(gv.Items, owedItemView(item))
			if item.Selected {
				view.SelectedCount++
			}
		}
		selectedTotal += g.SelectedTotal
		view.Groups = append(view.Groups, gv)
	}
	view.SelectedTotal = selectedTotal.String()
	return view
}

func lineView(line models.SettlementLine) SettlementLineView {
	return SettlementLineView{
		LineKey:      line.LineKey,
		OrderID:      line.OrderID,
		OrderItemID:  line.OrderItemID,
		ProductID:    line.ProductID,
		ProductName:  line.ProductName,
		Quantity:     line.Quantity.String(),
		UnitPrice:    line.UnitPrice.String(),
		Subtotal:     line.Subtotal.String(),
		Discount:     discountView(line.Discount),
		FinalPrice:   line.FinalPrice.String(),
		IsSplit:      line.IsSplit,
		SplitIndex:   line.SplitIndex,
		TotalSplits:  line.TotalSplits,
		ParentItemID: line.ParentItemID,
	}
}

func linesView(lines []models.SettlementLine) []SettlementLineView {
	out := make([]SettlementLineView, 0, len(lines))
	for _, line := range lines {
		out = append(out, lineView(line))
	}
	return out
}

func previewView(req models.SettlementRequest) SettlementView {
	return SettlementView{
		TableID:       req.TableID,
		TableNumber:   req.TableNumber,
		OrderIDs:      req.OrderIDs,
		Lines:         linesView(req.Items),
		Subtotal:      req.Subtotal.String(),
		TotalDiscount: req.TotalDiscount.String(),
		FinalTotal:    req.FinalTotal.String(),
		PaymentMethod: string(req.PaymentMethod),
		Notes:         req.Notes,
	}
}

func settlementView(s *models.Settlement) SettlementView {
	return SettlementView{
		ID:            s.ID,
		TableID:       s.TableID,
		TableNumber:   s.TableNumber,
		OrderIDs:      s.OrderIDs,
		Lines:         linesView(s.Lines),
		Subtotal:      s.Subtotal.String(),
		TotalDiscount: s.TotalDiscount.String(),
		FinalTotal:    s.FinalTotal.String(),
		PaymentMethod: string(s.PaymentMethod),
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
	}
}
