package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tablepay/internal/models"
	"github.com/mmynk/tablepay/internal/storage"
)

// CommitSettlement persists a settlement and adds each line's quantity to the
// paid quantity of its order item, all in one transaction.
//
// A line that would push paid_quantity past the ordered quantity aborts the
// whole settlement with storage.ErrAlreadySettled. This is what stops two
// checkout sessions on the same table from settling the same line twice.
func (s *SQLiteStore) CommitSettlement(ctx context.Context, req models.SettlementRequest, staffID string) (*models.Settlement, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("settlement has no lines")
	}

	settlement := &models.Settlement{
		ID:            uuid.New().String(),
		TableID:       req.TableID,
		TableNumber:   req.TableNumber,
		OrderIDs:      append([]string(nil), req.OrderIDs...),
		Lines:         append([]models.SettlementLine(nil), req.Items...),
		Subtotal:      req.Subtotal,
		TotalDiscount: req.TotalDiscount,
		FinalTotal:    req.FinalTotal,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedBy:     staffID,
		CreatedAt:     time.Now().Unix(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, table_id, table_number, payment_method, subtotal, total_discount, final_total, notes, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.TableID, settlement.TableNumber, string(settlement.PaymentMethod),
		int64(settlement.Subtotal), int64(settlement.TotalDiscount), int64(settlement.FinalTotal),
		nullString(settlement.Notes), settlement.CreatedBy, settlement.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert settlement: %w", err)
	}

	for i, line := range settlement.Lines {
		if err := payOrderItem(ctx, tx, line); err != nil {
			return nil, err
		}
		if err := insertLine(ctx, tx, settlement.ID, i, line); err != nil {
			return nil, err
		}
	}

	for i, orderID := range settlement.OrderIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO settlement_orders (settlement_id, order_id, position) VALUES (?, ?, ?)",
			settlement.ID, orderID, i,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert settlement order: %w", err)
		}
		if err := closeOrderIfPaid(ctx, tx, orderID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settlement, nil
}

// parseOrderItemID splits "<orderID>:<position>".
func parseOrderItemID(id string) (string, int, error) {
	sep := strings.LastIndex(id, ":")
	if sep <= 0 {
		return "", 0, fmt.Errorf("malformed order item id %q", id)
	}
	pos, err := strconv.Atoi(id[sep+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed order item id %q: %w", id, err)
	}
	return id[:sep], pos, nil
}

func payOrderItem(ctx context.Context, tx *sql.Tx, line models.SettlementLine) error {
	orderID, pos, err := parseOrderItemID(line.OrderItemID)
	if err != nil {
		return err
	}

	var quantity, paid decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT quantity, paid_quantity FROM order_items WHERE order_id = ? AND position = ?",
		orderID, pos,
	).Scan(&quantity, &paid)
	if err == sql.ErrNoRows {
		return fmt.Errorf("order item %s: %w", line.OrderItemID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get order item: %w", err)
	}

	newPaid := paid.Add(line.Quantity)
	if newPaid.GreaterThan(quantity) {
		return fmt.Errorf("%w: %s paid %s of %s, cannot add %s",
			storage.ErrAlreadySettled, line.OrderItemID, paid, quantity, line.Quantity)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE order_items SET paid_quantity = ? WHERE order_id = ? AND position = ?",
		newPaid.String(), orderID, pos,
	)
	if err != nil {
		return fmt.Errorf("failed to update paid quantity: %w", err)
	}
	return nil
}

func insertLine(ctx context.Context, tx *sql.Tx, settlementID string, pos int, line models.SettlementLine) error {
	var kind, percent, description sql.NullString
	var amount sql.NullInt64
	if d := line.Discount; d != nil {
		kind = sql.NullString{String: string(d.Kind), Valid: true}
		percent = nullDecimal(d.Percent, d.Kind == models.DiscountPercentage)
		amount = sql.NullInt64{Int64: int64(d.Amount), Valid: d.Kind == models.DiscountFixed}
		description = nullString(d.Description)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO settlement_lines (settlement_id, position, line_key, order_id, order_item_id, product_id, product_name,
		     quantity, unit_price, subtotal, final_price, discount_kind, discount_percent, discount_amount, discount_description,
		     split_index, total_splits, parent_item_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlementID, pos, line.LineKey, line.OrderID, line.OrderItemID, line.ProductID, line.ProductName,
		line.Quantity.String(), int64(line.UnitPrice), int64(line.Subtotal), int64(line.FinalPrice),
		kind, percent, amount, description,
		line.SplitIndex, line.TotalSplits, nullString(line.ParentItemID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement line: %w", err)
	}
	return nil
}

// closeOrderIfPaid marks an order paid once every item is fully settled.
func closeOrderIfPaid(ctx context.Context, tx *sql.Tx, orderID string) error {
	items, err := listOrderItems(ctx, tx, orderID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.PaidQuantity.LessThan(item.Quantity) {
			return nil
		}
	}
	if _, err := tx.ExecContext(ctx, "UPDATE orders SET status = 'paid' WHERE id = ?", orderID); err != nil {
		return fmt.Errorf("failed to close order: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID, including its lines.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, table_id, table_number, payment_method, subtotal, total_discount, final_total, notes, created_by, created_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	)
	settlement, err := scanSettlement(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	if err := s.loadSettlementDetails(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// ListSettlementsByTable retrieves all settlements for a table, newest first.
func (s *SQLiteStore) ListSettlementsByTable(ctx context.Context, tableID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, table_id, table_number, payment_method, subtotal, total_discount, final_total, notes, created_by, created_at
		 FROM settlements WHERE table_id = ? ORDER BY created_at DESC, rowid DESC`,
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by table: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	for _, settlement := range settlements {
		if err := s.loadSettlementDetails(ctx, settlement); err != nil {
			return nil, err
		}
	}
	return settlements, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var method string
	var subtotal, discount, total int64
	var notes sql.NullString
	if err := row.Scan(&settlement.ID, &settlement.TableID, &settlement.TableNumber, &method,
		&subtotal, &discount, &total, &notes, &settlement.CreatedBy, &settlement.CreatedAt); err != nil {
		return nil, err
	}
	settlement.PaymentMethod = models.PaymentMethod(method)
	settlement.Subtotal = models.Cents(subtotal)
	settlement.TotalDiscount = models.Cents(discount)
	settlement.FinalTotal = models.Cents(total)
	settlement.Notes = notes.String
	return settlement, nil
}

func (s *SQLiteStore) loadSettlementDetails(ctx context.Context, settlement *models.Settlement) error {
	orderRows, err := s.db.QueryContext(ctx,
		"SELECT order_id FROM settlement_orders WHERE settlement_id = ? ORDER BY position",
		settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get settlement orders: %w", err)
	}
	defer orderRows.Close()
	for orderRows.Next() {
		var orderID string
		if err := orderRows.Scan(&orderID); err != nil {
			return fmt.Errorf("failed to scan settlement order: %w", err)
		}
		settlement.OrderIDs = append(settlement.OrderIDs, orderID)
	}
	if err := orderRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate settlement orders: %w", err)
	}

	lineRows, err := s.db.QueryContext(ctx,
		`SELECT line_key, order_id, order_item_id, product_id, product_name, quantity, unit_price, subtotal, final_price,
		        discount_kind, discount_percent, discount_amount, discount_description, split_index, total_splits, parent_item_id
		 FROM settlement_lines WHERE settlement_id = ? ORDER BY position`,
		settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get settlement lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var line models.SettlementLine
		var unitPrice, subtotal, finalPrice int64
		var kind, percent, description, parentID sql.NullString
		var amount sql.NullInt64
		if err := lineRows.Scan(&line.LineKey, &line.OrderID, &line.OrderItemID, &line.ProductID, &line.ProductName,
			&line.Quantity, &unitPrice, &subtotal, &finalPrice,
			&kind, &percent, &amount, &description, &line.SplitIndex, &line.TotalSplits, &parentID); err != nil {
			return fmt.Errorf("failed to scan settlement line: %w", err)
		}
		line.UnitPrice = models.Cents(unitPrice)
		line.Subtotal = models.Cents(subtotal)
		line.FinalPrice = models.Cents(finalPrice)
		line.ParentItemID = parentID.String
		line.IsSplit = line.TotalSplits > 0
		if kind.Valid {
			d := models.Discount{
				Kind:        models.DiscountKind(kind.String),
				Amount:      models.Cents(amount.Int64),
				Description: description.String,
			}
			if percent.Valid {
				d.Percent, err = decimal.NewFromString(percent.String)
				if err != nil {
					return fmt.Errorf("failed to parse discount percent: %w", err)
				}
			}
			line.Discount = &d
		}
		settlement.Lines = append(settlement.Lines, line)
	}
	if err := lineRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate settlement lines: %w", err)
	}
	return nil
}
