package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tablepay/internal/models"
	"github.com/mmynk/tablepay/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedTable(t *testing.T, store *SQLiteStore) (*models.Table, *models.Order) {
	t.Helper()
	ctx := context.Background()

	table := &models.Table{Number: "12"}
	require.NoError(t, store.CreateTable(ctx, table))

	order := &models.Order{
		TableID:    table.ID,
		ClientID:   "client-1",
		ClientName: "Ana",
		Items: []models.OrderItem{
			{ProductID: "p-pizza", ProductName: "Pizza", Quantity: decimal.NewFromInt(1), UnitPrice: 1800},
			{ProductID: "p-beer", ProductName: "Beer", Quantity: decimal.NewFromInt(3), UnitPrice: 450},
		},
	}
	require.NoError(t, store.CreateOrder(ctx, order))
	return table, order
}

func lineOf(orderID string, pos int, qty string, unit models.Cents) models.SettlementLine {
	key := fmt.Sprintf("%s:%d", orderID, pos)
	q := decimal.RequireFromString(qty)
	price := unit.MulQuantity(q)
	return models.SettlementLine{
		LineKey:     key,
		OrderID:     orderID,
		OrderItemID: key,
		ProductID:   "p",
		ProductName: "line",
		Quantity:    q,
		UnitPrice:   unit,
		Subtotal:    price,
		FinalPrice:  price,
	}
}

func TestTablesAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	table, order := seedTable(t, store)

	t.Run("CreateTable generates ID", func(t *testing.T) {
		assert.NotEmpty(t, table.ID)
		assert.NotZero(t, table.CreatedAt)
	})

	t.Run("GetTable round trip", func(t *testing.T) {
		got, err := store.GetTable(ctx, table.ID)
		require.NoError(t, err)
		assert.Equal(t, "12", got.Number)
	})

	t.Run("GetTable unknown table", func(t *testing.T) {
		_, err := store.GetTable(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListOpenOrders keeps item order and quantities", func(t *testing.T) {
		orders, err := store.ListOpenOrders(ctx, table.ID)
		require.NoError(t, err)
		require.Len(t, orders, 1)

		got := orders[0]
		assert.Equal(t, order.ID, got.ID)
		assert.Equal(t, "client-1", got.ClientID)
		assert.Empty(t, got.SessionToken)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "Pizza", got.Items[0].ProductName)
		assert.True(t, got.Items[1].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, got.Items[1].PaidQuantity.IsZero())
		assert.Equal(t, models.Cents(450), got.Items[1].UnitPrice)
	})
}

func TestCommitSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("records paid quantity and lines", func(t *testing.T) {
		store := newTestStore(t)
		table, order := seedTable(t, store)

		pct := models.PercentageDiscount(decimal.NewFromInt(10), "Happy hour")
		beer := lineOf(order.ID, 1, "1.5", 450)
		beer.Discount = &pct
		beer.FinalPrice = 608

		req := models.SettlementRequest{
			TableID:       table.ID,
			TableNumber:   table.Number,
			OrderIDs:      []string{order.ID},
			Items:         []models.SettlementLine{beer},
			Subtotal:      beer.Subtotal,
			TotalDiscount: beer.Subtotal - beer.FinalPrice,
			FinalTotal:    beer.FinalPrice,
			PaymentMethod: models.PaymentCard,
		}
		settlement, err := store.CommitSettlement(ctx, req, "staff-1")
		require.NoError(t, err)
		assert.NotEmpty(t, settlement.ID)
		assert.Equal(t, "staff-1", settlement.CreatedBy)

		orders, err := store.ListOpenOrders(ctx, table.ID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "1.5", orders[0].Items[1].PaidQuantity.String())

		stored, err := store.GetSettlement(ctx, settlement.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{order.ID}, stored.OrderIDs)
		assert.Equal(t, models.PaymentCard, stored.PaymentMethod)
		require.Len(t, stored.Lines, 1)
		line := stored.Lines[0]
		assert.True(t, line.Quantity.Equal(decimal.RequireFromString("1.5")))
		assert.Equal(t, models.Cents(608), line.FinalPrice)
		require.NotNil(t, line.Discount)
		assert.True(t, line.Discount.Equal(pct))
	})

	t.Run("closes fully paid orders", func(t *testing.T) {
		store := newTestStore(t)
		table, order := seedTable(t, store)

		req := models.SettlementRequest{
			TableID:  table.ID,
			OrderIDs: []string{order.ID},
			Items: []models.SettlementLine{
				lineOf(order.ID, 0, "1", 1800),
				lineOf(order.ID, 1, "3", 450),
			},
			PaymentMethod: models.PaymentCash,
		}
		_, err := store.CommitSettlement(ctx, req, "staff-1")
		require.NoError(t, err)

		orders, err := store.ListOpenOrders(ctx, table.ID)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("rejects paying more than ordered and rolls back", func(t *testing.T) {
		store := newTestStore(t)
		table, order := seedTable(t, store)

		first := models.SettlementRequest{
			TableID:       table.ID,
			OrderIDs:      []string{order.ID},
			Items:         []models.SettlementLine{lineOf(order.ID, 1, "2", 450)},
			PaymentMethod: models.PaymentCash,
		}
		_, err := store.CommitSettlement(ctx, first, "staff-1")
		require.NoError(t, err)

		second := models.SettlementRequest{
			TableID:  table.ID,
			OrderIDs: []string{order.ID},
			Items: []models.SettlementLine{
				lineOf(order.ID, 0, "1", 1800),
				lineOf(order.ID, 1, "2", 450),
			},
			PaymentMethod: models.PaymentCash,
		}
		_, err = store.CommitSettlement(ctx, second, "staff-2")
		assert.ErrorIs(t, err, storage.ErrAlreadySettled)

		orders, err := store.ListOpenOrders(ctx, table.ID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.True(t, orders[0].Items[0].PaidQuantity.IsZero(), "pizza must not be paid by the rejected settlement")
		assert.Equal(t, "2", orders[0].Items[1].PaidQuantity.String())

		settlements, err := store.ListSettlementsByTable(ctx, table.ID)
		require.NoError(t, err)
		assert.Len(t, settlements, 1)
	})

	t.Run("unknown order item", func(t *testing.T) {
		store := newTestStore(t)
		table, order := seedTable(t, store)

		req := models.SettlementRequest{
			TableID:       table.ID,
			OrderIDs:      []string{order.ID},
			Items:         []models.SettlementLine{lineOf(order.ID, 7, "1", 100)},
			PaymentMethod: models.PaymentCash,
		}
		_, err := store.CommitSettlement(ctx, req, "staff-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListSettlementsByTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	table, order := seedTable(t, store)

	for _, pos := range []int{0, 1} {
		req := models.SettlementRequest{
			TableID:       table.ID,
			OrderIDs:      []string{order.ID},
			Items:         []models.SettlementLine{lineOf(order.ID, pos, "1", 100)},
			PaymentMethod: models.PaymentCash,
		}
		_, err := store.CommitSettlement(ctx, req, "staff-1")
		require.NoError(t, err)
	}

	settlements, err := store.ListSettlementsByTable(ctx, table.ID)
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	// Newest first.
	assert.Equal(t, order.ID+":1", settlements[0].Lines[0].OrderItemID)
	assert.Equal(t, order.ID+":0", settlements[1].Lines[0].OrderItemID)

	empty, err := store.ListSettlementsByTable(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStaff(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	staff := models.NewStaff("ana@example.com", "Ana", "hash")
	require.NoError(t, store.CreateStaff(ctx, staff))

	byEmail, err := store.GetStaffByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, staff.ID, byEmail.ID)

	byID, err := store.GetStaffByID(ctx, staff.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Ana", byID.DisplayName)

	missing, err := store.GetStaffByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := models.NewStaff("ana@example.com", "Other", "hash")
	assert.Error(t, store.CreateStaff(ctx, dup))
}
