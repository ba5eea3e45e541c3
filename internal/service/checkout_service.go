package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tablepay/internal/auth"
	"github.com/mmynk/tablepay/internal/checkout"
	"github.com/mmynk/tablepay/internal/metrics"
	"github.com/mmynk/tablepay/internal/middleware"
	"github.com/mmynk/tablepay/internal/models"
	"github.com/mmynk/tablepay/internal/money"
	"github.com/mmynk/tablepay/internal/storage"
)

var errNoSession = errors.New("table is not open for checkout")

// tableSession is the working set of one table. mu serializes every edit and
// is held across the settlement commit.
type tableSession struct {
	mu    sync.Mutex
	table models.Table
	items []models.OwedItem
}

// CheckoutService implements the Connect CheckoutService.
type CheckoutService struct {
	feed     storage.OrderFeed
	settler  storage.Settler
	logger   *slog.Logger
	metrics  *metrics.Checkout
	currency string

	mu       sync.Mutex
	sessions map[string]*tableSession
}

// CheckoutOption configures a CheckoutService.
type CheckoutOption func(*CheckoutService)

// WithMetrics records operation and settlement metrics.
func WithMetrics(m *metrics.Checkout) CheckoutOption {
	return func(s *CheckoutService) { s.metrics = m }
}

// WithCurrency sets the currency code reported in table views. Default USD.
func WithCurrency(code string) CheckoutOption {
	return func(s *CheckoutService) { s.currency = code }
}

// NewCheckoutService creates a CheckoutService reading orders from feed and
// committing settlements through settler.
func NewCheckoutService(feed storage.OrderFeed, settler storage.Settler, logger *slog.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		feed:     feed,
		settler:  settler,
		logger:   logger,
		currency: "USD",
		sessions: make(map[string]*tableSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// connectError maps engine and storage errors to Connect codes.
func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, checkout.ErrSettlementFailed):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, checkout.ErrInvalidDiscount),
		errors.Is(err, checkout.ErrInvalidSplit),
		errors.Is(err, checkout.ErrItemNotFound):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, checkout.ErrIncompleteSplit),
		errors.Is(err, checkout.ErrNoItemsSelected):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, errNoSession), errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func (s *CheckoutService) session(tableID string) (*tableSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tableID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSession, tableID)
	}
	return sess, nil
}

// mutate runs fn against the table's working set under the session lock and
// keeps the result only if fn succeeds.
func (s *CheckoutService) mutate(op, tableID string, fn func([]models.OwedItem) ([]models.OwedItem, error)) (*connect.Response[TableView], error) {
	sess, err := s.session(tableID)
	if err != nil {
		s.metrics.ObserveOperation(op, err)
		return nil, connectError(err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	items, err := fn(sess.items)
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		s.logger.Debug("Checkout operation rejected", "operation", op, "table_id", tableID, "error", err)
		return nil, connectError(err)
	}
	sess.items = items

	view := tableView(sess.table, s.currency, sess.items)
	return connect.NewResponse(&view), nil
}

// OpenTable loads the table's open orders and starts (or restarts) its
// checkout session. Splits, discounts and selections of a previous session
// are discarded.
func (s *CheckoutService) OpenTable(ctx context.Context, req *connect.Request[TableRequest]) (*connect.Response[TableView], error) {
	tableID := req.Msg.TableID
	if tableID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("table_id is required"))
	}

	table, err := s.feed.GetTable(ctx, tableID)
	if err != nil {
		s.metrics.ObserveOperation("open_table", err)
		return nil, connectError(err)
	}
	orders, err := s.feed.ListOpenOrders(ctx, tableID)
	if err != nil {
		s.metrics.ObserveOperation("open_table", err)
		s.logger.Error("Failed to load orders", "table_id", tableID, "error", err)
		return nil, connectError(err)
	}

	s.mu.Lock()
	sess, ok := s.sessions[tableID]
	if !ok {
		sess = &tableSession{}
		s.sessions[tableID] = sess
	}
	open := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetOpenTables(open)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.table = *table
	sess.items = checkout.BuildOwedItems(orders)
	s.metrics.ObserveOperation("open_table", nil)

	s.logger.Info("Table opened", "table_id", tableID, "orders", len(orders), "items", len(sess.items))
	view := tableView(sess.table, s.currency, sess.items)
	return connect.NewResponse(&view), nil
}

// GetTable returns the current grouped working set.
func (s *CheckoutService) GetTable(ctx context.Context, req *connect.Request[TableRequest]) (*connect.Response[TableView], error) {
	sess, err := s.session(req.Msg.TableID)
	if err != nil {
		return nil, connectError(err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	view := tableView(sess.table, s.currency, sess.items)
	return connect.NewResponse(&view), nil
}

// SelectItems selects or deselects lines by key. Unknown keys reject the whole request.
func (s *CheckoutService) SelectItems(ctx context.Context, req *connect.Request[SelectItemsRequest]) (*connect.Response[TableView], error) {
	return s.mutate("select_items", req.Msg.TableID, func(items []models.OwedItem) ([]models.OwedItem, error) {
		return checkout.SetSelected(items, req.Msg.Keys, req.Msg.Selected)
	})
}

// SelectPayer selects or deselects every line of one payer.
func (s *CheckoutService) SelectPayer(ctx context.Context, req *connect.Request[SelectPayerRequest]) (*connect.Response[TableView], error) {
	kind, err := models.ParsePayerKind(req.Msg.PayerKind)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	payer := models.Payer{Kind: kind, ID: req.Msg.PayerID}
	return s.mutate("select_payer", req.Msg.TableID, func(items []models.OwedItem) ([]models.OwedItem, error) {
		return checkout.SelectPayer(items, payer, req.Msg.Selected), nil
	})
}

// SelectAll selects or deselects every line at the table.
func (s *CheckoutService) SelectAll(ctx context.Context, req *connect.Request[SelectAllRequest]) (*connect.Response[TableView], error) {
	return s.mutate("select_all", req.Msg.TableID, func(items []models.OwedItem) ([]models.OwedItem, error) {
		return checkout.SelectAll(items, req.Msg.Selected), nil
	})
}

func parseDiscount(msg *ApplyDiscountRequest) (models.Discount, error) {
	switch models.DiscountKind(msg.Kind) {
	case models.DiscountPercentage:
		pct, err := decimal.NewFromString(msg.Value)
		if err != nil {
			return models.Discount{}, fmt.Errorf("%w: percentage %q: %v", checkout.ErrInvalidDiscount, msg.Value, err)
		}
		return models.PercentageDiscount(pct, msg.Description), nil
	case models.DiscountFixed:
		amount, err := money.Parse(msg.Value)
		if err != nil {
			return models.Discount{}, fmt.Errorf("%w: %v", checkout.ErrInvalidDiscount, err)
		}
		return models.FixedDiscount(amount, msg.Description), nil
	default:
		return models.Discount{}, fmt.Errorf("%w: unknown kind %q", checkout.ErrInvalidDiscount, msg.Kind)
	}
}

// ApplyDiscount attaches a percentage or fixed discount to an unsplit line.
func (s *CheckoutService) ApplyDiscount(ctx context.Context, req *connect.Request[ApplyDiscountRequest]) (*connect.Response[TableView], error) {
	d, err := parseDiscount(req.Msg)
	if err != nil {
		s.metrics.ObserveOperation("apply_discount", err)
		return nil, connectError(err)
	}
	return s.mutate("apply_discount", req.Msg.TableID, func(items []models.OwedItem) ([]models.OwedItem, error) {
		return checkout.ApplyDiscountTo(items, req.Msg.Key, d)
	})
}

// RemoveDiscount clears the discount on a line.
func (s *CheckoutService) RemoveDiscount(ctx context.Context, req *connect.Request[ItemRequest]) (*connect.Response[TableView], error) {
	return s.mutate("remove_discount", req.Msg.TableID, func(items []models.OwedItem) ([]models.OwedItem, error) {
		return checkout.RemoveDiscountFrom(items, req.Msg.Key)
	})
}

// SplitItem splits a line into equal-value parts.
func (s *CheckoutService) SplitItem(ctx context.Context, req *connect.Request[SplitItemRequest]) (*connect.Response[TableView], error) {
	return s.mutate("split_item", req.Msg.TableID, func(items []models.OwedItem) ([]models.OwedItem, error) {
		return checkout.SplitIn(items, req.Msg.Key, req.Msg.Parts)
	})
}

// UndoSplit merges a split line back together. Every part must still be owed.
func (s *CheckoutService) UndoSplit(ctx context.Context, req *connect.Request[ItemRequest]) (*connect.Response[TableView], error) {
	return s.mutate("undo_split", req.Msg.TableID, func(items []models.OwedItem) ([]models.OwedItem, error) {
		return checkout.UndoSplitIn(items, req.Msg.Key)
	})
}

func settlementParams(table models.Table, msg *SettleRequest) checkout.SettlementParams {
	return checkout.SettlementParams{
		TableID:       table.ID,
		TableNumber:   table.Number,
		PaymentMethod: models.PaymentMethod(msg.PaymentMethod),
		Notes:         msg.Notes,
	}
}

// PreviewSettlement returns the settlement the current selection would produce.
// Nothing is committed.
func (s *CheckoutService) PreviewSettlement(ctx context.Context, req *connect.Request[SettleRequest]) (*connect.Response[SettlementView], error) {
	method := models.PaymentMethod(req.Msg.PaymentMethod)
	if method != "" && !method.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown payment method %q", method))
	}
	sess, err := s.session(req.Msg.TableID)
	if err != nil {
		return nil, connectError(err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	settlement, err := checkout.BuildSettlement(sess.items, settlementParams(sess.table, req.Msg))
	s.metrics.ObserveOperation("preview_settlement", err)
	if err != nil {
		return nil, connectError(err)
	}
	view := previewView(settlement)
	return connect.NewResponse(&view), nil
}

// Settle commits the selected lines and reconciles the working set. If the
// commit fails the working set is left exactly as it was.
func (s *CheckoutService) Settle(ctx context.Context, req *connect.Request[SettleRequest]) (*connect.Response[SettleResponse], error) {
	staffID := middleware.GetStaffID(ctx)
	if staffID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	method := models.PaymentMethod(req.Msg.PaymentMethod)
	if !method.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown payment method %q", method))
	}
	sess, err := s.session(req.Msg.TableID)
	if err != nil {
		return nil, connectError(err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var committed *models.Settlement
	items, err := checkout.Submit(ctx, sess.items, settlementParams(sess.table, req.Msg),
		func(ctx context.Context, sr models.SettlementRequest) ([]models.SettlementLine, error) {
			st, err := s.settler.CommitSettlement(ctx, sr, staffID)
			if err != nil {
				return nil, err
			}
			committed = st
			return st.Lines, nil
		})
	s.metrics.ObserveOperation("settle", err)

	if errors.Is(err, checkout.ErrSettlementFailed) {
		outcome := metrics.ResultError
		if errors.Is(err, storage.ErrAlreadySettled) {
			outcome = metrics.ResultConflict
		}
		s.metrics.ObserveSettlement(outcome, 0)
		s.logger.Warn("Settlement failed", "table_id", sess.table.ID, "staff_id", staffID, "error", err)
		return nil, connectError(err)
	}
	if err != nil {
		return nil, connectError(err)
	}

	sess.items = items
	s.metrics.ObserveSettlement(metrics.ResultOK, committed.FinalTotal.Float64())
	s.logger.Info("Settlement committed",
		"settlement_id", committed.ID,
		"table_id", sess.table.ID,
		"staff_id", staffID,
		"lines", len(committed.Lines),
		"final_total", committed.FinalTotal.String(),
		"payment_method", string(committed.PaymentMethod),
	)

	return connect.NewResponse(&SettleResponse{
		Settlement: settlementView(committed),
		Table:      tableView(sess.table, s.currency, sess.items),
	}), nil
}

// ListSettlements returns the table's settlement history, newest first.
// The table does not need an open session.
func (s *CheckoutService) ListSettlements(ctx context.Context, req *connect.Request[TableRequest]) (*connect.Response[ListSettlementsResponse], error) {
	settlements, err := s.settler.ListSettlementsByTable(ctx, req.Msg.TableID)
	if err != nil {
		s.logger.Error("Failed to list settlements", "table_id", req.Msg.TableID, "error", err)
		return nil, connectError(err)
	}

	resp := &ListSettlementsResponse{Settlements: make([]SettlementView, 0, len(settlements))}
	for _, st := range settlements {
		resp.Settlements = append(resp.Settlements, settlementView(st))
	}
	return connect.NewResponse(resp), nil
}

// CloseTable drops the table's checkout session.
func (s *CheckoutService) CloseTable(ctx context.Context, req *connect.Request[TableRequest]) (*connect.Response[CloseTableResponse], error) {
	s.mu.Lock()
	_, ok := s.sessions[req.Msg.TableID]
	delete(s.sessions, req.Msg.TableID)
	open := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return nil, connectError(fmt.Errorf("%w: %s", errNoSession, req.Msg.TableID))
	}
	s.metrics.SetOpenTables(open)
	s.logger.Info("Table closed", "table_id", req.Msg.TableID)
	return connect.NewResponse(&CloseTableResponse{}), nil
}
