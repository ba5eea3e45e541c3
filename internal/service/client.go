package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// BearerToken returns a client interceptor that sends token on every call.
func BearerToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// CheckoutClient is a client for CheckoutService.
type CheckoutClient struct {
	openTable         *connect.Client[TableRequest, TableView]
	getTable          *connect.Client[TableRequest, TableView]
	selectItems       *connect.Client[SelectItemsRequest, TableView]
	selectPayer       *connect.Client[SelectPayerRequest, TableView]
	selectAll         *connect.Client[SelectAllRequest, TableView]
	applyDiscount     *connect.Client[ApplyDiscountRequest, TableView]
	removeDiscount    *connect.Client[ItemRequest, TableView]
	splitItem         *connect.Client[SplitItemRequest, TableView]
	undoSplit         *connect.Client[ItemRequest, TableView]
	previewSettlement *connect.Client[SettleRequest, SettlementView]
	settle            *connect.Client[SettleRequest, SettleResponse]
	listSettlements   *connect.Client[TableRequest, ListSettlementsResponse]
	closeTable        *connect.Client[TableRequest, CloseTableResponse]
}

// NewCheckoutClient creates a CheckoutService client for the server at baseURL.
func NewCheckoutClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CheckoutClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{withJSON}, opts...)
	return &CheckoutClient{
		openTable:         connect.NewClient[TableRequest, TableView](httpClient, baseURL+CheckoutOpenTableProcedure, opts...),
		getTable:          connect.NewClient[TableRequest, TableView](httpClient, baseURL+CheckoutGetTableProcedure, opts...),
		selectItems:       connect.NewClient[SelectItemsRequest, TableView](httpClient, baseURL+CheckoutSelectItemsProcedure, opts...),
		selectPayer:       connect.NewClient[SelectPayerRequest, TableView](httpClient, baseURL+CheckoutSelectPayerProcedure, opts...),
		selectAll:         connect.NewClient[SelectAllRequest, TableView](httpClient, baseURL+CheckoutSelectAllProcedure, opts...),
		applyDiscount:     connect.NewClient[ApplyDiscountRequest, TableView](httpClient, baseURL+CheckoutApplyDiscountProcedure, opts...),
		removeDiscount:    connect.NewClient[ItemRequest, TableView](httpClient, baseURL+CheckoutRemoveDiscountProcedure, opts...),
		splitItem:         connect.NewClient[SplitItemRequest, TableView](httpClient, baseURL+CheckoutSplitItemProcedure, opts...),
		undoSplit:         connect.NewClient[ItemRequest, TableView](httpClient, baseURL+CheckoutUndoSplitProcedure, opts...),
		previewSettlement: connect.NewClient[SettleRequest, SettlementView](httpClient, baseURL+CheckoutPreviewSettlementProcedure, opts...),
		settle:            connect.NewClient[SettleRequest, SettleResponse](httpClient, baseURL+CheckoutSettleProcedure, opts...),
		listSettlements:   connect.NewClient[TableRequest, ListSettlementsResponse](httpClient, baseURL+CheckoutListSettlementsProcedure, opts...),
		closeTable:        connect.NewClient[TableRequest, CloseTableResponse](httpClient, baseURL+CheckoutCloseTableProcedure, opts...),
	}
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], msg *Req) (*Res, error) {
	resp, err := c.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *CheckoutClient) OpenTable(ctx context.Context, req *TableRequest) (*TableView, error) {
	return call(ctx, c.openTable, req)
}

func (c *CheckoutClient) GetTable(ctx context.Context, req *TableRequest) (*TableView, error) {
	return call(ctx, c.getTable, req)
}

func (c *CheckoutClient) SelectItems(ctx context.Context, req *SelectItemsRequest) (*TableView, error) {
	return call(ctx, c.selectItems, req)
}

func (c *CheckoutClient) SelectPayer(ctx context.Context, req *SelectPayerRequest) (*TableView, error) {
	return call(ctx, c.selectPayer, req)
}

func (c *CheckoutClient) SelectAll(ctx context.Context, req *SelectAllRequest) (*TableView, error) {
	return call(ctx, c.selectAll, req)
}

func (c *CheckoutClient) ApplyDiscount(ctx context.Context, req *ApplyDiscountRequest) (*TableView, error) {
	return call(ctx, c.applyDiscount, req)
}

func (c *CheckoutClient) RemoveDiscount(ctx context.Context, req *ItemRequest) (*TableView, error) {
	return call(ctx, c.removeDiscount, req)
}

func (c *CheckoutClient) SplitItem(ctx context.Context, req *SplitItemRequest) (*TableView, error) {
	return call(ctx, c.splitItem, req)
}

func (c *CheckoutClient) UndoSplit(ctx context.Context, req *ItemRequest) (*TableView, error) {
	return call(ctx, c.undoSplit, req)
}

func (c *CheckoutClient) PreviewSettlement(ctx context.Context, req *SettleRequest) (*SettlementView, error) {
	return call(ctx, c.previewSettlement, req)
}

func (c *CheckoutClient) Settle(ctx context.Context, req *SettleRequest) (*SettleResponse, error) {
	return call(ctx, c.settle, req)
}

func (c *CheckoutClient) ListSettlements(ctx context.Context, req *TableRequest) (*ListSettlementsResponse, error) {
	return call(ctx, c.listSettlements, req)
}

func (c *CheckoutClient) CloseTable(ctx context.Context, req *TableRequest) (*CloseTableResponse, error) {
	return call(ctx, c.closeTable, req)
}

// AuthClient is a client for AuthService.
type AuthClient struct {
	register *connect.Client[RegisterRequest, AuthResponse]
	login    *connect.Client[LoginRequest, AuthResponse]
	me       *connect.Client[MeRequest, AuthResponse]
}

// NewAuthClient creates an AuthService client for the server at baseURL.
func NewAuthClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{withJSON}, opts...)
	return &AuthClient{
		register: connect.NewClient[RegisterRequest, AuthResponse](httpClient, baseURL+AuthRegisterProcedure, opts...),
		login:    connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthLoginProcedure, opts...),
		me:       connect.NewClient[MeRequest, AuthResponse](httpClient, baseURL+AuthMeProcedure, opts...),
	}
}

func (c *AuthClient) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	return call(ctx, c.register, req)
}

func (c *AuthClient) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	return call(ctx, c.login, req)
}

func (c *AuthClient) Me(ctx context.Context, req *MeRequest) (*AuthResponse, error) {
	return call(ctx, c.me, req)
}
