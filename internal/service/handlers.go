package service

import (
	"net/http"

	"connectrpc.com/connect"
)

const (
	// CheckoutServiceName is the fully-qualified name of the checkout service.
	CheckoutServiceName = "tablepay.v1.CheckoutService"
	// AuthServiceName is the fully-qualified name of the auth service.
	AuthServiceName = "tablepay.v1.AuthService"
)

// Procedure paths.
const (
	CheckoutOpenTableProcedure         = "/tablepay.v1.CheckoutService/OpenTable"
	CheckoutGetTableProcedure          = "/tablepay.v1.CheckoutService/GetTable"
	CheckoutSelectItemsProcedure       = "/tablepay.v1.CheckoutService/SelectItems"
	CheckoutSelectPayerProcedure       = "/tablepay.v1.CheckoutService/SelectPayer"
	CheckoutSelectAllProcedure         = "/tablepay.v1.CheckoutService/SelectAll"
	CheckoutApplyDiscountProcedure     = "/tablepay.v1.CheckoutService/ApplyDiscount"
	CheckoutRemoveDiscountProcedure    = "/tablepay.v1.CheckoutService/RemoveDiscount"
	CheckoutSplitItemProcedure         = "/tablepay.v1.CheckoutService/SplitItem"
	CheckoutUndoSplitProcedure         = "/tablepay.v1.CheckoutService/UndoSplit"
	CheckoutPreviewSettlementProcedure = "/tablepay.v1.CheckoutService/PreviewSettlement"
	CheckoutSettleProcedure            = "/tablepay.v1.CheckoutService/Settle"
	CheckoutListSettlementsProcedure   = "/tablepay.v1.CheckoutService/ListSettlements"
	CheckoutCloseTableProcedure        = "/tablepay.v1.CheckoutService/CloseTable"

	AuthRegisterProcedure = "/tablepay.v1.AuthService/Register"
	AuthLoginProcedure    = "/tablepay.v1.AuthService/Login"
	AuthMeProcedure       = "/tablepay.v1.AuthService/Me"
)

// NewCheckoutServiceHandler builds an HTTP handler serving every CheckoutService
// procedure. It returns the path to mount it on.
func NewCheckoutServiceHandler(svc *CheckoutService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{withJSON}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CheckoutOpenTableProcedure, connect.NewUnaryHandler(CheckoutOpenTableProcedure, svc.OpenTable, opts...))
	mux.Handle(CheckoutGetTableProcedure, connect.NewUnaryHandler(CheckoutGetTableProcedure, svc.GetTable, opts...))
	mux.Handle(CheckoutSelectItemsProcedure, connect.NewUnaryHandler(CheckoutSelectItemsProcedure, svc.SelectItems, opts...))
	mux.Handle(CheckoutSelectPayerProcedure, connect.NewUnaryHandler(CheckoutSelectPayerProcedure, svc.SelectPayer, opts...))
	mux.Handle(CheckoutSelectAllProcedure, connect.NewUnaryHandler(CheckoutSelectAllProcedure, svc.SelectAll, opts...))
	mux.Handle(CheckoutApplyDiscountProcedure, connect.NewUnaryHandler(CheckoutApplyDiscountProcedure, svc.ApplyDiscount, opts...))
	mux.Handle(CheckoutRemoveDiscountProcedure, connect.NewUnaryHandler(CheckoutRemoveDiscountProcedure, svc.RemoveDiscount, opts...))
	mux.Handle(CheckoutSplitItemProcedure, connect.NewUnaryHandler(CheckoutSplitItemProcedure, svc.SplitItem, opts...))
	mux.Handle(CheckoutUndoSplitProcedure, connect.NewUnaryHandler(CheckoutUndoSplitProcedure, svc.UndoSplit, opts...))
	mux.Handle(CheckoutPreviewSettlementProcedure, connect.NewUnaryHandler(CheckoutPreviewSettlementProcedure, svc.PreviewSettlement, opts...))
	mux.Handle(CheckoutSettleProcedure, connect.NewUnaryHandler(CheckoutSettleProcedure, svc.Settle, opts...))
	mux.Handle(CheckoutListSettlementsProcedure, connect.NewUnaryHandler(CheckoutListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(CheckoutCloseTableProcedure, connect.NewUnaryHandler(CheckoutCloseTableProcedure, svc.CloseTable, opts...))
	return "/" + CheckoutServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler for AuthService. Register and
// Login are public; Me runs behind requireAuth.
func NewAuthServiceHandler(svc *AuthService, requireAuth connect.Interceptor, opts ...connect.HandlerOption) (string, http.Handler) {
	public := append([]connect.HandlerOption{withJSON}, opts...)
	private := append([]connect.HandlerOption{withJSON, connect.WithInterceptors(requireAuth)}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AuthRegisterProcedure, connect.NewUnaryHandler(AuthRegisterProcedure, svc.Register, public...))
	mux.Handle(AuthLoginProcedure, connect.NewUnaryHandler(AuthLoginProcedure, svc.Login, public...))
	mux.Handle(AuthMeProcedure, connect.NewUnaryHandler(AuthMeProcedure, svc.Me, private...))
	return "/" + AuthServiceName + "/", mux
}
