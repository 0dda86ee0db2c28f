package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookstore-backend/internal/orders"
)

type OrdersHandler struct {
	Service *orders.Service
	Log     *zap.Logger
}

type createOrderReq struct {
	CustomerID int               `json:"customerID"`
	Books      []orders.CartItem `json:"books"`
}

type createOrderResp struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	OrderID    int     `json:"orderID"`
	TotalPrice float64 `json:"totalPrice"`
}

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders/customer/{customerID}", h.customerOrders)
	r.Get("/api/orders/{orderID}", h.orderDetails)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID, total, err := h.Service.PlaceOrder(ctx, req.CustomerID, req.Books, IdentityFrom(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createOrderResp{
		Success:    true,
		Message:    "order created successfully",
		OrderID:    orderID,
		TotalPrice: total,
	})
}

func (h *OrdersHandler) customerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(chi.URLParam(r, "customerID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid customer id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := h.Service.ListCustomerOrders(ctx, customerID, IdentityFrom(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if views == nil {
		views = []orders.OrderView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *OrdersHandler) orderDetails(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.Service.GetOrderDetails(ctx, orderID, IdentityFrom(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrdersHandler) writeError(w http.ResponseWriter, err error) {
	var oe *orders.Error
	if errors.As(err, &oe) {
		if oe.HTTPStatus() >= http.StatusInternalServerError {
			h.Log.Error("order operation failed", zap.String("kind", string(oe.Kind)), zap.Error(err))
		}
		writeJSON(w, oe.HTTPStatus(), errorResp{Error: oe.Msg, Kind: string(oe.Kind)})
		return
	}
	h.Log.Error("order operation failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResp{Error: "internal error"})
}
