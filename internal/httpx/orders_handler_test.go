package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/catalog"
	"bookstore-backend/internal/orders"
)

// --- mocks ---

type stubOrderStore struct {
	mu     sync.Mutex
	orders []orders.Order
}

func (s *stubOrderStore) FindMaxOrderID(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, o := range s.orders {
		if o.OrderID > max {
			max = o.OrderID
		}
	}
	return max, nil
}

func (s *stubOrderStore) Insert(_ context.Context, o *orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, *o)
	return nil
}

func (s *stubOrderStore) FindByCustomer(_ context.Context, customerID int) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []orders.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderStore) FindByID(_ context.Context, orderID int) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderID == orderID {
			c := o
			return &c, nil
		}
	}
	return nil, orders.ErrNotFound
}

type stubBookStore struct {
	mu    sync.Mutex
	books map[int]catalog.Book
}

func (s *stubBookStore) FindBookByID(_ context.Context, id int) (*catalog.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	c := b
	return &c, nil
}

func (s *stubBookStore) DecrementStock(_ context.Context, id, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return catalog.ErrBookNotFound
	}
	if b.BookQuantity < qty {
		return catalog.ErrInsufficientStock
	}
	b.BookQuantity -= qty
	s.books[id] = b
	return nil
}

// --- helpers ---

func newTestHandler() (*OrdersHandler, *stubOrderStore) {
	orderStore := &stubOrderStore{}
	bookStore := &stubBookStore{books: map[int]catalog.Book{
		0: {BookID: 0, BookTitle: "The Go Programming Language", AuthorName: "Donovan & Kernighan", BookPrice: 19.99, BookQuantity: 5},
	}}
	svc := orders.NewService(orderStore, bookStore, nil, "bookstore-api-test", zap.NewNop())
	return &OrdersHandler{Service: svc, Log: zap.NewNop()}, orderStore
}

func withUser(r *http.Request, customerID int) *http.Request {
	id := &auth.Identity{CustomerID: customerID, CustomerName: "Jo Reader", CustomerEmail: "jo@example.com"}
	return r.WithContext(WithIdentity(r.Context(), id))
}

func withOrderID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderID", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func postOrder(t *testing.T, h *OrdersHandler, body string, customerID int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
	if customerID >= 0 {
		req = withUser(req, customerID)
	}
	w := httptest.NewRecorder()
	h.createOrder(w, req)
	return w
}

// --- createOrder ---

func TestCreateOrder_Success(t *testing.T) {
	h, store := newTestHandler()

	w := postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":2}]}`, 7)
	require.Equal(t, http.StatusOK, w.Code)

	var resp createOrderResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.OrderID)
	assert.InDelta(t, 39.98, resp.TotalPrice, 1e-9)
	assert.Len(t, store.orders, 1)
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler()

	w := postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":2}]}`, -1)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp errorResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(orders.KindUnauthenticated), resp.Kind)
}

func TestCreateOrder_IdentityMismatch(t *testing.T) {
	h, _ := newTestHandler()

	w := postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":2}]}`, 8)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	h, _ := newTestHandler()

	w := postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":10}]}`, 7)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(orders.KindInsufficientStock), resp.Kind)
	assert.Contains(t, resp.Error, "Available: 5")
	assert.Contains(t, resp.Error, "Requested: 10")
}

func TestCreateOrder_BookNotFound(t *testing.T) {
	h, _ := newTestHandler()

	w := postOrder(t, h, `{"customerID":7,"books":[{"bookID":42,"quantity":1}]}`, 7)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()

	w := postOrder(t, h, `{`, 7)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- orderDetails ---

func TestOrderDetails_Success(t *testing.T) {
	h, _ := newTestHandler()
	postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":2}]}`, 7)

	req := withUser(withOrderID(httptest.NewRequest(http.MethodGet, "/api/orders/1", nil), "1"), 7)
	w := httptest.NewRecorder()
	h.orderDetails(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var view orders.OrderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.OrderID)
	require.Len(t, view.Books, 1)
	assert.Equal(t, "The Go Programming Language", view.Books[0].BookTitle)
}

func TestOrderDetails_NotFound(t *testing.T) {
	h, _ := newTestHandler()

	req := withUser(withOrderID(httptest.NewRequest(http.MethodGet, "/api/orders/99", nil), "99"), 7)
	w := httptest.NewRecorder()
	h.orderDetails(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderDetails_WrongCustomer(t *testing.T) {
	h, _ := newTestHandler()
	postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":2}]}`, 7)

	req := withUser(withOrderID(httptest.NewRequest(http.MethodGet, "/api/orders/1", nil), "1"), 8)
	w := httptest.NewRecorder()
	h.orderDetails(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// --- customerOrders ---

func TestCustomerOrders_Success(t *testing.T) {
	h, _ := newTestHandler()
	postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":1}]}`, 7)
	postOrder(t, h, `{"customerID":7,"books":[{"bookID":0,"quantity":1}]}`, 7)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("customerID", "7")
	req := httptest.NewRequest(http.MethodGet, "/api/orders/customer/7", nil)
	req = withUser(req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx)), 7)
	w := httptest.NewRecorder()
	h.customerOrders(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var views []orders.OrderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, 2, views[0].OrderID)
	assert.Equal(t, 1, views[1].OrderID)
}
