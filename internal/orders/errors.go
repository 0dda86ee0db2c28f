package orders

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable failure classification surfaced to callers.
type Kind string

const (
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindIdentityMismatch   Kind = "IDENTITY_MISMATCH"
	KindEmptyCart          Kind = "EMPTY_CART"
	KindInvalidCartItem    Kind = "INVALID_CART_ITEM"
	KindBookNotFound       Kind = "BOOK_NOT_FOUND"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindPersistenceFailure Kind = "PERSISTENCE_FAILURE"
	KindStoreUnavailable   Kind = "STORE_UNAVAILABLE"
	KindOrderNotFound      Kind = "ORDER_NOT_FOUND"
	KindUnauthorized       Kind = "UNAUTHORIZED"
)

// Error carries the failure kind plus whatever detail the kind defines.
// BookID/Available/Requested are set for the per-item stock failures.
type Error struct {
	Kind Kind
	Msg  string
	Err  error

	BookID    int
	Available int
	Requested int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the failure kind onto the status classes the transport
// layer returns: 401/403 for identity, 404 for missing records, 400 for
// validation and stock, 5xx for store trouble.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindIdentityMismatch, KindUnauthorized:
		return http.StatusForbidden
	case KindEmptyCart, KindInvalidCartItem, KindInsufficientStock:
		return http.StatusBadRequest
	case KindBookNotFound, KindOrderNotFound:
		return http.StatusNotFound
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the Kind from err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func errUnauthenticated() error {
	return &Error{Kind: KindUnauthenticated, Msg: "unauthorized - no authenticated user"}
}

func errIdentityMismatch() error {
	return &Error{Kind: KindIdentityMismatch, Msg: "unauthorized - customer ID mismatch"}
}

func errEmptyCart() error {
	return &Error{Kind: KindEmptyCart, Msg: "no books specified"}
}

func errInvalidCartItem(it CartItem) error {
	return &Error{
		Kind:      KindInvalidCartItem,
		Msg:       fmt.Sprintf("invalid book or quantity: bookID=%d quantity=%d", it.BookID, it.Quantity),
		BookID:    it.BookID,
		Requested: it.Quantity,
	}
}

func errBookNotFound(bookID int) error {
	return &Error{
		Kind:   KindBookNotFound,
		Msg:    fmt.Sprintf("book with ID %d not found", bookID),
		BookID: bookID,
	}
}

func errInsufficientStock(bookID, available, requested int) error {
	return &Error{
		Kind:      KindInsufficientStock,
		Msg:       fmt.Sprintf("insufficient stock for book %d. Available: %d, Requested: %d", bookID, available, requested),
		BookID:    bookID,
		Available: available,
		Requested: requested,
	}
}

func errPersistence(err error) error {
	return &Error{Kind: KindPersistenceFailure, Msg: "failed to persist order", Err: err}
}

func errStoreUnavailable(err error) error {
	return &Error{Kind: KindStoreUnavailable, Msg: "store unavailable", Err: err}
}

func errOrderNotFound(orderID int) error {
	return &Error{Kind: KindOrderNotFound, Msg: fmt.Sprintf("order %d not found", orderID)}
}

func errUnauthorized() error {
	return &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
}
