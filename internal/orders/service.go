package orders

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"bookstore-backend/internal/auth"
	"bookstore-backend/internal/catalog"
	kafkax "bookstore-backend/internal/kafka"
)

// BookStore is the slice of the catalog the workflow needs: pricing/stock
// reads during validation, conditional decrements after persistence.
type BookStore interface {
	FindBookByID(ctx context.Context, id int) (*catalog.Book, error)
	DecrementStock(ctx context.Context, id, qty int) error
}

// Publisher is satisfied by kafkax.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// maxInsertAttempts bounds the retry loop around OrderID allocation. Each
// retry re-reads the current max, so a loss against a concurrent placement
// resolves on the next attempt.
const maxInsertAttempts = 3

const (
	defaultPublisher       = "Unknown Publisher"
	defaultPublicationDate = "Unknown Date"
)

type Service struct {
	orders   Store
	books    BookStore
	producer Publisher // optional
	service  string
	log      *zap.Logger
}

func NewService(orders Store, books BookStore, producer Publisher, serviceName string, log *zap.Logger) *Service {
	return &Service{orders: orders, books: books, producer: producer, service: serviceName, log: log}
}

// PlaceOrder runs the placement workflow: validate the whole cart, price it,
// allocate the next OrderID, persist, then decrement stock. Nothing is
// written until every item has passed validation; stock is only touched after
// the insert is acknowledged.
func (s *Service) PlaceOrder(ctx context.Context, customerID int, cart []CartItem, identity *auth.Identity) (int, float64, error) {
	if identity == nil {
		return 0, 0, errUnauthenticated()
	}
	if customerID != identity.CustomerID {
		return 0, 0, errIdentityMismatch()
	}
	if len(cart) == 0 {
		return 0, 0, errEmptyCart()
	}

	quantities := make(map[string]int, len(cart))
	items := make([]PlacedItem, 0, len(cart))
	var total float64

	for _, it := range cart {
		if it.BookID < 0 || it.Quantity <= 0 {
			return 0, 0, errInvalidCartItem(it)
		}

		book, err := s.books.FindBookByID(ctx, it.BookID)
		if err != nil {
			if errors.Is(err, catalog.ErrBookNotFound) {
				return 0, 0, errBookNotFound(it.BookID)
			}
			return 0, 0, errStoreUnavailable(err)
		}
		if book.BookQuantity < it.Quantity {
			return 0, 0, errInsufficientStock(it.BookID, book.BookQuantity, it.Quantity)
		}

		quantities[strconv.Itoa(it.BookID)] = it.Quantity
		total += book.BookPrice * float64(it.Quantity)
		items = append(items, PlacedItem{BookID: it.BookID, Quantity: it.Quantity})
	}

	// Half-away-from-zero to 2 decimals.
	total = math.Round(total*100) / 100

	order := &Order{
		CustomerID:     customerID,
		BookIDQuantity: quantities,
		OrderPrice:     total,
	}
	for attempt := 1; ; attempt++ {
		maxID, err := s.orders.FindMaxOrderID(ctx)
		if err != nil {
			return 0, 0, errPersistence(err)
		}
		order.OrderID = maxID + 1
		order.OrderDate = time.Now().UTC()

		err = s.orders.Insert(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, ErrDuplicateOrderID) && attempt < maxInsertAttempts {
			s.log.Warn("order id collision, retrying",
				zap.Int("order_id", order.OrderID),
				zap.Int("attempt", attempt))
			continue
		}
		return 0, 0, errPersistence(err)
	}

	// The order is committed. Decrements are best effort per item: a failure
	// here is logged and the placement still succeeds.
	for _, it := range cart {
		if err := s.books.DecrementStock(ctx, it.BookID, it.Quantity); err != nil {
			s.log.Error("stock decrement failed after order commit",
				zap.Int("order_id", order.OrderID),
				zap.Int("book_id", it.BookID),
				zap.Int("quantity", it.Quantity),
				zap.Error(err))
		}
	}

	s.publishPlaced(order, items)

	s.log.Info("order placed",
		zap.Int("order_id", order.OrderID),
		zap.Int("customer_id", customerID),
		zap.Int("items", len(quantities)),
		zap.Float64("total", total))
	return order.OrderID, total, nil
}

func (s *Service) publishPlaced(o *Order, items []PlacedItem) {
	if s.producer == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.service,
		CorrelationID: strconv.Itoa(o.OrderID),
		Payload: kafkax.MustMarshal(OrderPlacedPayload{
			OrderID:    o.OrderID,
			CustomerID: o.CustomerID,
			Items:      items,
			TotalPrice: o.OrderPrice,
		}),
	}
	s.producer.Publish(PartitionKey(o.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// ListCustomerOrders returns the customer's orders enriched with current book
// details, newest first.
func (s *Service) ListCustomerOrders(ctx context.Context, customerID int, identity *auth.Identity) ([]OrderView, error) {
	if identity == nil {
		return nil, errUnauthenticated()
	}
	if identity.CustomerID != customerID {
		return nil, errUnauthorized()
	}

	found, err := s.orders.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, errStoreUnavailable(err)
	}

	views := make([]OrderView, 0, len(found))
	for i := range found {
		v, err := s.enrich(ctx, &found[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	sort.Slice(views, func(i, j int) bool { return views[i].OrderID > views[j].OrderID })
	return views, nil
}

// GetOrderDetails returns one enriched order. Existence is checked before
// ownership, so a missing order is NotFound even for the wrong customer.
func (s *Service) GetOrderDetails(ctx context.Context, orderID int, identity *auth.Identity) (*OrderView, error) {
	if identity == nil {
		return nil, errUnauthenticated()
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errOrderNotFound(orderID)
		}
		return nil, errStoreUnavailable(err)
	}
	if order.CustomerID != identity.CustomerID {
		return nil, errUnauthorized()
	}

	v, err := s.enrich(ctx, order)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// enrich resolves each BookIDQuantity entry against the catalog. Books that
// no longer exist are dropped from the list; absent publisher/date fields get
// placeholders.
func (s *Service) enrich(ctx context.Context, o *Order) (OrderView, error) {
	books := make([]OrderedBook, 0, len(o.BookIDQuantity))
	for key, qty := range o.BookIDQuantity {
		bookID, err := strconv.Atoi(key)
		if err != nil {
			s.log.Warn("malformed book id key on order",
				zap.Int("order_id", o.OrderID), zap.String("key", key))
			continue
		}

		book, err := s.books.FindBookByID(ctx, bookID)
		if err != nil {
			if errors.Is(err, catalog.ErrBookNotFound) {
				continue
			}
			return OrderView{}, errStoreUnavailable(err)
		}

		ob := OrderedBook{
			BookID:              book.BookID,
			BookTitle:           book.BookTitle,
			AuthorName:          book.AuthorName,
			BookPrice:           book.BookPrice,
			BookPublisher:       book.BookPublisher,
			BookPublicationDate: book.BookPublicationDate,
			Quantity:            qty,
		}
		if ob.BookPublisher == "" {
			ob.BookPublisher = defaultPublisher
		}
		if ob.BookPublicationDate == "" {
			ob.BookPublicationDate = defaultPublicationDate
		}
		books = append(books, ob)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].BookID < books[j].BookID })

	return OrderView{
		OrderID:        o.OrderID,
		CustomerID:     o.CustomerID,
		BookIDQuantity: o.BookIDQuantity,
		OrderPrice:     o.OrderPrice,
		OrderDate:      o.OrderDate,
		Books:          books,
	}, nil
}
