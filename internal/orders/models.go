package orders

import "time"

// CartItem is one requested book/quantity pair from the placement request.
type CartItem struct {
	BookID   int `json:"bookID"`
	Quantity int `json:"quantity"`
}

// Order is the persisted record. BookIDQuantity keys are the decimal string
// form of the book ID, one entry per distinct book. Once persisted the record
// is never mutated.
type Order struct {
	OrderID        int            `bson:"OrderID" json:"OrderID"`
	CustomerID     int            `bson:"CustomerID" json:"CustomerID"`
	BookIDQuantity map[string]int `bson:"BookIDQuantity" json:"BookIDQuantity"`
	OrderPrice     float64        `bson:"OrderPrice" json:"OrderPrice"`
	OrderDate      time.Time      `bson:"OrderDate" json:"OrderDate"`
}

// OrderedBook is an order line resolved against the current catalog record.
type OrderedBook struct {
	BookID              int     `json:"BookID"`
	BookTitle           string  `json:"BookTitle"`
	AuthorName          string  `json:"AuthorName"`
	BookPrice           float64 `json:"BookPrice"`
	BookPublisher       string  `json:"BookPublisher"`
	BookPublicationDate string  `json:"BookPublicationDate"`
	Quantity            int     `json:"quantity"`
}

// OrderView is an Order enriched with current book display details. Books
// since deleted from the catalog are omitted from Books; the raw
// BookIDQuantity and the total are untouched.
type OrderView struct {
	OrderID        int            `json:"OrderID"`
	CustomerID     int            `json:"CustomerID"`
	BookIDQuantity map[string]int `json:"BookIDQuantity"`
	OrderPrice     float64        `json:"OrderPrice"`
	OrderDate      time.Time      `json:"OrderDate"`
	Books          []OrderedBook  `json:"books"`
}
