package orders

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	TopicOrderPlaced = "bookstore.order.placed"

	EventOrderPlaced = "OrderPlaced"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type PlacedItem struct {
	BookID   int `json:"bookID"`
	Quantity int `json:"quantity"`
}

type OrderPlacedPayload struct {
	OrderID    int          `json:"orderID"`
	CustomerID int          `json:"customerID"`
	Items      []PlacedItem `json:"items"`
	TotalPrice float64      `json:"totalPrice"`
}

// PartitionKey keeps every event of one order on the same partition.
func PartitionKey(orderID int) []byte { return []byte(strconv.Itoa(orderID)) }
