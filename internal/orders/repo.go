package orders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrDuplicateOrderID = errors.New("duplicate order id")
)

type Store interface {
	// FindMaxOrderID returns 0 when no orders exist.
	FindMaxOrderID(ctx context.Context) (int, error)
	// Insert fails with ErrDuplicateOrderID when the OrderID is taken.
	Insert(ctx context.Context, o *Order) error
	FindByCustomer(ctx context.Context, customerID int) ([]Order, error)
	FindByID(ctx context.Context, orderID int) (*Order, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("orders")}
}

// EnsureIndexes creates the unique OrderID index. The uniqueness constraint
// is what turns a concurrent max+1 collision into a retryable insert failure
// instead of two orders sharing an ID.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "OrderID", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) FindMaxOrderID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "OrderID", Value: -1}})

	var o Order
	err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("find max order id: %w", err)
	}
	return o.OrderID, nil
}

func (s *MongoStore) Insert(ctx context.Context, o *Order) error {
	_, err := s.coll.InsertOne(ctx, o)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderID
		}
		return fmt.Errorf("insert order %d: %w", o.OrderID, err)
	}
	return nil
}

func (s *MongoStore) FindByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	cur, err := s.coll.Find(ctx, bson.M{"CustomerID": customerID})
	if err != nil {
		return nil, fmt.Errorf("find orders for customer %d: %w", customerID, err)
	}
	defer cur.Close(ctx)

	var out []Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return out, nil
}

func (s *MongoStore) FindByID(ctx context.Context, orderID int) (*Order, error) {
	var o Order
	err := s.coll.FindOne(ctx, bson.M{"OrderID": orderID}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return &o, nil
}
