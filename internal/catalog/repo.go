package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// listLimit caps the catalog listing, mirroring the browse endpoint's page size.
const listLimit = 200

type Store interface {
	FindBookByID(ctx context.Context, id int) (*Book, error)
	// DecrementStock applies a conditional update: the decrement only
	// happens while BookQuantity >= qty, so stock can never go negative.
	DecrementStock(ctx context.Context, id, qty int) error
	ListBooks(ctx context.Context) ([]Book, error)
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection("books")}
}

func (s *mongoStore) FindBookByID(ctx context.Context, id int) (*Book, error) {
	var b Book
	err := s.coll.FindOne(ctx, bson.M{"BookID": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return &b, nil
}

func (s *mongoStore) DecrementStock(ctx context.Context, id, qty int) error {
	filter := bson.M{"BookID": id, "BookQuantity": bson.M{"$gte": qty}}
	update := bson.M{"$inc": bson.M{"BookQuantity": -qty}}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("decrement stock for book %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		// Either the book is gone or the stock ran out since validation.
		n, err := s.coll.CountDocuments(ctx, bson.M{"BookID": id})
		if err != nil {
			return fmt.Errorf("decrement stock for book %d: %w", id, err)
		}
		if n == 0 {
			return ErrBookNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func (s *mongoStore) ListBooks(ctx context.Context) ([]Book, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "BookID", Value: 1}}).
		SetLimit(listLimit)

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	var books []Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}
