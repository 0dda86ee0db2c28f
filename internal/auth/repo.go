package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerStore interface {
	// FindByIdentifier matches CustomerEmail when the identifier contains
	// an '@', CustomerName otherwise. Matching is case-insensitive.
	FindByIdentifier(ctx context.Context, identifier string) (*Customer, error)
}

type mongoCustomerStore struct {
	coll *mongo.Collection
}

func NewCustomerStore(db *mongo.Database) CustomerStore {
	return &mongoCustomerStore{coll: db.Collection("customers")}
}

func (s *mongoCustomerStore) FindByIdentifier(ctx context.Context, identifier string) (*Customer, error) {
	field := "CustomerName"
	if strings.Contains(identifier, "@") {
		field = "CustomerEmail"
	}
	filter := bson.M{field: bson.M{
		"$regex":   "^" + regexp.QuoteMeta(identifier) + "$",
		"$options": "i",
	}}

	var c Customer
	err := s.coll.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}
