package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bookstore-backend/internal/redisx"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context) ([]Book, error)
	Set(ctx context.Context, books []Book) error
}

type redisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context) ([]Book, error) {
	b, err := c.rdb.Get(ctx, redisx.KeyBooksCache).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var books []Book
	if err := json.Unmarshal(b, &books); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return books, nil
}

func (c *redisCache) Set(ctx context.Context, books []Book) error {
	b, err := json.Marshal(books)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, redisx.KeyBooksCache, b, redisx.TTLBooksCache).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
