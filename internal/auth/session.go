package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"bookstore-backend/internal/redisx"
)

var ErrNoSession = errors.New("no session")

// SessionStore maps opaque session tokens to identities.
type SessionStore interface {
	Create(ctx context.Context, id Identity) (string, error)
	Lookup(ctx context.Context, token string) (*Identity, error)
	Delete(ctx context.Context, token string) error
}

type redisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = redisx.TTLSession
	}
	return &redisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *redisSessionStore) Create(ctx context.Context, id Identity) (string, error) {
	token := uuid.NewString()
	b, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *redisSessionStore) Lookup(ctx context.Context, token string) (*Identity, error) {
	key := fmt.Sprintf(redisx.KeySession, token)
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	var id Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &id, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
