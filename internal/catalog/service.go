package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service serves catalog reads through a short-lived cache. Cache failures
// degrade to the store, they never fail the request.
type Service struct {
	store Store
	cache Cache
	sfg   singleflight.Group
	log   *zap.Logger
}

func NewService(store Store, cache Cache, log *zap.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	// Collapse concurrent misses into a single store read.
	v, err, _ := s.sfg.Do("books", func() (any, error) {
		books, err := s.cache.Get(ctx)
		if err == nil {
			return books, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("books cache get failed", zap.Error(err))
		}

		books, err = s.store.ListBooks(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, books); err != nil {
			s.log.Warn("books cache set failed", zap.Error(err))
		}
		return books, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Book), nil
}
