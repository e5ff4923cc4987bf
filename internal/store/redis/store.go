// Package redis implements store.Store on Redis. Each document is a plain
// string value whose TTL is refreshed on every write, so an idle session's
// cart and wishlist expire together.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
)

// Store is a Redis-backed store.Store.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New creates a store. A zero ttl keeps keys forever.
func New(client redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("document", key)
		}
		return nil, apperrors.Unavailable("session store", fmt.Errorf("redis get %s: %w", key, err))
	}
	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return apperrors.Unavailable("session store", fmt.Errorf("redis set %s: %w", key, err))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Unavailable("session store", fmt.Errorf("redis del %s: %w", key, err))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
