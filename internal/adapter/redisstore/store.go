// Package redisstore reads operator crisis overrides from Redis.
// Operators inject an override by setting crisis:{region} to a reason
// string; deleting the key lifts the override immediately.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store looks up per-region crisis overrides.
type Store struct {
	client *redis.Client
}

// New connects to the Redis instance at addr.
func New(addr string) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Lookup returns the override reason for a region. A missing key means no
// override is active.
func (s *Store) Lookup(ctx context.Context, region string) (string, bool, error) {
	reason, err := s.client.Get(ctx, "crisis:"+region).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("crisis override lookup for %q: %w", region, err)
	}
	return reason, true, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
