// Package token keeps the set of revoked JWT ids so logout takes effect
// before token expiry.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) RevocationStore {
	return &redisStore{client: client}
}

func (s *redisStore) key(jti string) string {
	return "revoked_token:" + jti
}

// Revoke marks the token id until its natural expiry; the key then lapses
// on its own.
func (s *redisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *redisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
