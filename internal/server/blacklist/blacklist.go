// Package blacklist tracks revoked access tokens by their jti, so a logout
// takes effect before the token's natural expiry.
package blacklist

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the revoked-token set consumed by the auth middleware.
type Store interface {
	// Revoke marks the jti revoked for ttl, after which the entry may expire
	// on its own since the token itself is no longer valid by then.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisStore keeps revoked jtis in redis with per-entry TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func key(jti string) string { return "revoked:" + jti }

func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, key(jti), "1", ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
