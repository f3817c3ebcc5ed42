package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocationStore invalidates bearer tokens on logout, backed by Redis.
// Keys expire with the token itself, so the store never outgrows the set of
// live sessions. Key format: revoked:<sha256(token)>
type TokenRevocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenRevocationStore creates a store whose entries live for ttl, which
// should match the token TTL issued at login.
func NewTokenRevocationStore(client *redis.Client, ttl time.Duration) *TokenRevocationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenRevocationStore{client: client, ttl: ttl}
}

// Revoke marks the token as ended. Subsequent IsRevoked calls report true
// until the entry expires.
func (s *TokenRevocationStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key(token), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token has been revoked.
func (s *TokenRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *TokenRevocationStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}
