package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache remembers revoked refresh token IDs until they would have
// expired anyway.
type TokenCache interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type tokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a redis backed revocation list
func NewTokenCache(client *redis.Client) TokenCache {
	return &tokenCache{client: client}
}

func (c *tokenCache) revokedKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

func (c *tokenCache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, c.revokedKey(jti), 1, ttl).Err()
}

func (c *tokenCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.client.Exists(ctx, c.revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// memoryTokenCache keeps revocations in process, used without redis
type memoryTokenCache struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryTokenCache returns an in-process revocation list
func NewMemoryTokenCache() TokenCache {
	return &memoryTokenCache{revoked: make(map[string]time.Time)}
}

func (c *memoryTokenCache) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, exp := range c.revoked {
		if now.After(exp) {
			delete(c.revoked, id)
		}
	}
	c.revoked[jti] = now.Add(ttl)
	return nil
}

func (c *memoryTokenCache) IsRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp, ok := c.revoked[jti]
	return ok && time.Now().Before(exp), nil
}
