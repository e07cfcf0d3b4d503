//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"mindpulse/internal/model"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisC.Terminate(ctx) })

	endpoint, err := redisC.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisDashboardCache(t *testing.T) {
	ctx := context.Background()
	c := NewDashboardCache(startRedis(t), time.Minute)

	got, err := c.Get(ctx, "u1", 30)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "u1", 30, &model.Dashboard{AvgMood: 6.5, OpenAlerts: 2}))
	got, err = c.Get(ctx, "u1", 30)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 6.5, got.AvgMood)

	other, err := c.Get(ctx, "u1", 7)
	require.NoError(t, err)
	assert.Nil(t, other, "ranges are cached separately")

	require.NoError(t, c.Invalidate(ctx, "u1"))
	got, err = c.Get(ctx, "u1", 30)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisTokenCache(t *testing.T) {
	ctx := context.Background()
	c := NewTokenCache(startRedis(t))

	revoked, err := c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-2", 0))
	revoked, err = c.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "expired tokens need no denylist entry")
}
