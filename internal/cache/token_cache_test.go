package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpulse/internal/model"
)

func TestMemoryTokenCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryTokenCache()

	revoked, err := c.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "a", time.Hour))
	require.NoError(t, c.Revoke(ctx, "expired", -time.Second))

	revoked, err = c.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = c.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNoopDashboardCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNoopDashboardCache()

	require.NoError(t, c.Set(ctx, "u1", 30, &model.Dashboard{AvgMood: 5}))
	d, err := c.Get(ctx, "u1", 30)
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.NoError(t, c.Invalidate(ctx, "u1"))
}
