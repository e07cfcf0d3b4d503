package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mindpulse/internal/model"
)

// DashboardCache stores rendered dashboards per user and range.
// Invalidate drops every range of a user at once.
type DashboardCache interface {
	Get(ctx context.Context, userID string, days int) (*model.Dashboard, error)
	Set(ctx context.Context, userID string, days int, d *model.Dashboard) error
	Invalidate(ctx context.Context, userID string) error
}

type dashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache creates a redis backed dashboard cache
func NewDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	return &dashboardCache{client: client, ttl: ttl}
}

// Entries are namespaced by a per-user generation counter; bumping the
// counter orphans old entries, which then expire on their TTL.
func (c *dashboardCache) genKey(userID string) string {
	return fmt.Sprintf("dash:%s:gen", userID)
}

func (c *dashboardCache) entryKey(userID string, gen int64, days int) string {
	return fmt.Sprintf("dash:%s:g%d:%d", userID, gen, days)
}

func (c *dashboardCache) generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *dashboardCache) Get(ctx context.Context, userID string, days int) (*model.Dashboard, error) {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, c.entryKey(userID, gen, days)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d model.Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *dashboardCache) Set(ctx context.Context, userID string, days int, d *model.Dashboard) error {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.entryKey(userID, gen, days), data, c.ttl).Err()
}

func (c *dashboardCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Incr(ctx, c.genKey(userID)).Err()
}

type noopDashboardCache struct{}

// NewNoopDashboardCache returns a cache that never hits, used without redis
func NewNoopDashboardCache() DashboardCache { return noopDashboardCache{} }

func (noopDashboardCache) Get(context.Context, string, int) (*model.Dashboard, error) {
	return nil, nil
}

func (noopDashboardCache) Set(context.Context, string, int, *model.Dashboard) error { return nil }

func (noopDashboardCache) Invalidate(context.Context, string) error { return nil }
