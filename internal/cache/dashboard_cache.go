package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/erp-service/internal/domain"
)

const dashboardKey = keyPrefix + "dashboard:summary"

// DashboardCache stores the latest dashboard summary for a short TTL.
type DashboardCache struct {
	client kv
	ttl    time.Duration
}

// NewDashboardCache returns a cache; a nil client or non-positive ttl disables it.
func NewDashboardCache(client kv, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

func (c *DashboardCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached summary and whether it was present.
func (c *DashboardCache) Get(ctx context.Context) (*domain.DashboardSummary, bool, error) {
	if !c.enabled() {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, dashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get dashboard cache: %w", err)
	}
	var summary domain.DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return &summary, true, nil
}

// Set stores the summary. Summaries built from fallbacks are not cached so the
// next request retries the failed sources.
func (c *DashboardCache) Set(ctx context.Context, summary *domain.DashboardSummary) error {
	if !c.enabled() || summary == nil || len(summary.Fallbacks) > 0 {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Del(ctx, dashboardKey).Err()
}
