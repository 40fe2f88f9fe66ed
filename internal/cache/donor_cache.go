package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/donor-connect/internal/domain"
	"github.com/spec-kit/donor-connect/internal/repository"
)

const generationKey = "donors:search:gen"

// DonorCache stores donor search results in Redis for a short TTL. Keys embed
// a generation counter; invalidation bumps the counter instead of scanning
// for keys, so stale entries simply expire. The cache is best-effort: every
// Redis failure degrades to a repository read.
type DonorCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDonorCache builds the cache. A nil client or non-positive TTL disables it.
func NewDonorCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *DonorCache {
	return &DonorCache{client: client, ttl: ttl, logger: logger}
}

func (c *DonorCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns cached results for the filter, if fresh.
func (c *DonorCache) Get(ctx context.Context, filter repository.DonorFilter) ([]domain.User, bool) {
	if !c.enabled() {
		return nil, false
	}
	key, err := c.searchKey(ctx, filter)
	if err != nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("donor cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var donors []domain.User
	if err := json.Unmarshal(raw, &donors); err != nil {
		c.logger.Debug("donor cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return donors, true
}

// Set stores results for the filter.
func (c *DonorCache) Set(ctx context.Context, filter repository.DonorFilter, donors []domain.User) {
	if !c.enabled() {
		return
	}
	key, err := c.searchKey(ctx, filter)
	if err != nil {
		return
	}
	raw, err := json.Marshal(donors)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("donor cache write failed", zap.Error(err))
	}
}

// Invalidate drops all cached search results by bumping the generation.
// Called after any mutation that can change donor visibility.
func (c *DonorCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Debug("donor cache invalidation failed", zap.Error(err))
	}
}

func (c *DonorCache) searchKey(ctx context.Context, filter repository.DonorFilter) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}

	group := ""
	if filter.BloodGroup != nil {
		group = string(*filter.BloodGroup)
	}
	location := ""
	if filter.Location != nil {
		location = strings.ToLower(strings.TrimSpace(*filter.Location))
	}
	return fmt.Sprintf("donors:search:%d:%s|%s", gen, group, location), nil
}
