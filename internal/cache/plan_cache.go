package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/marketpo/internal/config"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/planner"
)

const (
	planKeyPrefix     = "plan:result"
	planScanBatchSize = 100
)

// PlanCache memoizes finished planning runs keyed by their inputs. It is a
// request-level cache, not a history store: entries expire and are never
// enumerated.
type PlanCache interface {
	Get(ctx context.Context, key string) (*planner.Result, bool, error)
	Set(ctx context.Context, key string, result *planner.Result) error
	InvalidateAll(ctx context.Context) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPlanCache{client: client, ttl: ttl}, nil
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

func (c *redisPlanCache) Get(ctx context.Context, key string) (*planner.Result, bool, error) {
	payload, err := c.client.Get(ctx, planKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result planner.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode plan cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisPlanCache) Set(ctx context.Context, key string, result *planner.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode plan cache: %w", err)
	}

	if err := c.client.Set(ctx, planKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPlanCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, planKeyPrefix, planScanBatchSize)
}

func (n *noopPlanCache) Get(ctx context.Context, key string) (*planner.Result, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) Set(ctx context.Context, key string, result *planner.Result) error {
	return nil
}

func (n *noopPlanCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func planKey(hash string) string {
	return fmt.Sprintf("%s:%s", planKeyPrefix, hash)
}

// BuildPlanKey derives a deterministic cache key from the planning
// parameters and the digests of the uploaded sales files.
func BuildPlanKey(params domain.PlanningParams, inputDigests []string) string {
	parts := []string{
		fmt.Sprintf("sales_window=%d", params.SalesWindowDays),
		fmt.Sprintf("purchase_window=%d", params.PurchaseWindowDays),
		fmt.Sprintf("lead_time=%d", params.LeadTimeDays),
		fmt.Sprintf("safety_stock=%d", params.SafetyStockDays),
	}

	digests := append([]string(nil), inputDigests...)
	sort.Strings(digests)
	parts = append(parts, digests...)

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
