package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/config"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
)

const (
	decisionReportKeyPrefix = "decisions:report"
	decisionScanBatchSize   = 100
)

// DecisionCache stores ranked decision reports keyed by their window and
// scoring parameters. Entries expire quickly; the window anchor moves at
// midnight and sale/visit data keeps arriving.
type DecisionCache interface {
	GetReport(ctx context.Context, w replenish.Window, params replenish.Params) (*replenish.Report, bool, error)
	SetReport(ctx context.Context, w replenish.Window, params replenish.Params, report *replenish.Report) error
	InvalidateAll(ctx context.Context) error
}

type redisDecisionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDecisionCache struct{}

func NewDecisionCache(cfg config.CacheConfig) (DecisionCache, error) {
	if !cfg.Enabled {
		return &noopDecisionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDecisionCache{client: client, ttl: ttl}, nil
}

func NewNoopDecisionCache() DecisionCache {
	return &noopDecisionCache{}
}

func (c *redisDecisionCache) GetReport(ctx context.Context, w replenish.Window, params replenish.Params) (*replenish.Report, bool, error) {
	payload, err := c.client.Get(ctx, buildReportKey(w, params)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report replenish.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode decision report cache: %w", err)
	}

	return &report, true, nil
}

func (c *redisDecisionCache) SetReport(ctx context.Context, w replenish.Window, params replenish.Params, report *replenish.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode decision report cache: %w", err)
	}

	if err := c.client.Set(ctx, buildReportKey(w, params), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDecisionCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, decisionReportKeyPrefix, decisionScanBatchSize)
}

func (n *noopDecisionCache) GetReport(ctx context.Context, w replenish.Window, params replenish.Params) (*replenish.Report, bool, error) {
	return nil, false, nil
}

func (n *noopDecisionCache) SetReport(ctx context.Context, w replenish.Window, params replenish.Params, report *replenish.Report) error {
	return nil
}

func (n *noopDecisionCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildReportKey(w replenish.Window, params replenish.Params) string {
	return fmt.Sprintf("%s:%s", decisionReportKeyPrefix, reportHash(w, params))
}

// reportHash folds the window boundaries and every scoring parameter into a
// stable key, so two requests share an entry only when their output would be
// byte-identical.
func reportHash(w replenish.Window, params replenish.Params) string {
	raw := fmt.Sprintf("from=%s|to=%s|window=%d|lead=%d|storage=%d|near=%d",
		w.From, w.To,
		params.WindowDays, params.LeadTimeDays, params.StorageDays, params.NearMarginDays)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
