package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/config"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
)

func TestReportHashStable(t *testing.T) {
	w := replenish.Window{From: "2025-05-17", To: "2025-06-16", Days: 30}
	params := replenish.Params{WindowDays: 30, LeadTimeDays: 7, StorageDays: 60, NearMarginDays: 15}

	assert.Equal(t, reportHash(w, params), reportHash(w, params))
}

func TestReportHashSensitivity(t *testing.T) {
	w := replenish.Window{From: "2025-05-17", To: "2025-06-16", Days: 30}
	base := replenish.Params{WindowDays: 30, LeadTimeDays: 7, StorageDays: 60, NearMarginDays: 15}

	variants := map[string]struct {
		w      replenish.Window
		params replenish.Params
	}{
		"window from":  {replenish.Window{From: "2025-05-18", To: "2025-06-16", Days: 30}, base},
		"window to":    {replenish.Window{From: "2025-05-17", To: "2025-06-17", Days: 30}, base},
		"lead time":    {w, replenish.Params{WindowDays: 30, LeadTimeDays: 10, StorageDays: 60, NearMarginDays: 15}},
		"storage days": {w, replenish.Params{WindowDays: 30, LeadTimeDays: 7, StorageDays: 90, NearMarginDays: 15}},
		"near margin":  {w, replenish.Params{WindowDays: 30, LeadTimeDays: 7, StorageDays: 60, NearMarginDays: 5}},
	}

	baseHash := reportHash(w, base)
	for name, v := range variants {
		assert.NotEqual(t, baseHash, reportHash(v.w, v.params), "variant %q must change the key", name)
	}
}

func TestBuildReportKeyPrefix(t *testing.T) {
	key := buildReportKey(replenish.Window{From: "a", To: "b"}, replenish.Params{})
	assert.True(t, strings.HasPrefix(key, decisionReportKeyPrefix+":"))
}

func TestNewDecisionCacheDisabled(t *testing.T) {
	c, err := NewDecisionCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, &noopDecisionCache{}, c)
}

func TestNoopDecisionCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoopDecisionCache()
	w := replenish.Window{From: "2025-05-17", To: "2025-06-16", Days: 30}
	params := replenish.DefaultParams()

	report, ok, err := c.GetReport(ctx, w, params)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, report)

	require.NoError(t, c.SetReport(ctx, w, params, &replenish.Report{}))

	// A set must not make the noop start returning hits.
	_, ok, err = c.GetReport(ctx, w, params)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll(ctx))
}
