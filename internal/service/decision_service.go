package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/cache"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
)

// DecisionService fronts the engine with a cache-aside layer. Cache failures
// are warnings, never request failures.
type DecisionService struct {
	engine *replenish.Engine
	cache  cache.DecisionCache
}

func NewDecisionService(engine *replenish.Engine, cacheImpl cache.DecisionCache) *DecisionService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDecisionCache()
	}
	return &DecisionService{engine: engine, cache: cacheImpl}
}

func (s *DecisionService) Decisions(ctx context.Context, params replenish.Params) (*replenish.Report, error) {
	params = params.Normalize()
	w := replenish.NewWindow(time.Now(), params.WindowDays)

	if report, ok, err := s.cache.GetReport(ctx, w, params); err == nil && ok {
		return report, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("decisions: cache get failed")
	}

	report, err := s.engine.Decisions(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetReport(ctx, report.Window, report.Params, report); err != nil {
		log.Warn().Err(err).Msg("decisions: cache set failed")
	}

	return report, nil
}

func (s *DecisionService) Diagnostics(ctx context.Context, params replenish.Params) (*replenish.DiagnosticsReport, error) {
	return s.engine.Diagnostics(ctx, params)
}

func (s *DecisionService) Probe(ctx context.Context, itemID string, params replenish.Params, raw bool) (*replenish.ProbeReport, error) {
	return s.engine.Probe(ctx, itemID, params, raw)
}
