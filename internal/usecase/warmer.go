package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultWarmConcurrency = 2

type WarmerConfig struct {
	Interval    time.Duration
	Concurrency int
}

// Warmer keeps current-season standings of every supported league in the shared cache.
type Warmer struct {
	service     *StandingsService
	interval    time.Duration
	concurrency int
	logger      *logging.Logger
}

type WarmResult struct {
	Refreshed int
	Failed    int
}

func NewWarmer(service *StandingsService, cfg WarmerConfig, logger *logging.Logger) *Warmer {
	if logger == nil {
		logger = logging.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultWarmConcurrency
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = service.ttl
	}
	return &Warmer{
		service:     service,
		interval:    interval,
		concurrency: concurrency,
		logger:      logger,
	}
}

// WarmOnce refreshes every league. Failures are logged and counted, never returned.
func (w *Warmer) WarmOnce(ctx context.Context) WarmResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.Warmer.WarmOnce")
	defer span.End()

	leagues, err := w.service.ListLeagues(ctx)
	if err != nil {
		w.logger.WarnContext(ctx, "cache warm skipped", "error", err)
		return WarmResult{}
	}

	var refreshed, failed atomic.Int32
	p := pool.New().WithMaxGoroutines(w.concurrency)
	for _, item := range leagues {
		key := item.Key
		p.Go(func() {
			if _, err := w.service.Refresh(ctx, key, ""); err != nil {
				failed.Add(1)
				w.logger.WarnContext(ctx, "cache warm failed", "league", key, "reason", Reason(err), "error", err)
				return
			}
			refreshed.Add(1)
		})
	}
	p.Wait()

	result := WarmResult{Refreshed: int(refreshed.Load()), Failed: int(failed.Load())}
	w.logger.InfoContext(ctx, "cache warm finished", "refreshed", result.Refreshed, "failed", result.Failed)
	return result
}

// Run warms immediately and then on every tick until ctx ends.
func (w *Warmer) Run(ctx context.Context) {
	w.WarmOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.WarmOnce(ctx)
		}
	}
}
