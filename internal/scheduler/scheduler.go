// Package scheduler drives the periodic sample-publish loop.
//
// One scheduler goroutine visits every active metric at a fixed cadence
// and publishes successful samples into the registry. A failing sampler
// is logged and skipped; it never aborts the cycle for other metrics.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hostpulse/monitor/internal/catalog"
	"github.com/hostpulse/monitor/internal/registry"
)

// Scheduler runs the collection loop for one activated registry.
type Scheduler struct {
	registry *registry.Registry
	interval time.Duration
	logger   *zap.SugaredLogger

	scratch *Pool[*cycleSet]
}

// New creates a scheduler publishing into reg every interval.
func New(reg *registry.Registry, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		registry: reg,
		interval: interval,
		logger:   logger,
		scratch:  NewPool[*cycleSet](),
	}
}

// Run blocks until ctx is cancelled, collecting once immediately and then
// on every tick. The in-flight cycle completes before Run returns; no
// further cycles start afterwards.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.cycle()
	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("scheduler stopped")
			return
		case <-ticker.C:
			s.cycle()
		}
	}
}

// cycle samples every active metric in selection order. Entries sharing
// one sampler are served by a single invocation per cycle.
func (s *Scheduler) cycle() {
	done := s.scratch.Get()
	if done == nil {
		done = &cycleSet{seen: make(map[catalog.Sampler]struct{})}
	}
	defer s.scratch.Put(done)

	for _, entry := range s.registry.Active() {
		if _, ran := done.seen[entry.Sampler]; ran {
			continue
		}
		done.seen[entry.Sampler] = struct{}{}

		values, err := entry.Sampler.Sample()
		if err != nil {
			s.logger.Errorw("sample failed", "metric", entry.Name, "error", err)
			continue
		}
		for name, value := range values {
			s.registry.Publish(name, value)
		}
	}
}

// cycleSet tracks which samplers already ran within one cycle.
type cycleSet struct {
	seen map[catalog.Sampler]struct{}
}

// Reset clears the set so the pool can hand it to the next cycle.
func (c *cycleSet) Reset() {
	clear(c.seen)
}
