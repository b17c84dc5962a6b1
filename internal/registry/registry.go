// Package registry owns the runtime-activated subset of the catalog and
// the gauge storage behind the publication surface.
//
// A Registry is constructed per run and passed by reference to the
// scheduler and the exporter; there is no process-wide state, so tests
// can run independent instances side by side.
package registry

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hostpulse/monitor/internal/catalog"
	internalerrors "github.com/hostpulse/monitor/internal/errors"
	models "github.com/hostpulse/monitor/internal/model"
)

// slot holds the last successfully sampled value for one active metric,
// mirrored into a prometheus gauge for the exposition path.
type slot struct {
	gauge prometheus.Gauge
	value float64
	set   bool
}

// Registry maps activated catalog entries to gauge slots.
//
// One coarse mutex guards every slot read and write. Sampling happens
// once per second and scrapes are rarer still, so per-slot locking would
// buy nothing.
type Registry struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	logger  *zap.SugaredLogger

	prom      *prometheus.Registry
	active    []catalog.Entry
	slots     map[string]*slot
	activated bool
}

// New creates a registry over the given catalog. No metrics are active
// until Activate succeeds.
func New(cat *catalog.Catalog, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		catalog: cat,
		logger:  logger,
		prom:    prometheus.NewRegistry(),
		slots:   make(map[string]*slot),
	}
}

// Activate selects the metrics to collect for this run.
//
// Activation is all-or-nothing: every name is resolved against the
// catalog before any gauge is registered, so a single unknown name
// leaves the registry empty. A repeated name collapses to its first
// occurrence. Re-activation requires Teardown first.
func (r *Registry) Activate(names []string) error {
	if len(names) == 0 {
		return internalerrors.ErrEmptySelection
	}

	entries := make([]catalog.Entry, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		entry, ok := r.catalog.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", internalerrors.ErrUnknownMetric, name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		entries = append(entries, entry)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activated {
		return internalerrors.ErrAlreadyActivated
	}
	for _, entry := range entries {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: entry.Name,
			Help: entry.Help,
		})
		if err := r.prom.Register(gauge); err != nil {
			return fmt.Errorf("registering gauge %q: %w", entry.Name, err)
		}
		r.slots[entry.Name] = &slot{gauge: gauge}
		r.active = append(r.active, entry)
	}
	r.activated = true
	r.logger.Infow("metrics activated", "count", len(r.active))
	return nil
}

// Active returns the activated entries in selection order.
func (r *Registry) Active() []catalog.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Entry, len(r.active))
	copy(out, r.active)
	return out
}

// Publish records a successful sample for name. Values for metrics that
// are not active are dropped; shared samplers report everything they
// read and only the activated subset lands in storage.
func (r *Registry) Publish(name string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[name]
	if !ok {
		return
	}
	s.value = value
	s.set = true
	s.gauge.Set(value)
}

// ReadAll returns the current reading of every active metric.
//
// Each reading is internally consistent, but the map is not a snapshot
// of one collection cycle: a read that interleaves with an in-progress
// cycle may mix values from adjacent cycles.
func (r *Registry) ReadAll() map[string]models.Reading {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]models.Reading, len(r.slots))
	for name, s := range r.slots {
		out[name] = models.Reading{Value: s.value, Set: s.set}
	}
	return out
}

// Gatherer exposes the prometheus registry backing the active gauges for
// the exposition handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}

// Teardown releases all gauge storage. It is idempotent; tearing down a
// registry that was never activated is a no-op.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		r.prom.Unregister(s.gauge)
	}
	r.slots = make(map[string]*slot)
	r.active = nil
	r.activated = false
}
