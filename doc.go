// Package monitor implements a host metrics collector and exporter.
//
// The monitor samples operating-system counters (CPU, memory, disk,
// network, process states, thermal/fan/battery sensors) and republishes
// them as named gauges on a pull-based HTTP endpoint in the standard
// text exposition format.
//
// The metrics to collect are chosen at runtime through a control fifo:
// one comma-separated line of metric names selects the active set, and
// the reserved first field "1" dumps the catalog of available metrics
// instead of starting collection.
//
// Features:
//   - Fixed catalog of available metrics with per-metric samplers
//   - All-or-nothing activation of a runtime-selected subset
//   - Periodic collection loop with per-sampler failure isolation
//   - Concurrent-safe gauge storage read by the exposition endpoint
//   - Lifecycle status lines published to a status file
//   - Graceful shutdown with a joined exposition server
//   - Structured logging
//
// Configuration is layered: defaults, optional YAML file, environment
// variables, then command-line flags.
package monitor
