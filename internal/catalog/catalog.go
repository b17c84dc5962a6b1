// Package catalog holds the immutable table of metrics the monitor knows
// how to collect.
//
// The catalog is built once at process start and never mutated afterwards,
// so lookups need no synchronization. Entry order is declaration order and
// matters only for deterministic listings.
package catalog

import "fmt"

// Sampler reads one system source and reports one or more named readings.
//
// A single sampler may back several catalog entries when one probe yields
// related values (network counters, memory breakdowns). Implementations
// must be pointer types so the scheduler can deduplicate shared samplers
// by identity within a cycle.
type Sampler interface {
	Sample() (map[string]float64, error)
}

type funcSampler struct {
	fn func() (map[string]float64, error)
}

func (s *funcSampler) Sample() (map[string]float64, error) {
	return s.fn()
}

// SamplerFunc wraps a plain function as a Sampler. Each call returns a
// distinct sampler identity; share the returned value across entries that
// the function covers.
func SamplerFunc(fn func() (map[string]float64, error)) Sampler {
	return &funcSampler{fn: fn}
}

// SingleSampler wraps a function producing one value as a Sampler
// reporting it under the given metric name.
func SingleSampler(name string, fn func() (float64, error)) Sampler {
	return SamplerFunc(func() (map[string]float64, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		return map[string]float64{name: v}, nil
	})
}

// Entry describes one metric: its wire name, help text, and the sampler
// that produces it.
type Entry struct {
	Name    string
	Help    string
	Sampler Sampler
}

// Catalog is the fixed list of all known metrics.
type Catalog struct {
	entries []Entry
	byName  map[string]Entry
}

// New builds a catalog from the given entries. Duplicate names and
// entries without a sampler are construction errors.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry with empty name")
		}
		if e.Sampler == nil {
			return nil, fmt.Errorf("catalog entry %q has no sampler", e.Name)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", e.Name)
		}
		c.entries = append(c.entries, e)
		c.byName[e.Name] = e
	}
	return c, nil
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[name]
	return e, ok
}

// Entries returns all entries in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
