// Package heuristic applies a deterministic, explainable override to raw
// model scores for bodies structurally similar to Earth.
package heuristic

import (
	"fmt"
	"sort"

	"github.com/okian/exorank/internal/domain/scaling"
	"github.com/okian/exorank/internal/domain/schema"
)

// defaultFloor is the minimum score granted to a body that passes every
// Earth-similarity interval test.
const defaultFloor = 0.85

// Interval is a closed-range membership test on a raw feature value.
type Interval struct {
	Lo float64
	Hi float64
}

func (iv Interval) contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

// earthBounds approximates Earth similarity as a conjunction of six interval
// tests on raw, unscaled features. The values are a modeling assumption
// anchored on the one known habitable exemplar, not physics.
var earthBounds = map[string]Interval{
	schema.FeatRadius:        {Lo: 0.8, Hi: 1.3},
	schema.FeatMass:          {Lo: 0.5, Hi: 2.0},
	schema.FeatEqTemp:        {Lo: 250, Hi: 320},
	schema.FeatOrbitalPeriod: {Lo: 300, Hi: 430},
	schema.FeatStellarTemp:   {Lo: 5000, Hi: 6200},
	schema.FeatStellarRadius: {Lo: 0.8, Hi: 1.3},
}

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithFloor overrides the score floor granted to Earth-like bodies.
func WithFloor(floor float64) Option {
	return func(p *Policy) {
		if floor > 0 && floor <= 1 {
			p.floor = floor
		}
	}
}

// WithBounds replaces the interval set keyed by feature name.
func WithBounds(bounds map[string]Interval) Option {
	return func(p *Policy) {
		if len(bounds) > 0 {
			p.bounds = bounds
		}
	}
}

// check is an interval test resolved to a vector index.
type check struct {
	index    int
	interval Interval
}

// Policy holds the Earth-like predicate resolved against a feature schema.
type Policy struct {
	floor  float64
	bounds map[string]Interval
	checks []check
}

// NewPolicy resolves the interval set against the schema. Every bounded
// feature must exist in the schema; a miss is an artifact consistency fault
// and should abort startup.
func NewPolicy(s *schema.Schema, opts ...Option) (*Policy, error) {
	p := &Policy{
		floor:  defaultFloor,
		bounds: earthBounds,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.checks = make([]check, 0, len(p.bounds))
	for name, iv := range p.bounds {
		i, ok := s.Index(name)
		if !ok {
			return nil, fmt.Errorf("heuristic feature %q: %w", name, scaling.ErrSchemaMismatch)
		}
		p.checks = append(p.checks, check{index: i, interval: iv})
	}
	// Deterministic evaluation order regardless of map iteration.
	sort.Slice(p.checks, func(a, b int) bool { return p.checks[a].index < p.checks[b].index })

	return p, nil
}

// Apply returns the adjusted score and whether the override changed it.
// When the body passes every interval test the score is raised to the floor;
// the floor never lowers a score that already exceeds it.
func (p *Policy) Apply(raw schema.Vector, score float64) (float64, bool) {
	for _, c := range p.checks {
		if c.index >= len(raw) || !c.interval.contains(raw[c.index]) {
			return score, false
		}
	}
	if score >= p.floor {
		return score, false
	}
	return p.floor, true
}
