// Package simrng provides the simulation's deterministic random source
// (§4.2). A Source constructed with a seed must reproduce, bit for bit,
// the same sequence of draws across runs — the teacher relies on the same
// guarantee for its flywheel jitter (internal/infra/flywheel/flywheel.go
// seeds math/rand for reproducible health-score noise).
package simrng

import (
	"math/rand"
	"time"
)

// Source is the simulation-wide random number source. It is not safe for
// concurrent use; the engine owns exactly one Source per simulation run.
type Source struct {
	seed uint64
	rng  *rand.Rand
}

// New constructs a Source. When hasSeed is false a time-derived seed is
// used and the run is not reproducible; callers that need reproducibility
// must supply hasSeed=true with an explicit seed.
func New(seed uint64, hasSeed bool) *Source {
	if !hasSeed {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{seed: seed, rng: rand.New(rand.NewSource(int64(seed)))}
}

// Seed returns the seed this Source was constructed with (echoed back in
// results so a run can be replayed).
func (s *Source) Seed() uint64 { return s.seed }

// Raw exposes the underlying *rand.Rand for components (simid.Simulation)
// that need a standard library generator rather than this package's
// higher-level helpers.
func (s *Source) Raw() *rand.Rand { return s.rng }

// Uniform returns a uniform sample in [0, 1).
func (s *Source) Uniform() float64 { return s.rng.Float64() }

// Range returns a uniform sample in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 { return lo + s.rng.Float64()*(hi-lo) }

// IntRange returns a uniform integer in [lo, hi).
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo)
}

// Bool returns true with the given probability.
func (s *Source) Bool(probability float64) bool { return s.rng.Float64() < probability }

// Gaussian returns a normally distributed sample with the given mean and
// standard deviation.
func (s *Source) Gaussian(mean, stddev float64) float64 {
	return mean + s.rng.NormFloat64()*stddev
}

// WeightedChoice picks an index from weights proportional to their value.
// Weights need not sum to 1; non-positive weight sums return -1. Matches
// the spec's weighted_choice(choices, weights) operator.
func (s *Source) WeightedChoice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	r := s.rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// WeightedChoiceKeys picks a key from a map[K]float64 of weights, walking
// the keys in the order the caller passes them (it does not sort them), so
// the draw is deterministic regardless of map iteration order as long as
// the caller's key order is. Callers pass keys explicitly since Go maps
// don't guarantee order.
func WeightedChoiceKeys[K comparable](s *Source, keys []K, weights map[K]float64) (K, bool) {
	w := make([]float64, len(keys))
	for i, k := range keys {
		w[i] = weights[k]
	}
	idx := s.WeightedChoice(w)
	if idx < 0 {
		var zero K
		return zero, false
	}
	return keys[idx], true
}
