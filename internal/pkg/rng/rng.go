// Package rng provides the pluggable randomness source every probabilistic
// decision in the engine draws from. Injecting a deterministic Source makes
// combat, loot, fusion, and spawn outcomes reproducible in tests.
package rng

import (
	"math/rand"
	"sync"
)

// Source provides uniform randomness
type Source interface {
	// Float64 returns a uniform value in [0, 1)
	Float64() float64

	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int

	// Chance returns true with probability p, where p is in [0, 1]
	Chance(p float64) bool
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Source seeded with the given value
func New(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))} // #nosec G404 // game randomness, not crypto
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *lockedSource) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float64() < p
}

// WeightedIndex picks an index with probability proportional to its weight.
// Non-positive weights are never picked. Returns -1 when no weight is
// positive.
func WeightedIndex(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	target := src.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		target -= w
		if target < 0 {
			return i
		}
	}
	// Float64 returned a value at the very top of the range
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}

// Sequence replays a fixed stream of Float64 values, cycling when exhausted.
// Intn and Chance are derived from the same stream, so a test can script
// exact hit/crit/drop outcomes.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence returns a Source that replays the given values in order
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

// Float64 returns the next scripted value
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Intn scales the next scripted value into [0, n)
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with non-positive n")
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Chance compares the next scripted value against p
func (s *Sequence) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float64() < p
}
