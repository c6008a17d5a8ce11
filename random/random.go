// Package random isolates the random draws of the engine behind a seedable
// source so that experiment durations and selections are reproducible.
package random

import (
	"math"
	"math/rand/v2"
	"time"
)

// Source produces the random values used by trackers and controllers.
type Source interface {
	// NormFloat64 returns a standard normal draw
	NormFloat64() float64
	// IntN returns a uniform value in [0,n)
	IntN(n int) int
}

// New returns a PCG backed source. A zero seed is replaced by the current time.
func New(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>16|7))
}

// HalfNormal draws from Normal(mean, stdDev) and reflects negative draws,
// the result is strictly positive for a positive mean.
func HalfNormal(source Source, mean, stdDev float64) float64 {
	value := math.Abs(mean + stdDev*source.NormFloat64())
	if value == 0 {
		return math.SmallestNonzeroFloat64
	}
	return value
}

// Fixed is a deterministic Source replaying the configured draws in order.
// When a sequence is exhausted its last value repeats.
type Fixed struct {
	Normals []float64
	Indexes []int
	normal  int
	index   int
}

// NormFloat64 returns the next configured normal draw.
func (f *Fixed) NormFloat64() float64 {
	if len(f.Normals) == 0 {
		return 0
	}
	ret := f.Normals[min(f.normal, len(f.Normals)-1)]
	f.normal++
	return ret
}

// IntN returns the next configured index, wrapped into [0,n).
func (f *Fixed) IntN(n int) int {
	if len(f.Indexes) == 0 || n <= 0 {
		return 0
	}
	ret := f.Indexes[min(f.index, len(f.Indexes)-1)]
	f.index++
	return ret % n
}
