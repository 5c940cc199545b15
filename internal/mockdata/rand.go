// Package mockdata fabricates the deterministic transaction dataset served by
// the API during local development.
//
// Everything is driven by one seeded Park–Miller stream, so the same seed always
// yields the same records in the same order. The order in which values are drawn
// is part of that contract: reordering draws changes every record after it.
package mockdata

import (
	"github.com/shopspring/decimal"
)

const (
	lcgModulus    = 2147483647 // 2^31 - 1
	lcgMultiplier = 16807
)

// Rand is a minimal-standard linear congruential generator. It is not safe for
// concurrent use.
type Rand struct {
	state int64
}

// NewRand seeds a generator. Seeds are folded into [1, 2^31-2]; zero would
// otherwise be a fixed point of the recurrence.
func NewRand(seed int64) *Rand {
	s := seed % lcgModulus
	if s <= 0 {
		s += lcgModulus - 1
	}
	return &Rand{state: s}
}

// Float64 advances the state and returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state = (r.state * lcgMultiplier) % lcgModulus
	return float64(r.state-1) / float64(lcgModulus-1)
}

// Intn returns floor(Float64() * n).
func (r *Rand) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Range returns a value in [min, max).
func (r *Rand) Range(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Chance returns true with probability p.
func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](r *Rand, items []T) T {
	return items[r.Intn(len(items))]
}

var hundred = decimal.NewFromInt(100)

// roundCents rounds v*100 to an integer and scales back, so ties are decided
// on the binary product: 1.005 becomes 1.00, not 1.01.
func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v * 100).Round(0).Div(hundred).InexactFloat64()
}
