package prior

import (
	"math"
	"math/rand"

	"testworth/domain/core"
)

// SupportFloor is the physical lower bound on lift: a change cannot
// destroy more than 100% of the baseline metric.
const SupportFloor = -1.0

// significantMass is the untruncated probability below the floor above
// which results carry the truncation-significant caveat.
const significantMass = 0.001

// Truncated restricts a prior to lift >= SupportFloor and renormalizes.
// All probability queries zero out mass below the floor and divide by
// the renormalizing constant 1/(1-CDF(floor)).
type Truncated struct {
	inner     Prior
	massBelow float64
	renorm    float64
}

// Truncate wraps a prior with floor truncation. Fails when essentially
// all prior mass sits below the floor, since no renormalization can
// recover a usable belief from that.
func Truncate(p Prior) (*Truncated, error) {
	massBelow := p.CDF(SupportFloor)
	remaining := 1 - massBelow
	if remaining <= 1e-12 || math.IsNaN(remaining) {
		return nil, core.NewFieldError(core.ErrDegenerate, "mass above support floor", remaining)
	}
	return &Truncated{
		inner:     p,
		massBelow: massBelow,
		renorm:    1 / remaining,
	}, nil
}

// Inner returns the untruncated prior
func (t *Truncated) Inner() Prior { return t.inner }

// MassBelowFloor is the untruncated probability of lift < SupportFloor
func (t *Truncated) MassBelowFloor() float64 { return t.massBelow }

// Significant reports whether the truncated mass is large enough that
// untruncated closed-form shortcuts become inexact. The flag rides along
// on every result; it never changes which formula variant runs.
func (t *Truncated) Significant() bool {
	return t.massBelow > significantMass
}

// Density evaluates the renormalized density at x
func (t *Truncated) Density(x float64) float64 {
	if x < SupportFloor {
		return 0
	}
	return t.inner.Density(x) * t.renorm
}

// CDF evaluates the renormalized cumulative probability up to x
func (t *Truncated) CDF(x float64) float64 {
	if x < SupportFloor {
		return 0
	}
	return (t.inner.CDF(x) - t.massBelow) * t.renorm
}

// Quantile inverts the truncated CDF for p in (0,1)
func (t *Truncated) Quantile(p float64) float64 {
	q := t.inner.Quantile(t.massBelow + p/t.renorm)
	if q < SupportFloor {
		return SupportFloor
	}
	return q
}

// Sample draws one lift from the truncated prior by inversion
func (t *Truncated) Sample(rng *rand.Rand) float64 {
	return t.Quantile(rng.Float64())
}
