package analysis

import (
	"math"

	"testworth/domain/prior"

	"gonum.org/v1/gonum/stat/distuv"
)

// simpsonIntervals is the fixed grid size for numerical expectations.
// Even, so Simpson's rule applies cleanly.
const simpsonIntervals = 4000

// tailMass bounds the truncated tail ignored when the support is unbounded
const tailMass = 1e-9

// unitNormalLoss evaluates the unit normal loss integral
// L(z) = phi(z) - z*(1 - Phi(z)) for z >= 0.
// It is the one-sided expected shortfall of a standard normal beyond z.
func unitNormalLoss(z float64) float64 {
	return distuv.UnitNormal.Prob(z) - z*(1-distuv.UnitNormal.CDF(z))
}

// normalShortfall is the closed-form expected one-sided loss for a
// Normal(mu, sigma) belief against a threshold:
// E[max(0, T-L)] when mu >= T, E[max(0, L-T)] when mu < T.
// Both reduce to sigma * L(|mu-T|/sigma).
func normalShortfall(mu, sigma, threshold float64) float64 {
	z := math.Abs(mu-threshold) / sigma
	return sigma * unitNormalLoss(z)
}

// shortfallBelow integrates (T - x) over the truncated density below the
// threshold: the expected loss of shipping when true lift undershoots.
// The lower limit hugs the actual support so bounded shapes keep the
// grid on the region where the density is continuous.
func shortfallBelow(tr *prior.Truncated, threshold float64) float64 {
	lo := tr.Quantile(tailMass)
	if lo < prior.SupportFloor {
		lo = prior.SupportFloor
	}
	if threshold <= lo {
		return 0
	}
	return simpson(lo, threshold, func(x float64) float64 {
		return (threshold - x) * tr.Density(x)
	})
}

// gainAbove integrates (x - T) over the truncated density on [T, hi]:
// the expected foregone gain of holding when true lift overshoots.
func gainAbove(tr *prior.Truncated, threshold float64) float64 {
	hi := tr.Quantile(1 - tailMass)
	lo := threshold
	if lo < prior.SupportFloor {
		lo = prior.SupportFloor
	}
	if hi <= lo {
		return 0
	}
	return simpson(lo, hi, func(x float64) float64 {
		return (x - threshold) * tr.Density(x)
	})
}

// simpson applies composite Simpson's rule on a fixed even grid
func simpson(a, b float64, f func(float64) float64) float64 {
	h := (b - a) / simpsonIntervals
	sum := f(a) + f(b)
	for i := 1; i < simpsonIntervals; i++ {
		x := a + float64(i)*h
		if i%2 == 1 {
			sum += 4 * f(x)
		} else {
			sum += 2 * f(x)
		}
	}
	return sum * h / 3
}
