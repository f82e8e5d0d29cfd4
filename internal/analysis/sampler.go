package analysis

import (
	"math"
	"math/rand"

	"testworth/domain/core"
	"testworth/domain/decision"
	"testworth/domain/prior"
)

// DefaultSamples is the documented Monte Carlo draw count. Results are
// stochastic, so the count is fixed here rather than chosen ad hoc.
const DefaultSamples = 5000

// samplingStdDev derives the standard deviation of the experiment's
// relative-lift estimate from traffic, allocation and the baseline rate.
// Standard two-proportion variance, rescaled to the lift (relative) scale.
func samplingStdDev(biz decision.BusinessInputs, design decision.TestDesign) (float64, error) {
	eligible := design.DurationDays * design.DailyTraffic * design.EligibilityFraction
	nTreat := eligible * design.TreatmentFraction
	nControl := eligible * (1 - design.TreatmentFraction)
	if nTreat <= 0 || nControl <= 0 {
		return 0, core.NewFieldError(core.ErrDegenerate, "arm sample size", []float64{nTreat, nControl})
	}

	cr := biz.BaselineRate
	varAbs := cr * (1 - cr) * (1/nTreat + 1/nControl)
	sd := math.Sqrt(varAbs) / cr
	if sd <= 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0, core.NewFieldError(core.ErrDegenerate, "sampling standard deviation", sd)
	}
	return sd, nil
}

// posteriorMean applies the conjugate Normal-Normal update: the
// observation is shrunk toward the prior mean by precision weighting.
// The same approximation is used as the post-test point estimate for
// every prior shape, matching the decision-maker's actual read-out.
func posteriorMean(priorMu, priorVar, observed, obsVar float64) float64 {
	w := priorVar / (priorVar + obsVar)
	return priorMu + w*(observed-priorMu)
}

// realizedRegret scores an action against the drawn true lift, never
// against the estimate: the regret of shipping a loser or holding a winner.
func realizedRegret(action decision.Action, lift, threshold float64) float64 {
	switch action {
	case decision.Ship:
		if lift < threshold {
			return threshold - lift
		}
	case decision.DontShip:
		if lift > threshold {
			return lift - threshold
		}
	}
	return 0
}

// liftDraw is one simulated experiment outcome
type liftDraw struct {
	lift     float64 // true lift drawn from the truncated prior
	estimate float64 // posterior mean the decision-maker would see
	action   decision.Action
}

// simulateDraws runs the shared sampling core used by both the EVSI and
// Net Value calculators, guaranteeing internal consistency on shared inputs.
func simulateDraws(tr *prior.Truncated, threshold, obsSD float64, n int, rng *rand.Rand) []liftDraw {
	priorMu := tr.Inner().Mean()
	priorVar := tr.Inner().StdDev() * tr.Inner().StdDev()
	obsVar := obsSD * obsSD

	draws := make([]liftDraw, n)
	for i := range draws {
		lift := tr.Sample(rng)
		observed := lift + rng.NormFloat64()*obsSD
		est := posteriorMean(priorMu, priorVar, observed, obsVar)
		draws[i] = liftDraw{
			lift:     lift,
			estimate: est,
			action:   decision.Decide(est, threshold),
		}
	}
	return draws
}
