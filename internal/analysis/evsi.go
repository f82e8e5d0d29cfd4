package analysis

import (
	"math"
	"math/rand"

	"testworth/domain/core"
	"testworth/domain/decision"
	"testworth/domain/prior"
	apperrors "testworth/internal/errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// Method names reported on EVSI results
const (
	MethodClosedForm = "closed_form"
	MethodMonteCarlo = "monte_carlo"
)

// EVSICalculator values one specific finite test against deciding today.
// Normal priors take the O(1) pre-posterior closed form; Student-t and
// Uniform priors run the Monte Carlo path.
type EVSICalculator struct {
	evpi *EVPICalculator
}

// NewEVSICalculator creates an EVSI calculator
func NewEVSICalculator() *EVSICalculator {
	return &EVSICalculator{evpi: NewEVPICalculator()}
}

// Compute evaluates EVSI. rng drives the Monte Carlo path only; the
// closed-form path ignores it. samples <= 0 falls back to DefaultSamples.
func (c *EVSICalculator) Compute(
	pr prior.Prior,
	biz decision.BusinessInputs,
	design decision.TestDesign,
	threshold float64,
	samples int,
	rng *rand.Rand,
) (*decision.EVSIResult, error) {
	if samples <= 0 {
		samples = DefaultSamples
	}

	obsSD, err := samplingStdDev(biz, design)
	if err != nil {
		return nil, apperrors.ComputationError("sampling variance is degenerate", err)
	}

	evpiRes, err := c.evpi.Compute(pr, threshold, biz.LiftValue())
	if err != nil {
		return nil, err
	}

	if pr.Shape() == prior.ShapeNormal {
		return c.closedForm(pr, evpiRes, threshold, biz.LiftValue(), obsSD)
	}
	return c.monteCarlo(pr, evpiRes, threshold, biz.LiftValue(), obsSD, samples, rng)
}

// MonteCarlo forces the sampling path regardless of prior shape. It backs
// the cross-validation between the two algorithms on Normal priors.
func (c *EVSICalculator) MonteCarlo(
	pr prior.Prior,
	biz decision.BusinessInputs,
	design decision.TestDesign,
	threshold float64,
	samples int,
	rng *rand.Rand,
) (*decision.EVSIResult, error) {
	if samples <= 0 {
		samples = DefaultSamples
	}
	obsSD, err := samplingStdDev(biz, design)
	if err != nil {
		return nil, apperrors.ComputationError("sampling variance is degenerate", err)
	}
	evpiRes, err := c.evpi.Compute(pr, threshold, biz.LiftValue())
	if err != nil {
		return nil, err
	}
	return c.monteCarlo(pr, evpiRes, threshold, biz.LiftValue(), obsSD, samples, rng)
}

// closedForm applies pre-posterior analysis: before seeing data, the
// posterior mean is Normal around the prior mean with standard deviation
// sqrt(prior variance - expected posterior variance). EVSI is the unit
// normal loss integral evaluated at that pre-posterior uncertainty.
func (c *EVSICalculator) closedForm(
	pr prior.Prior,
	evpiRes *decision.EVPIResult,
	threshold, liftValue, obsSD float64,
) (*decision.EVSIResult, error) {
	mu := pr.Mean()
	priorVar := pr.StdDev() * pr.StdDev()
	obsVar := obsSD * obsSD

	postVar := priorVar * obsVar / (priorVar + obsVar)
	ppSD := math.Sqrt(priorVar - postVar)
	if ppSD <= 0 || math.IsNaN(ppSD) {
		return nil, apperrors.ComputationError("pre-posterior deviation is degenerate", core.ErrDegenerate)
	}

	dollars := liftValue * ppSD * unitNormalLoss(math.Abs(mu-threshold)/ppSD)
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return nil, apperrors.ComputationError("EVSI evaluation produced a non-finite value", core.ErrNonFinite)
	}

	// Probability the posterior mean lands on the other side of the threshold
	flip := distuv.UnitNormal.CDF((threshold - mu) / ppSD)
	if evpiRes.DefaultAction == decision.DontShip {
		flip = 1 - flip
	}

	return &decision.EVSIResult{
		Dollars:               dollars,
		EVPIDollars:           evpiRes.Dollars,
		DefaultAction:         evpiRes.DefaultAction,
		OverturnProbability:   flip,
		TruncationSignificant: evpiRes.TruncationSignificant,
		Method:                MethodClosedForm,
	}, nil
}

// monteCarlo draws true lifts from the truncated prior, simulates a noisy
// observation for each, decides on the posterior estimate and scores the
// realized regret against the drawn truth. EVSI is the regret saved
// relative to always taking the default action on the same draws.
func (c *EVSICalculator) monteCarlo(
	pr prior.Prior,
	evpiRes *decision.EVPIResult,
	threshold, liftValue, obsSD float64,
	samples int,
	rng *rand.Rand,
) (*decision.EVSIResult, error) {
	tr, err := prior.Truncate(pr)
	if err != nil {
		return nil, apperrors.ComputationError("prior truncation failed", err)
	}

	draws := simulateDraws(tr, threshold, obsSD, samples, rng)

	var regretTest, regretDefault float64
	overturns := 0
	for _, d := range draws {
		regretTest += realizedRegret(d.action, d.lift, threshold)
		regretDefault += realizedRegret(evpiRes.DefaultAction, d.lift, threshold)
		if d.action != evpiRes.DefaultAction {
			overturns++
		}
	}

	dollars := liftValue * (regretDefault - regretTest) / float64(samples)
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return nil, apperrors.ComputationError("EVSI simulation produced a non-finite value", core.ErrNonFinite)
	}

	return &decision.EVSIResult{
		Dollars:               dollars,
		EVPIDollars:           evpiRes.Dollars,
		DefaultAction:         evpiRes.DefaultAction,
		OverturnProbability:   float64(overturns) / float64(samples),
		TruncationSignificant: evpiRes.TruncationSignificant,
		Method:                MethodMonteCarlo,
		Samples:               samples,
	}, nil
}
