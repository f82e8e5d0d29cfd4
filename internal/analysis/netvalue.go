package analysis

import (
	"math"
	"math/rand"

	"testworth/domain/core"
	"testworth/domain/decision"
	"testworth/domain/prior"
	apperrors "testworth/internal/errors"

	"github.com/montanaflynn/stats"
)

// yearDays is the horizon over which lift value accrues
const yearDays = 365.0

// NetValueCalculator answers "is testing worth it" with one coherent
// timeline simulation. Subtracting EVSI, delay cost and test cost
// separately would be wrong: their distributions are correlated through
// the same draw of true lift, so all three are folded into one pass.
type NetValueCalculator struct{}

// NewNetValueCalculator creates a net value calculator
func NewNetValueCalculator() *NetValueCalculator {
	return &NetValueCalculator{}
}

// Compute simulates a full calendar year with and without the test for
// each drawn true lift, then nets out direct and delay costs.
func (c *NetValueCalculator) Compute(
	pr prior.Prior,
	biz decision.BusinessInputs,
	design decision.TestDesign,
	costs decision.CostInputs,
	threshold float64,
	samples int,
	rng *rand.Rand,
) (*decision.NetValueResult, error) {
	if samples <= 0 {
		samples = DefaultSamples
	}

	obsSD, err := samplingStdDev(biz, design)
	if err != nil {
		return nil, apperrors.ComputationError("sampling variance is degenerate", err)
	}
	tr, err := prior.Truncate(pr)
	if err != nil {
		return nil, apperrors.ComputationError("prior truncation failed", err)
	}

	liftValue := biz.LiftValue()
	defaultAction := decision.Decide(pr.Mean(), threshold)

	testDays := design.DurationDays
	latencyDays := design.LatencyDays()
	postDays := yearDays - testDays - latencyDays
	if postDays < 0 {
		postDays = 0
	}
	// During the test only the treated share of eligible traffic sees the
	// change; the latency window conservatively runs the baseline for all.
	exposure := design.TreatmentFraction * design.EligibilityFraction

	draws := simulateDraws(tr, threshold, obsSD, samples, rng)

	withTest := make([]float64, samples)
	withoutTest := make([]float64, samples)
	overturns := 0
	for i, d := range draws {
		daily := liftValue * d.lift / yearDays

		value := testDays * daily * exposure
		if d.action == decision.Ship {
			value += postDays * daily
		}
		withTest[i] = value

		if defaultAction == decision.Ship {
			withoutTest[i] = yearDays * daily
		}
		if d.action != defaultAction {
			overturns++
		}
	}

	meanWith, err := stats.Mean(withTest)
	if err != nil {
		return nil, apperrors.ComputationError("net value aggregation failed", err)
	}
	meanWithout, err := stats.Mean(withoutTest)
	if err != nil {
		return nil, apperrors.ComputationError("net value aggregation failed", err)
	}

	gross := meanWith - meanWithout
	direct := costs.FixedCost + costs.LaborCost()
	delay := costs.DailyDelayCost * (testDays + latencyDays)
	net := gross - direct - delay
	if math.IsNaN(net) || math.IsInf(net, 0) {
		return nil, apperrors.ComputationError("net value simulation produced a non-finite value", core.ErrNonFinite)
	}

	verdict := decision.VerdictDontTest
	if net > 0 {
		verdict = decision.VerdictTest
	}

	return &decision.NetValueResult{
		Dollars:               net,
		Verdict:               verdict,
		GrossValueDollars:     gross,
		DirectCostDollars:     direct,
		DelayCostDollars:      delay,
		DefaultAction:         defaultAction,
		OverturnProbability:   float64(overturns) / float64(samples),
		TruncationSignificant: tr.Significant(),
		Samples:               samples,
	}, nil
}
